package sync

import (
	"context"
	"fmt"

	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/types"
)

// userNotification is a notification routed to one account holder.
type userNotification struct {
	types.Notification
	To string
}

// applyPolicy keeps the credits for import. Debits are never stored by an
// income tracker: they only produce a notification, as do unparsable alerts.
func (s *Sync) applyPolicy(
	ctx context.Context,
	outcomes []outcome,
	summary *Summary,
) ([]outcome, []userNotification) {
	log := logging.FromContext(ctx)

	var (
		credits       []outcome
		notifications []userNotification
	)

	for _, o := range outcomes {
		summary.Processed++

		switch {
		case o.Err != nil:
			summary.Skipped++
			s.markSeen(o)
			log.Warn("could not parse alert",
				logging.Uint("uid", o.Msg.UID),
				logging.String("subject", o.Msg.Subject()),
				logging.Error(o.Err),
			)
			notifications = append(notifications, userNotification{
				To: o.Cfg.SMSDeliveryNumber,
				Notification: types.Notification{
					Type: types.Parse,
					Date: o.Msg.Date(),
					Msg:  o.Msg.Subject(),
				},
			})

		case o.Trx.Type == alerttypes.Debit:
			summary.Skipped++
			s.markSeen(o)
			log.Info("debit alert not imported",
				logging.Uint("uid", o.Msg.UID),
				logging.Decimal("amount", o.Trx.Amount),
				logging.String("bank", o.Trx.Bank),
			)
			notifications = append(notifications, userNotification{
				To: o.Cfg.SMSDeliveryNumber,
				Notification: types.Notification{
					Type: types.Debit,
					Date: o.Trx.Date,
					Msg:  describe(o.Trx),
				},
			})

		default:
			credits = append(credits, o)
		}
	}

	return credits, notifications
}

func (s *Sync) markSeen(o outcome) {
	if s.DryRun {
		return
	}
	s.deps.Deduper.Mark(o.Msg)
}

func describe(trx *alerttypes.ParsedTransaction) string {
	return fmt.Sprintf("%s %.20q %s", trx.Bank, trx.Description, trx.Amount.StringFixed(2))
}

func successNotification(o outcome) userNotification {
	return userNotification{
		To: o.Cfg.SMSDeliveryNumber,
		Notification: types.Notification{
			Type: types.Success,
			Date: o.Trx.Date,
			Msg:  describe(o.Trx),
		},
	}
}

func failedNotification(o outcome) userNotification {
	return userNotification{
		To: o.Cfg.SMSDeliveryNumber,
		Notification: types.Notification{
			Type: types.Failed,
			Date: o.Trx.Date,
			Msg:  describe(o.Trx),
		},
	}
}
