package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
	synctypes "github.com/Philanthropists/income-alerts/internal/sync/types"
	"github.com/Philanthropists/income-alerts/internal/types"
)

const notificationLimit = 3

func (s *Sync) notifyUsers(ctx context.Context, notifications []userNotification) error {
	log := logging.FromContext(ctx)

	var numbers []string
	perUser := make(map[string][]types.Notification)
	for _, n := range notifications {
		if n.To == "" {
			log.Warn("no sms number for notification",
				logging.Stringer("type", n.Type),
				logging.String("msg", n.Msg),
			)
			continue
		}

		if _, ok := perUser[n.To]; !ok {
			numbers = append(numbers, n.To)
		}
		perUser[n.To] = append(perUser[n.To], n.Notification)
	}

	var group errs.Group
	for _, number := range numbers {
		if err := s.notifyUserWithSMS(ctx, number, perUser[number]); err != nil {
			log.Error("could not send sms to user",
				logging.String("to_number", number),
				logging.Error(err),
			)
			group.Add(err)
		}
	}

	return group.Err()
}

func (s *Sync) notifyUserWithSMS(
	ctx context.Context,
	toNumber string,
	notifications []types.Notification,
) error {
	log := logging.FromContext(ctx)

	msg := smsBody(version(ctx), notifications)

	if s.DryRun {
		log.Info("not sending notifications due to dryrun",
			logging.String("to_number", toNumber),
			logging.String("msg", msg),
		)
		return nil
	}

	return s.deps.NotificationServ.SendSMS(ctx, toNumber, msg)
}

func version(ctx context.Context) string {
	v, ok := ctx.Value(synctypes.VersionCtxKey{}).(string)
	if !ok || v == "" {
		return "dev"
	}
	if len(v) > 3 {
		return v[:3]
	}
	return v
}

func smsBody(version string, notifications []types.Notification) string {
	const headerFmt = `%s Txs: s:%d / f:%d / parse:%d / debit:%d`

	counts := make(map[types.NotificationType]int, 4)
	for _, n := range notifications {
		counts[n.Type]++
	}

	lines := []string{fmt.Sprintf(headerFmt,
		version,
		counts[types.Success],
		counts[types.Failed],
		counts[types.Parse],
		counts[types.Debit],
	)}

	size := min(notificationLimit, len(notifications))
	for _, n := range notifications[:size] {
		lines = append(lines, n.String())
	}

	if len(notifications) > size {
		lines = append(lines, fmt.Sprintf("... and %d more", len(notifications)-size))
	}

	return strings.Join(lines, "\n")
}
