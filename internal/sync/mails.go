package sync

import (
	"context"
	"time"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/mailserv/mailservtypes"
)

// getMessagesFromInbox returns the bank alerts received since a date that
// were not handled by an earlier run.
func (s *Sync) getMessagesFromInbox(
	ctx context.Context,
	since time.Time,
	summary *Summary,
) ([]mailservtypes.Message, error) {
	log := logging.FromContext(ctx)

	results, err := s.deps.MailRepo.GetMessagesFromMailbox(ctx, inbox, since)
	if err != nil {
		return nil, err
	}

	var msgs []mailservtypes.Message
	for r := range results {
		if err := r.Err(); err != nil {
			summary.Errors++
			log.Error("could not fetch message", logging.Error(err))
			continue
		}

		summary.Total++
		m := r.Value()

		if !s.deps.Senders.AllowsAny(m.From()) {
			summary.Skipped++
			log.Debug("not a bank sender",
				logging.Uint("uid", m.UID),
				logging.Any("from", m.From()),
			)
			continue
		}

		if s.deps.Deduper.Seen(m) {
			summary.Skipped++
			log.Debug("message already handled", logging.Uint("uid", m.UID))
			continue
		}

		msgs = append(msgs, m)
	}

	log.Info("fetched bank messages",
		logging.Time("since", since),
		logging.Int("total", summary.Total),
		logging.Int("bank_messages", len(msgs)),
	)

	return msgs, nil
}
