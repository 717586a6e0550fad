package sync

import (
	"context"
	"time"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/mailserv/mailservtypes"
)

// saveLastExecutionDate stores the date of the earliest message seen, so a
// message that failed this time is fetched again next time.
func (s *Sync) saveLastExecutionDate(ctx context.Context, msgs []mailservtypes.Message) error {
	log := logging.FromContext(ctx)

	earliest := time.Now()

	for _, m := range msgs {
		t := m.Date()
		if !t.IsZero() && t.Before(earliest) {
			earliest = t
		}
	}

	log.Info("setting new last execution date",
		logging.Time("earliest", earliest),
	)

	if s.DryRun {
		log.Info("not changing last execution date because of dryrun")
		return nil
	}

	return s.deps.DateRepo.SaveProcessedDate(ctx, earliest)
}
