package sync

import (
	"context"
	"slices"

	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
)

// archiveMessages moves the imported alerts out of the inbox so the next run
// does not see them again.
func (s *Sync) archiveMessages(ctx context.Context, uids []uint32) error {
	log := logging.FromContext(ctx)

	if len(uids) == 0 {
		return nil
	}

	mailbox := s.Config.ArchiveMailbox
	if mailbox == "" {
		return errs.New("archive mailbox name cannot be empty")
	}

	mailboxes, err := s.deps.MailRepo.GetAvailableMailboxes(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(mailboxes, mailbox) {
		return errs.New("archive mailbox not found: %q", mailbox)
	}

	if s.DryRun {
		log.Info("not archiving messages because of dryrun",
			logging.String("mailbox", mailbox),
			logging.Int("messages", len(uids)),
		)
		return nil
	}

	if err := s.deps.MailRepo.MoveMessagesToMailbox(ctx, inbox, mailbox, uids...); err != nil {
		return err
	}

	log.Info("archived messages",
		logging.String("mailbox", mailbox),
		logging.Int("messages", len(uids)),
	)

	return nil
}
