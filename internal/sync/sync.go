// Package sync imports bank alerts from a mailbox into Toshl.
//
// A run fetches the alert e-mails received since the last run, parses them
// and stores every credit as an income entry. Debits and unparsable alerts
// are never stored; they are reported back to the account holder by SMS.
package sync

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/accountingserv/accountingservtypes"
	"github.com/Philanthropists/income-alerts/internal/services/mailserv/mailservtypes"
	"github.com/Philanthropists/income-alerts/internal/services/userconfigserv"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
	"github.com/Philanthropists/income-alerts/internal/types/result"
)

var Error = errs.Class("sync")

const inbox = "INBOX"

type dateRepo interface {
	GetLastProcessedDate(ctx context.Context) (time.Time, error)
	SaveProcessedDate(ctx context.Context, t time.Time) error
}

type mailRepo interface {
	GetAvailableMailboxes(ctx context.Context) ([]string, error)
	GetMessagesFromMailbox(ctx context.Context, mailbox string, since time.Time) (<-chan result.Result[mailservtypes.Message], error)
	MoveMessagesToMailbox(ctx context.Context, fromMailbox, toMailbox string, msgIDs ...uint32) error
}

type userCfgRepo interface {
	FindUserConfig(ctx context.Context, candidates []string) (userconfigserv.UserConfig, error)
}

type accountingRepo interface {
	GetCategories(ctx context.Context, token string) ([]accountingservtypes.Category, error)
	CreateCategory(ctx context.Context, token, catType, category string) (accountingservtypes.Category, error)
	CreateEntry(ctx context.Context, token string, entryInput accountingservtypes.CreateEntryInput) error
}

type notificationServ interface {
	SendSMS(ctx context.Context, to, msg string) error
}

type alertParser interface {
	Parse(ctx context.Context, text, knownUserName string) (*alerttypes.ParsedTransaction, error)
}

type senderFilter interface {
	AllowsAny(senders []string) bool
}

type Dependencies struct {
	TimeLocale       *time.Location
	DateRepo         dateRepo
	MailRepo         mailRepo
	UserCfgRepo      userCfgRepo
	AccountingRepo   accountingRepo
	NotificationServ notificationServ
	Parser           alertParser
	Senders          senderFilter
	Deduper          *Deduper
}

// Summary counts what a run did with the messages it fetched. Skipped covers
// non-bank mail, duplicates, debits and unparsable alerts.
type Summary struct {
	RunID     string
	Total     int
	Processed int
	Imported  int
	Skipped   int
	Errors    int
}

type Sync struct {
	Config types.Config
	DryRun bool

	// Deps replaces the dependencies built from Config.
	Deps       *Dependencies
	Goroutines uint

	configOnce sync.Once
	deps       *Dependencies
	configErr  error

	categoryMu sync.Mutex
}

func (s *Sync) goroutines() int {
	if s.Goroutines == 0 {
		return runtime.NumCPU()
	}

	return int(s.Goroutines)
}

func (s *Sync) Run(ctx context.Context) (_ Summary, genErr error) {
	defer func() { genErr = Error.Wrap(genErr) }()

	summary := Summary{RunID: uuid.NewString()}

	log := logging.FromContext(ctx).With(
		logging.String("run_id", summary.RunID),
		logging.Bool("dryrun", s.DryRun),
	)
	ctx = log.GetContext(ctx)

	log.Info("running sync")
	start := time.Now()

	if err := s.configure(ctx); err != nil {
		return summary, err
	}
	defer s.close(ctx)

	since, err := s.deps.DateRepo.GetLastProcessedDate(ctx)
	if err != nil {
		return summary, err
	}

	msgs, err := s.getMessagesFromInbox(ctx, since, &summary)
	if err != nil {
		return summary, err
	}

	outcomes := s.parseMessages(ctx, msgs)

	credits, notifications := s.applyPolicy(ctx, outcomes, &summary)

	registered := s.registerTrxsIntoAccounting(ctx, credits)

	var archive []uint32
	for _, r := range registered {
		if r.Err != nil {
			summary.Errors++
			log.Error("could not register transaction",
				logging.Uint("uid", r.Outcome.Msg.UID),
				logging.Error(r.Err),
			)
			notifications = append(notifications, failedNotification(r.Outcome))
			continue
		}

		summary.Imported++
		archive = append(archive, r.Outcome.Msg.UID)
		notifications = append(notifications, successNotification(r.Outcome))
		s.markSeen(r.Outcome)
	}

	if err := s.archiveMessages(ctx, archive); err != nil {
		log.Error("could not archive imported messages", logging.Error(err))
		summary.Errors++
	}

	if err := s.saveLastExecutionDate(ctx, msgs); err != nil {
		log.Error("could not save last processed date", logging.Error(err))
		summary.Errors++
	}

	if err := s.notifyUsers(ctx, notifications); err != nil {
		log.Error("could not notify users", logging.Error(err))
	}

	log.Info("sync finished",
		logging.Int("total", summary.Total),
		logging.Int("processed", summary.Processed),
		logging.Int("imported", summary.Imported),
		logging.Int("skipped", summary.Skipped),
		logging.Int("errors", summary.Errors),
		logging.Duration("took", time.Since(start)),
	)

	return summary, ctx.Err()
}
