package sync

import (
	"context"
	"sync"
	"time"

	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/accountingserv"
	"github.com/Philanthropists/income-alerts/internal/services/accountingserv/accountingservtypes"
	"github.com/Philanthropists/income-alerts/internal/types/currency"
	utilslices "github.com/Philanthropists/income-alerts/internal/util/slices"
)

// PendingIncomeCategory holds imported entries until someone files them.
const PendingIncomeCategory = "PENDING_INCOME"

type registerResponse struct {
	Outcome outcome
	Err     error
}

func (s *Sync) registerTrxsIntoAccounting(
	ctx context.Context,
	credits []outcome,
) []registerResponse {
	log := logging.FromContext(ctx)

	routines := min(s.goroutines(), len(credits))
	if routines == 0 {
		return nil
	}

	buckets, err := utilslices.Split(routines, credits)
	if err != nil {
		// Split only fails for a non-positive bucket count
		panic(err)
	}

	log = log.With(
		logging.Int("routines", routines),
		logging.Int("buckets", len(buckets)),
	)
	log.Debug("executing with goroutines")
	ctx = log.GetContext(ctx)

	out := make(chan registerResponse, len(credits))

	var wg sync.WaitGroup
	wg.Add(len(buckets))
	for _, b := range buckets {
		go func(credits []outcome) {
			defer wg.Done()

			for _, o := range credits {
				if err := ctx.Err(); err != nil {
					out <- registerResponse{Outcome: o, Err: err}
					continue
				}

				out <- registerResponse{
					Outcome: o,
					Err:     s.registerSingleTrxIntoAccounting(ctx, o),
				}
			}
		}(b)
	}

	wg.Wait()
	close(out)

	responses := make([]registerResponse, 0, len(credits))
	for r := range out {
		responses = append(responses, r)
	}

	return responses
}

func (s *Sync) registerSingleTrxIntoAccounting(ctx context.Context, o outcome) error {
	log := logging.FromContext(ctx).With(logging.Uint("uid", o.Msg.UID))

	repo := s.deps.AccountingRepo
	token := o.Cfg.Toshl.Token
	if token == "" {
		return errs.New("no Toshl token for %v", o.Msg.To())
	}

	accountID, ok := o.Cfg.AccountFor(o.Trx.Bank)
	if !ok {
		return errs.New("no Toshl account mapped for bank %q", o.Trx.Bank)
	}

	now := time.Now()
	categoryID, err := s.createCategoryIfAbsent(ctx, token, accountingserv.Income, PendingIncomeCategory)
	if err != nil {
		return err
	}

	entry := accountingservtypes.CreateEntryInput{
		Date:        o.Trx.Date,
		Amount:      currency.New(s.Config.Currency, o.Trx.Amount),
		Description: o.Trx.Description,
		AccountID:   accountID,
		CategoryID:  categoryID,
	}

	if s.DryRun {
		log.Info("not creating entry because of dryrun",
			logging.Stringer("amount", entry.Amount),
			logging.String("account_id", accountID),
			logging.String("category_id", categoryID),
		)
		return nil
	}

	if err := repo.CreateEntry(ctx, token, entry); err != nil {
		return err
	}

	log.Debug("toshl registered",
		logging.Duration("took", time.Since(now)),
		logging.Stringer("amount", entry.Amount),
		logging.String("bank", o.Trx.Bank),
	)

	return nil
}

// createCategoryIfAbsent is serialized so concurrent registrations do not
// create the category twice.
func (s *Sync) createCategoryIfAbsent(
	ctx context.Context,
	token, catType, category string,
) (string, error) {
	log := logging.FromContext(ctx)

	s.categoryMu.Lock()
	defer s.categoryMu.Unlock()

	repo := s.deps.AccountingRepo

	categories, err := repo.GetCategories(ctx, token)
	if err != nil {
		return "", errs.Wrap(err)
	}

	for _, c := range categories {
		if c.Name == category {
			if c.Type != catType {
				log.Warn("categories mismatch",
					logging.String("actual", c.Type),
					logging.String("expected", catType),
				)
			}
			return c.ID, nil
		}
	}

	if s.DryRun {
		log.Info("not creating categories because of dryrun")
		return "", nil
	}

	r, err := repo.CreateCategory(ctx, token, catType, category)
	if err != nil {
		return "", errs.Wrap(err)
	}

	return r.ID, nil
}
