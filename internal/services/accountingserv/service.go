package accountingserv

import (
	"context"
	"slices"
	"sync"

	"github.com/Philanthropists/toshl-go"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/accountingserv/accountingservtypes"
)

var Error = errs.Class("accounting")

type ToshlClient interface {
	Categories(params *toshl.CategoryQueryParams) ([]toshl.Category, error)
	Accounts(params *toshl.AccountQueryParams) ([]toshl.Account, error)
	CreateCategory(category *toshl.Category) error
	CreateEntry(entry *toshl.Entry) error
}

const (
	Income      = "income"
	Expense     = "expense"
	Transaction = "transaction"
)

const dateFormat = "2006-01-02"

// ToshlService talks to Toshl on behalf of many users, keeping one client per
// token.
type ToshlService struct {
	ClientBuilder func(string) ToshlClient

	clients sync.Map
}

func (r *ToshlService) getClient(token string) ToshlClient {
	c, ok := r.clients.Load(token)
	if !ok {
		c, _ = r.clients.LoadOrStore(token, r.ClientBuilder(token))
	}

	return c.(ToshlClient)
}

func (r *ToshlService) GetAccounts(
	ctx context.Context,
	token string,
) ([]accountingservtypes.Account, error) {
	c := r.getClient(token)

	return doCancelableOperation(ctx, func() ([]accountingservtypes.Account, error) {
		ac, err := c.Accounts(nil)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		as := make([]accountingservtypes.Account, 0, len(ac))
		for _, a := range ac {
			as = append(as, accountingservtypes.Account{
				ID:   a.ID,
				Name: a.Name,
			})
		}

		return as, nil
	})
}

func (r *ToshlService) GetCategories(
	ctx context.Context,
	token string,
) ([]accountingservtypes.Category, error) {
	c := r.getClient(token)

	return doCancelableOperation(ctx, func() ([]accountingservtypes.Category, error) {
		cats, err := c.Categories(nil)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		cs := make([]accountingservtypes.Category, 0, len(cats))
		for _, c := range cats {
			cs = append(cs, accountingservtypes.Category{
				ID:   c.ID,
				Name: c.Name,
				Type: c.Type,
			})
		}

		return cs, nil
	})
}

func (r *ToshlService) CreateCategory(
	ctx context.Context, token, catType, category string,
) (accountingservtypes.Category, error) {
	c := r.getClient(token)

	validCategoryTypes := []string{
		Income,
		Expense,
		Transaction,
	}

	if !slices.Contains(validCategoryTypes, catType) {
		return accountingservtypes.Category{}, Error.New("%q is not a valid category", catType)
	}

	return doCancelableOperation(ctx, func() (accountingservtypes.Category, error) {
		cat := toshl.Category{
			Name: category,
			Type: catType,
		}

		if err := c.CreateCategory(&cat); err != nil {
			return accountingservtypes.Category{}, Error.Wrap(err)
		}

		return accountingservtypes.Category{
			ID:   cat.ID,
			Name: cat.Name,
			Type: cat.Type,
		}, nil
	})
}

// CreateEntry stores one entry. Toshl takes amounts as floats, so this is the
// only place where the decimal amount is converted.
func (r *ToshlService) CreateEntry(
	ctx context.Context, token string, entryInput accountingservtypes.CreateEntryInput,
) error {
	log := logging.FromContext(ctx)

	if !entryInput.Amount.Number.IsPositive() {
		return Error.New("entry amount must be positive, got %s", entryInput.Amount)
	}

	c := r.getClient(token)

	description := entryInput.Description

	newEntry := toshl.Entry{
		Amount: entryInput.Amount.Float64(),
		Currency: toshl.Currency{
			Code: entryInput.Amount.Code,
		},
		Date:        entryInput.Date.Format(dateFormat),
		Description: &description,
		Account:     entryInput.AccountID,
		Category:    entryInput.CategoryID,
	}

	log.Debug("entry to create",
		logging.Any("entry", newEntry),
	)

	_, err := doCancelableOperation(ctx, func() (struct{}, error) {
		return struct{}{}, c.CreateEntry(&newEntry)
	})
	if err != nil {
		return Error.New("could not create entry: %w", err)
	}

	return nil
}

func doCancelableOperation[T any](ctx context.Context, op func() (T, error)) (T, error) {
	type response struct {
		Value T
		Err   error
	}

	// buffered so the operation can finish after the caller stopped waiting
	resp := make(chan response, 1)
	go func() {
		defer close(resp)
		as, err := op()
		resp <- response{
			Value: as,
			Err:   err,
		}
	}()

	var zeroValue T

	select {
	case <-ctx.Done():
		return zeroValue, errs.New("context finished: %w", ctx.Err())

	case r := <-resp:
		if r.Err != nil {
			return zeroValue, r.Err
		}

		return r.Value, nil
	}
}
