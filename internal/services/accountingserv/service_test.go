package accountingserv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Philanthropists/toshl-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Philanthropists/income-alerts/internal/services/accountingserv/accountingservtypes"
	"github.com/Philanthropists/income-alerts/internal/types/currency"
)

type fakeToshl struct {
	mu         sync.Mutex
	accounts   []toshl.Account
	categories []toshl.Category
	entries    []toshl.Entry
	err        error
	block      chan struct{}
}

func (f *fakeToshl) Categories(*toshl.CategoryQueryParams) ([]toshl.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, f.err
}

func (f *fakeToshl) Accounts(*toshl.AccountQueryParams) ([]toshl.Account, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts, f.err
}

func (f *fakeToshl) CreateCategory(c *toshl.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	c.ID = "cat-new"
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeToshl) CreateEntry(e *toshl.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *e)
	return nil
}

func newService(f *fakeToshl) (*ToshlService, *int) {
	built := 0
	return &ToshlService{
		ClientBuilder: func(string) ToshlClient {
			built++
			return f
		},
	}, &built
}

func Test_GetAccountsReusesClientPerToken(t *testing.T) {
	f := &fakeToshl{accounts: []toshl.Account{{ID: "1", Name: "GTBank"}}}
	s, built := newService(f)

	for i := 0; i < 3; i++ {
		as, err := s.GetAccounts(context.Background(), "token")
		require.NoError(t, err)
		assert.Equal(t, []accountingservtypes.Account{{ID: "1", Name: "GTBank"}}, as)
	}
	assert.Equal(t, 1, *built)

	_, err := s.GetAccounts(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, 2, *built)
}

func Test_GetAccountsHonorsContext(t *testing.T) {
	f := &fakeToshl{block: make(chan struct{})}
	defer close(f.block)
	s, _ := newService(f)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.GetAccounts(ctx, "token")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_CreateCategory(t *testing.T) {
	f := &fakeToshl{}
	s, _ := newService(f)

	c, err := s.CreateCategory(context.Background(), "token", Income, "PENDING_INCOME")
	require.NoError(t, err)
	assert.Equal(t, accountingservtypes.Category{ID: "cat-new", Name: "PENDING_INCOME", Type: Income}, c)

	_, err = s.CreateCategory(context.Background(), "token", "gift", "X")
	assert.True(t, Error.Has(err))
}

func Test_CreateEntry(t *testing.T) {
	f := &fakeToshl{}
	s, _ := newService(f)

	err := s.CreateEntry(context.Background(), "token", accountingservtypes.CreateEntryInput{
		Date:        time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		Amount:      currency.New("NGN", decimal.RequireFromString("1000.50")),
		Description: "Transfer from Ada",
		AccountID:   "acc-1",
		CategoryID:  "cat-1",
	})
	require.NoError(t, err)

	require.Len(t, f.entries, 1)
	e := f.entries[0]
	assert.Equal(t, 1000.5, e.Amount)
	assert.Equal(t, "NGN", e.Currency.Code)
	assert.Equal(t, "2024-03-10", e.Date)
	assert.Equal(t, "Transfer from Ada", *e.Description)
	assert.Equal(t, "acc-1", e.Account)
	assert.Equal(t, "cat-1", e.Category)
}

func Test_CreateEntryErrors(t *testing.T) {
	f := &fakeToshl{err: errors.New("boom")}
	s, _ := newService(f)

	in := accountingservtypes.CreateEntryInput{Amount: currency.New("NGN", decimal.NewFromInt(5))}
	err := s.CreateEntry(context.Background(), "token", in)
	assert.True(t, Error.Has(err))

	in.Amount = currency.New("NGN", decimal.Zero)
	err = s.CreateEntry(context.Background(), "token", in)
	assert.True(t, Error.Has(err))
}
