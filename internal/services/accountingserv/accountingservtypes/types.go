package accountingservtypes

import (
	"time"

	"github.com/Philanthropists/income-alerts/internal/types/currency"
)

type Account struct {
	ID   string
	Name string
}

type Category struct {
	ID   string
	Name string
	Type string
}

type CreateEntryInput struct {
	Date        time.Time
	Amount      currency.Amount
	Description string
	AccountID   string
	CategoryID  string
}

