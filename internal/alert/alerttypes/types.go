package alerttypes

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
)

const (
	UnknownBank = "Unknown Bank"

	DefaultCreditDescription = "Bank credit"
	DefaultDebitDescription  = "Bank debit"

	DateLayout = "2006-01-02"
)

type TrxType int8

const (
	Credit TrxType = iota
	Debit
)

func (t TrxType) String() string {
	switch t {
	case Credit:
		return "credit"
	case Debit:
		return "debit"
	default:
		return "undefined"
	}
}

func (t TrxType) IsValid() bool {
	return t.String() != "undefined"
}

func (t TrxType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, errs.New("invalid transaction type: %d", int8(t))
	}
	return []byte(t.String()), nil
}

func (t *TrxType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "credit":
		*t = Credit
	case "debit":
		*t = Debit
	default:
		return errs.New("invalid transaction type: %q", string(b))
	}
	return nil
}

// DefaultDescription is the narration used when none could be extracted.
func (t TrxType) DefaultDescription() string {
	if t == Debit {
		return DefaultDebitDescription
	}
	return DefaultCreditDescription
}

// ParsedTransaction is the outcome of parsing one alert. It is a value: the
// parser never touches it again after returning it.
type ParsedTransaction struct {
	Amount      decimal.Decimal
	Type        TrxType
	Description string
	Bank        string
	Date        time.Time
}

func (p ParsedTransaction) IsCredit() bool {
	return p.Type == Credit
}

type parsedTransactionJSON struct {
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Bank        string      `json:"bank"`
	Type        TrxType     `json:"type"`
}

func (p ParsedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(parsedTransactionJSON{
		Date:        p.Date.Format(DateLayout),
		Amount:      json.Number(p.Amount.String()),
		Description: p.Description,
		Bank:        p.Bank,
		Type:        p.Type,
	})
}

func (p *ParsedTransaction) UnmarshalJSON(b []byte) error {
	var raw parsedTransactionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return errs.Wrap(err)
	}

	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return errs.New("invalid amount %q: %w", raw.Amount, err)
	}

	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return errs.New("invalid date %q: %w", raw.Date, err)
	}

	*p = ParsedTransaction{
		Amount:      amount,
		Type:        raw.Type,
		Description: raw.Description,
		Bank:        raw.Bank,
		Date:        date,
	}

	return nil
}
