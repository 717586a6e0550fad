package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const NGN = "NGN"

type Amount struct {
	Code   string
	Number decimal.Decimal
}

func New(code string, n decimal.Decimal) Amount {
	if code == "" {
		code = NGN
	}
	return Amount{Code: code, Number: n}
}

// Float64 is only meant for APIs that take floats. Amounts are kept as
// decimals everywhere else.
func (a Amount) Float64() float64 {
	return a.Number.InexactFloat64()
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Number.StringFixed(2), a.Code)
}
