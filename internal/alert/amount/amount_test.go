package amount

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type amountTest struct {
	Text    string
	Value   string
	Pattern string
	Found   bool
}

var amountTests = []amountTest{
	{Text: "Credit Alert NGN 1,000.00 to your account", Value: "1000", Pattern: "currency", Found: true},
	{Text: "Amt:N5,000.50 CR", Value: "5000.5", Pattern: "currency", Found: true},
	{Text: "₦12,345.67 received", Value: "12345.67", Pattern: "currency", Found: true},
	{Text: "ngn 250", Value: "250", Pattern: "currency", Found: true},
	{Text: "Amount: 7,500.00", Value: "7500", Pattern: "label", Found: true},
	{Text: "sum 300", Value: "300", Pattern: "label", Found: true},
	{Text: "Your account was credited 20,000.00 today", Value: "20000", Pattern: "verb", Found: true},
	{Text: "You paid: 450", Value: "450", Pattern: "verb", Found: true},
	{Text: "You got 3,000 naira from Tolu", Value: "3000", Pattern: "suffix", Found: true},
	{Text: "Total 800.00NGN", Value: "800", Pattern: "suffix", Found: true},
	{Text: "no money mentioned here", Found: false},
	{Text: "", Found: false},
	{Text: "Transaction 4455 completed", Found: false},
	{Text: "NGN 0", Found: false},
	{Text: "NGN 0.00 fee", Found: false},
	{Text: "Amount: -50", Found: false},
	{Text: "NGN -50", Found: false},
	{Text: "N,,,", Found: false},
}

func Test_Extract(t *testing.T) {
	for _, tc := range amountTests {
		v, pattern, ok := ExtractWithPattern(tc.Text)

		assert.Equal(t, tc.Found, ok, tc.Text)
		if !tc.Found {
			assert.True(t, v.IsZero(), tc.Text)
			continue
		}

		assert.True(t, decimal.RequireFromString(tc.Value).Equal(v), "%q: got %s", tc.Text, v)
		assert.Equal(t, tc.Pattern, pattern, tc.Text)
	}
}

func Test_ZeroCurrencyFallsThroughToNextPattern(t *testing.T) {
	v, pattern, ok := ExtractWithPattern("NGN 0.00 charge reversed, amount: 150.00")
	assert.True(t, ok)
	assert.Equal(t, "label", pattern)
	assert.True(t, decimal.NewFromInt(150).Equal(v))
}

func Test_OnlyFirstMatchOfPatternIsUsed(t *testing.T) {
	v, ok := Extract("NGN 2,000.00 sent, balance NGN 98,000.00")
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(2000).Equal(v))
}

func Test_LongInputDoesNotBlowUp(t *testing.T) {
	text := strings.Repeat("N, ", 50000) + "NGN 1,000.00"
	v, ok := Extract(text)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(1000).Equal(v))
}

func Test_CurrencyLetterNeedsWordBoundary(t *testing.T) {
	for _, text := range []string{
		"Txn 12345 credited naira",
		"PIN 4821 expires soon",
		"Ref ADMIN99 approved",
	} {
		_, ok := Extract(text)
		assert.False(t, ok, text)
	}

	v, ok := Extract("Txn 12345 credited N5,000")
	assert.True(t, ok)
	assert.Equal(t, "5000", v.String())
}
