package alert

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
	"github.com/Philanthropists/income-alerts/internal/alert/normalize"
	"github.com/Philanthropists/income-alerts/internal/logging"
)

var lagos = time.FixedZone("WAT", 60*60)

func fixedParser() *Parser {
	return &Parser{
		Now: func() time.Time {
			// 23:30 UTC is already the next day in Lagos.
			return time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)
		},
		Location: lagos,
	}
}

func testContext() context.Context {
	return logging.Nop().GetContext(context.Background())
}

type parseTest struct {
	Name        string
	Text        string
	User        string
	Amount      string
	Type        alerttypes.TrxType
	Bank        string
	Description string
}

var parseTests = []parseTest{
	{
		Name:        "gtbank credit",
		Text:        "GTBank Credit Alert\nAcct: 0123****89\nAmt: NGN 1,000.00\nDesc: Transfer from Ada\nAvail Bal: NGN 51,000.00",
		Amount:      "1000",
		Type:        alerttypes.Credit,
		Bank:        "GTBank",
		Description: "Transfer from Ada",
	},
	{
		Name:        "debit veto",
		Text:        "NGN 5,000.00 debit alert",
		Amount:      "5000",
		Type:        alerttypes.Debit,
		Bank:        alerttypes.UnknownBank,
		Description: "NGN 5,000.00 debit alert",
	},
	{
		Name:        "user sends money",
		Text:        "Opay Transfer Receipt\n₦3,000.00\nSender Details\nJOHN DOE\nRecipient Details\nJANE SMITH\nTransaction No. 2501",
		User:        "JOHN DOE",
		Amount:      "3000",
		Type:        alerttypes.Debit,
		Bank:        "Opay",
		Description: "Opay Transfer Receipt",
	},
	{
		Name:        "user receives money",
		Text:        "Opay Transfer Receipt\n₦3,000.00\nSender Details\nJANE SMITH\nRecipient Details\nJOHN DOE\nTransaction No. 2501",
		User:        "JOHN DOE",
		Amount:      "3000",
		Type:        alerttypes.Credit,
		Bank:        "Opay",
		Description: "Opay Transfer Receipt",
	},
	{
		Name:        "business recipient",
		Text:        "Transfer Receipt\nNGN 12,000.00\nSender Details\nTUNDE BAKARE\nRecipient Details\nABC VENTURES LIMITED\nTransaction No. 2502",
		Amount:      "12000",
		Type:        alerttypes.Debit,
		Bank:        alerttypes.UnknownBank,
		Description: "Transfer Receipt",
	},
	{
		Name:        "promo footer does not cause a debit",
		Text:        "Kuda: You received N2,500.00 from Tolu to your account\n\nWithdrawals are free on Kuda!\nLicensed by the CBN",
		Amount:      "2500",
		Type:        alerttypes.Credit,
		Bank:        "Kuda",
		Description: "Tolu",
	},
	{
		Name:        "no-break space between currency and amount",
		Text:        "Credit alert NGN\u00a05,000.00",
		User:        "JOHN DOE",
		Amount:      "5000",
		Type:        alerttypes.Credit,
		Bank:        alerttypes.UnknownBank,
		Description: "Credit alert NGN 5,000.00",
	},
	{
		Name:        "no-break space after amount label",
		Text:        "Amount:\u00a05,000.00",
		Amount:      "5000",
		Type:        alerttypes.Credit,
		Bank:        alerttypes.UnknownBank,
		Description: "Amount: 5,000.00",
	},
	{
		Name:        "no-break space inside section labels",
		Text:        "Sender\u00a0Details\nJOHN DOE\nRecipient\u00a0Details\nJANE SMITH\nNGN 1,000.00",
		User:        "JOHN DOE",
		Amount:      "1000",
		Type:        alerttypes.Debit,
		Bank:        alerttypes.UnknownBank,
		Description: "Sender Details",
	},
	{
		Name:        "interbank precedence",
		Text:        "NGN 700.00 credit from Access Bank to GTBank acct",
		Amount:      "700",
		Type:        alerttypes.Credit,
		Bank:        "GTBank",
		Description: "Access Bank",
	},
}

func Test_Parse(t *testing.T) {
	p := fixedParser()

	for _, tc := range parseTests {
		t.Run(tc.Name, func(t *testing.T) {
			trx, err := p.Parse(testContext(), tc.Text, tc.User)
			require.NoError(t, err)
			require.NotNil(t, trx)

			assert.True(t, decimal.RequireFromString(tc.Amount).Equal(trx.Amount), "got %s", trx.Amount)
			assert.Equal(t, tc.Type, trx.Type)
			assert.Equal(t, tc.Bank, trx.Bank)
			assert.Equal(t, tc.Description, trx.Description)
			assert.Equal(t, "2024-03-10", trx.Date.Format(alerttypes.DateLayout))
		})
	}
}

func Test_ParseWithoutAmount(t *testing.T) {
	p := fixedParser()

	for _, text := range []string{
		"",
		"   \n\t",
		"Your OTP is ready",
		"Amount: 0",
		"NGN 0.00",
		"Amount: -50",
		"debit alert on your account",
	} {
		trx, err := p.Parse(testContext(), text, "")
		assert.Nil(t, trx, text)
		assert.True(t, errors.Is(err, ErrNoAmount), text)
		assert.True(t, Error.Has(err), text)
	}
}

func Test_ParseIsIdempotentUnderNormalization(t *testing.T) {
	p := fixedParser()

	for _, tc := range parseTests {
		raw, err := p.Parse(testContext(), tc.Text, tc.User)
		require.NoError(t, err)

		again, err := p.Parse(testContext(), normalize.Normalize(tc.Text), tc.User)
		require.NoError(t, err)

		assert.Equal(t, raw, again, tc.Name)
	}
}

func Test_PlainCurrencyAmountIsCredit(t *testing.T) {
	for _, text := range []string{
		"NGN 1,000.00",
		"Alert: NGN 1,000.00 has landed",
		"Hello\nNGN 1,000.00\nThanks for banking with us",
	} {
		trx, err := Parse(text, "")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(trx.Amount))
		assert.Equal(t, alerttypes.Credit, trx.Type)
	}
}

func Test_DebitWordAlwaysWinsWithoutIdentity(t *testing.T) {
	for _, text := range []string{
		"NGN 5,000.00 debit alert",
		"Credit: NGN 5,000.00\nType: DEBIT",
		"Transfer Receipt\nNGN 5,000.00\nSender Details\nA B\nRecipient Details\nJANE SMITH\nDebit",
	} {
		trx, err := Parse(text, "")
		require.NoError(t, err)
		assert.Equal(t, alerttypes.Debit, trx.Type, text)
	}
}

func Test_DescriptionFallsBackToFirstLine(t *testing.T) {
	long := strings.Repeat("x", 150) + " NGN 20"

	trx, err := fixedParser().Parse(testContext(), long, "")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 100), trx.Description)
}

func Test_ParseNeverPanics(t *testing.T) {
	inputs := []string{
		"\x00\xff\xfe NGN 1",
		strings.Repeat("(", 10000) + "NGN 5",
		strings.Repeat("Sender Details ", 2000) + "N 10",
		"Recipient Details\n" + strings.Repeat("A ", 5000),
		"₦₦₦₦ 1,,,,,2",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = fixedParser().Parse(testContext(), in, "[(*+?")
		})
	}
}

func Test_ParseIsSafeForConcurrentUse(t *testing.T) {
	p := fixedParser()

	want := make([]*alerttypes.ParsedTransaction, len(parseTests))
	for i, tc := range parseTests {
		trx, err := p.Parse(testContext(), tc.Text, tc.User)
		require.NoError(t, err)
		want[i] = trx
	}

	var wg sync.WaitGroup
	got := make([][]*alerttypes.ParsedTransaction, 8)
	for w := range got {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, tc := range parseTests {
				trx, _ := p.Parse(testContext(), tc.Text, tc.User)
				got[w] = append(got[w], trx)
			}
		}()
	}
	wg.Wait()

	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func Test_ParseLogsEvidence(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logging.Wrap(zap.New(core)).GetContext(context.Background())

	_, err := fixedParser().Parse(ctx, "NGN 5,000.00 debit alert", "")
	require.NoError(t, err)

	entries := logs.FilterMessage("alert classified").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "critical", fields["stage"])
	assert.Equal(t, "debit", fields["type"])
	assert.Equal(t, "5000", fields["amount"])
}
