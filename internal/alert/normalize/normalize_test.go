package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var normalizeCases = []struct {
	Name string
	Raw  string
	Want string
}{
	{
		Name: "empty input",
		Raw:  "",
		Want: "",
	},
	{
		Name: "only blank lines",
		Raw:  "\n  \r\n\t\n",
		Want: "",
	},
	{
		Name: "trims and drops empty lines",
		Raw:  "  Acct: 0123**89  \r\n\r\n  Amt: NGN 5,000.00 CR\n",
		Want: "Acct: 0123**89\nAmt: NGN 5,000.00 CR",
	},
	{
		Name: "drops opay receipt footer",
		Raw: "Transfer Successful\nNGN 2,500.00\n" +
			"Enjoy a better life with OPay\n" +
			"Get Free Transfers, Withdrawals & Bill Payments\n" +
			"Instant Loans up to N500,000\n" +
			"Annual interest of up to 15%\n" +
			"Licensed by the Central Bank of Nigeria\n" +
			"Insured by NDIC",
		Want: "Transfer Successful\nNGN 2,500.00",
	},
	{
		Name: "case insensitive denylist",
		Raw:  "ENJOY A BETTER LIFE\nCredit Alert",
		Want: "Credit Alert",
	},
	{
		Name: "ndic only as a word",
		Raw:  "Syndicate payout N1,000",
		Want: "Syndicate payout N1,000",
	},
	{
		Name: "folds no-break and other unicode spaces",
		Raw:  "\u00a0Credit\u00a0Alert\u2003\nAmt:\u00a0NGN\u202f5,000.00\r\n",
		Want: "Credit Alert\nAmt: NGN 5,000.00",
	},
}

func Test_Normalize(t *testing.T) {
	for _, c := range normalizeCases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Want, Normalize(c.Raw))
		})
	}
}

func Test_NormalizeIsIdempotent(t *testing.T) {
	for _, c := range normalizeCases {
		once := Normalize(c.Raw)
		assert.Equal(t, once, Normalize(once), c.Name)
	}
}

func Test_Lines(t *testing.T) {
	assert.Nil(t, Lines(""))
	assert.Equal(t, []string{"a", "b"}, Lines("a\n\n b \n"))
}
