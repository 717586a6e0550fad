package bankid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var identifyTests = []struct {
	Text string
	Bank string
}{
	{"GTBank: Credit Alert", "GTBank"},
	{"Guaranty Trust Bank Plc", "GTBank"},
	{"Acct 0123 GTB CR", "GTBank"},
	{"AccessBank Txn", "Access Bank"},
	{"FirstBank: your acct was credited", "First Bank"},
	{"FBN alert", "First Bank"},
	{"UBA Credit", "UBA"},
	{"United Bank for Africa", "UBA"},
	{"Zenith Bank transfer", "Zenith Bank"},
	{"Ecobank Nigeria", "Ecobank"},
	{"Stanbic IBTC Bank", "Stanbic IBTC"},
	{"IBTC alert", "Stanbic IBTC"},
	{"Fidelity Bank", "Fidelity Bank"},
	{"Union Bank", "Union Bank"},
	{"Sterling Bank", "Sterling Bank"},
	{"Polaris Bank", "Polaris Bank"},
	{"Wema Bank ALAT", "Wema Bank"},
	{"Keystone Bank", "Keystone Bank"},
	{"FCMB credit", "FCMB"},
	{"First City Monument Bank", "FCMB"},
	{"OPay Transfer Successful", "Opay"},
	{"Moved to OWealth", "Opay"},
	{"Kuda Bank", "Kuda"},
	{"kuda: you received", "Kuda"},
	{"PalmPay", "PalmPay"},
	{"Moniepoint MFB", "Moniepoint"},
}

func Test_Identify(t *testing.T) {
	for _, tc := range identifyTests {
		bank, ok := Identify(tc.Text)
		assert.True(t, ok, tc.Text)
		assert.Equal(t, tc.Bank, bank, tc.Text)
	}
}

func Test_IdentifyUnknown(t *testing.T) {
	for _, text := range []string{"", "Credit alert N5,000", "subaccount funded", "Cuba trip refund"} {
		bank, ok := Identify(text)
		assert.False(t, ok, text)
		assert.Empty(t, bank)
	}
}

func Test_IdentifyPrecedenceFollowsTableOrder(t *testing.T) {
	texts := []string{
		"Transfer from Access Bank to GTBank",
		"GTBank to Access Bank transfer",
	}

	for i := 0; i < 50; i++ {
		for _, text := range texts {
			bank, ok := Identify(text)
			assert.True(t, ok)
			assert.Equal(t, "GTBank", bank)
		}
	}
}

func Test_NamesCoverEveryBankInOrder(t *testing.T) {
	names := Names()
	assert.Len(t, names, 18)
	assert.Equal(t, "GTBank", names[0])
	assert.Equal(t, "Moniepoint", names[len(names)-1])
}
