package alerttypes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TrxTypeString(t *testing.T) {
	assert.Equal(t, "credit", Credit.String())
	assert.Equal(t, "debit", Debit.String())
	assert.Equal(t, "undefined", TrxType(9).String())
	assert.False(t, TrxType(9).IsValid())
}

func Test_DefaultDescriptionFollowsDirection(t *testing.T) {
	assert.Equal(t, "Bank credit", Credit.DefaultDescription())
	assert.Equal(t, "Bank debit", Debit.DefaultDescription())
}

func Test_ParsedTransactionWireFormat(t *testing.T) {
	trx := ParsedTransaction{
		Amount:      decimal.RequireFromString("1000.50"),
		Type:        Credit,
		Description: "salary",
		Bank:        "GTBank",
		Date:        time.Date(2024, time.March, 9, 18, 30, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(trx)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"date":"2024-03-09","amount":1000.5,"description":"salary","bank":"GTBank","type":"credit"}`,
		string(raw),
	)

	var back ParsedTransaction
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, trx.Amount.Equal(back.Amount))
	assert.Equal(t, Credit, back.Type)
	assert.Equal(t, "2024-03-09", back.Date.Format(DateLayout))
}

func Test_UnmarshalRejectsUnknownType(t *testing.T) {
	var trx ParsedTransaction
	err := json.Unmarshal([]byte(`{"date":"2024-03-09","amount":1,"type":"refund"}`), &trx)
	assert.Error(t, err)
}
