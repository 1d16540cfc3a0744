package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTxType(t *testing.T) {
	cases := []struct {
		in   string
		want TxType
		ok   bool
	}{
		{"income", Income, true},
		{"Expense", Expense, true},
		{" INCOME ", Income, true},
		{"All", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseTxType(tc.in)
		assert.Equal(t, tc.ok, ok, "ParseTxType(%q)", tc.in)
		assert.Equal(t, tc.want, got, "ParseTxType(%q)", tc.in)
	}
}

func TestDateMonth(t *testing.T) {
	m, ok := NewDate(2024, 3, 31).Month()
	require.True(t, ok)
	assert.Equal(t, Month("2024-03"), m)

	_, ok = Date{}.Month()
	assert.False(t, ok, "zero date has no bucket")
}

func TestDateJSONIsLenient(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-05"`), &d))
	assert.Equal(t, "2024-02-05", d.String())

	require.NoError(t, json.Unmarshal([]byte(`"2024-02-05T10:00:00Z"`), &d))
	assert.Equal(t, "2024-02-05", d.String())

	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`12`), &d))
	assert.True(t, d.IsZero())

	out, err := json.Marshal(NewDate(2023, 12, 1))
	require.NoError(t, err)
	assert.Equal(t, `"2023-12-01"`, string(out))
}

func TestMonthAdd(t *testing.T) {
	tests := []struct {
		m    Month
		n    int
		want Month
	}{
		{"2024-03", -2, "2024-01"},
		{"2024-01", -1, "2023-12"},
		{"2024-02", -14, "2022-12"},
		{"2023-12", 1, "2024-01"},
		{"2024-05", 0, "2024-05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.Add(tt.n), "%s.Add(%d)", tt.m, tt.n)
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-07")
	require.NoError(t, err)
	assert.Equal(t, Month("2024-07"), m)

	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Name:   "Salary",
		Type:   Income,
		Date:   NewDate(2024, 1, 15),
		Amount: Money{Cents: 100000},
	}
	require.NoError(t, good.Validate())

	zeroAmount := good
	zeroAmount.Amount = Money{}
	assert.NoError(t, zeroAmount.Validate(), "zero amount is allowed")

	bads := map[string]Transaction{
		"name":   {Type: Income, Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}},
		"type":   {Name: "x", Type: "transfer", Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}},
		"date":   {Name: "x", Type: Income, Amount: Money{Cents: 1}},
		"amount": {Name: "x", Type: Expense, Date: NewDate(2024, 1, 1), Amount: Money{Cents: -1}},
	}
	for field, tx := range bads {
		err := tx.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestTransactionJSONShape(t *testing.T) {
	raw := `{"id":7,"name":"Rent","type":"expense","date":"2024-02-01","time":"09:30","category":"Housing","amount":1200.5,"card":"CARD"}`
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))
	assert.Equal(t, int64(7), tx.ID)
	assert.Equal(t, Expense, tx.Type)
	assert.Equal(t, int64(120050), tx.Amount.Cents)
	assert.Equal(t, Money{Cents: -120050}, tx.Signed())

	out, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"amount":1200.50`)
	assert.NotContains(t, string(out), "description")
}
