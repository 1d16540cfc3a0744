package transfer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func sampleTxs() []core.Transaction {
	return []core.Transaction{
		{
			ID:          2,
			Name:        `Dinner "La Piazza"`,
			Type:        core.Expense,
			Date:        core.NewDate(2024, 2, 5),
			Time:        "20:15",
			Category:    "Food",
			Amount:      core.Money{Cents: 4550},
			Card:        "CARD",
			Description: "with friends, great",
		},
		{
			ID:       1,
			Name:     "Salary",
			Type:     core.Income,
			Date:     core.NewDate(2024, 1, 15),
			Time:     "09:00",
			Category: "Salary",
			Amount:   core.Money{Cents: 100000},
			Card:     "MOMO",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTxs()))

	want := `"Name","Type","Date","Time","Category","Amount","Card","Description"` + "\n" +
		`"Dinner ""La Piazza""","expense","2024-02-05","20:15","Food","45.50","CARD","with friends, great"` + "\n" +
		`"Salary","income","2024-01-15","09:00","Salary","1000.00","MOMO",""` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteCSVNeutralizesFormulas(t *testing.T) {
	txs := sampleTxs()[:1]
	txs[0].Name = "=HYPERLINK(\"x\")"
	txs[0].Description = "@sum"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))
	assert.Contains(t, buf.String(), `"'=HYPERLINK(""x"")"`)
	assert.Contains(t, buf.String(), `"'@sum"`)
}

func TestWriteCSVKeepsSignedText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"-5 refund", "-5 refund"},
		{"+39 phone top-up", "+39 phone top-up"},
		{"- cash back", "- cash back"},
		{"-", "-"},
		{"+cmd|' /C calc'!A0", "'+cmd|' /C calc'!A0"},
		{"-SUM(A1:A2)", "'-SUM(A1:A2)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, neutralize(tt.in), tt.in)
	}

	txs := sampleTxs()[:1]
	txs[0].Name = "-5 refund"
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))
	assert.Contains(t, buf.String(), `"-5 refund"`)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTxs()))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {\n    \"id\": 2,"))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleTxs(), got)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "transactions-2026-10-18.csv", Filename(FormatCSV, now))
	assert.Equal(t, "transactions-2026-10-18.json", Filename(FormatJSON, now))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestReadJSONRejectsNonArray(t *testing.T) {
	for _, payload := range []string{`{"transactions": []}`, `"hello"`, `42`, `null`} {
		_, err := ReadJSON(strings.NewReader(payload))

		var pe *core.ParseError
		require.ErrorAs(t, err, &pe, payload)
		assert.Equal(t, -1, pe.Index)
		assert.True(t, errors.Is(err, core.ErrNotAnArray), payload)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	for _, payload := range []string{``, `[{"name": "x"`, `{oops`} {
		_, err := ReadJSON(strings.NewReader(payload))

		var pe *core.ParseError
		require.ErrorAs(t, err, &pe, payload)
		assert.Equal(t, -1, pe.Index)
	}
}

func TestReadJSONValidatesRecords(t *testing.T) {
	payload := `[
		{"name": "Salary", "type": "income", "date": "2024-01-15", "amount": 1000, "card": "CARD", "category": "Salary"},
		{"name": "Rent", "type": "expense", "date": "soon", "amount": 400}
	]`
	_, err := ReadJSON(strings.NewReader(payload))

	var pe *core.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Index)

	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

func TestReadJSONAcceptsMissingIDsAndTimestamps(t *testing.T) {
	payload := `[{"name": "Salary", "type": "income", "date": "2024-01-15T08:00:00Z", "amount": "1000.5", "category": "Salary", "card": "CARD"}]`
	got, err := ReadJSON(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].ID)
	assert.Equal(t, "2024-01-15", got[0].Date.String())
	assert.Equal(t, int64(100050), got[0].Amount.Cents)
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, nil))
	assert.True(t, strings.HasPrefix(buf.String(), `"Name"`))
	assert.Error(t, Write(&buf, "xml", nil))
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}
