package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestMonthlySeriesScenario(t *testing.T) {
	w := Resolve("3 months", scenario(), now)
	s := MonthlySeries(w.Months, w.Transactions)

	require.Len(t, s, 3)
	assert.Equal(t, MonthFlow{Month: "2023-12"}, s[0])
	assert.Equal(t, MonthFlow{Month: "2024-01", Income: core.Money{Cents: 100000}, Expense: core.Money{Cents: 40000}}, s[1])
	assert.Equal(t, MonthFlow{Month: "2024-02", Expense: core.Money{Cents: 10000}}, s[2])
}

func TestMonthlySeriesSeedsEveryBucket(t *testing.T) {
	months := TrailingMonths("2024-06", 6)
	s := MonthlySeries(months, nil)
	require.Len(t, s, 6)
	for i, f := range s {
		assert.Equal(t, months[i], f.Month)
		assert.True(t, f.Income.IsZero())
		assert.True(t, f.Expense.IsZero())
	}
}

func TestMonthlySeriesAdmitsOutOfRangeBuckets(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 10, "2025-01-03", "Food"),
		tx(core.Expense, 20, "2023-05-03", "Food"),
		tx(core.Income, 30, "2024-02-03", "Salary"),
		tx(core.Income, 40, "bad", "Salary"),
	}
	s := MonthlySeries([]core.Month{"2024-01", "2024-02"}, txs)
	assert.Equal(t, []string{"2024-01", "2024-02", "2025-01", "2023-05"}, s.Labels())

	f, ok := s.Get("2024-02")
	require.True(t, ok)
	assert.Equal(t, core.Money{Cents: 30}, f.Income)
	_, ok = s.Get("1999-01")
	assert.False(t, ok)
}

func TestCashflowHasFixedAxis(t *testing.T) {
	txs := append(scenario(), tx(core.Expense, 10, "2022-01-01", "Old"))
	s := Cashflow("3 months", txs, now)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02"}, s.Labels())
	assert.Equal(t, []float64{0, 1000, 0}, s.Income())
	assert.Equal(t, []float64{0, 400, 100}, s.Expense())
}
