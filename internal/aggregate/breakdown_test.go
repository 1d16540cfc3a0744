package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestBreakdownGroupsInFirstSeenOrder(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 1000, "2024-01-01", "Rent"),
		tx(core.Income, 5000, "2024-01-02", "Salary"),
		tx(core.Expense, 250, "2024-01-03", "Food"),
		tx(core.Expense, 750, "2024-01-04", "Rent"),
		tx(core.Expense, 100, "2024-01-05", "food"),
	}
	got := Breakdown(core.Expense, txs)
	require.Len(t, got, 3)
	assert.Equal(t, CategoryTotal{Category: "Rent", Amount: core.Money{Cents: 1750}, Count: 2}, got[0])
	assert.Equal(t, CategoryTotal{Category: "Food", Amount: core.Money{Cents: 250}, Count: 1}, got[1])
	assert.Equal(t, "food", got[2].Category, "categories are case-sensitive")
}

func TestBreakdownNoEmptyCategories(t *testing.T) {
	got := Breakdown(core.Income, []core.Transaction{tx(core.Expense, 1, "2024-01-01", "Food")})
	assert.Empty(t, got)
}

func TestBreakdownTotalsMatchSummary(t *testing.T) {
	txs := append(scenario(),
		tx(core.Expense, 1234, "2024-02-06", "Food"),
		tx(core.Expense, 99, "2024-02-07", "Transport"),
	)
	var sum core.Money
	for _, ct := range Breakdown(core.Expense, txs) {
		assert.Positive(t, ct.Count)
		sum = sum.Add(ct.Amount)
	}
	expenses := Filter(Criteria{Type: Exactly(core.Expense)}, txs)
	assert.Equal(t, Summarize(expenses).Expense, sum)
}

func TestBreakdownLabels(t *testing.T) {
	labels, values := BreakdownLabels(Breakdown(core.Expense, scenario()))
	assert.Equal(t, []string{"Rent", "Food"}, labels)
	assert.Equal(t, []float64{400, 100}, values)
}
