package aggregate

import (
	"time"

	"fintrack/internal/core"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func tx(t core.TxType, cents int64, date, category string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		d = core.Date{}
	}
	return core.Transaction{
		Name:     category + " " + date,
		Type:     t,
		Date:     d,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Card:     "CARD",
	}
}

// scenario is the three-transaction example used across the dashboard docs.
func scenario() []core.Transaction {
	return []core.Transaction{
		tx(core.Income, 100000, "2024-01-15", "Salary"),
		tx(core.Expense, 40000, "2024-01-20", "Rent"),
		tx(core.Expense, 10000, "2024-02-05", "Food"),
	}
}
