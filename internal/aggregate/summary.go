package aggregate

import "fintrack/internal/core"

// Summary holds the totals shown on the balance, income and expense cards.
type Summary struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// Summarize totals income and expense. Balance may be negative.
func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			s.Income = s.Income.Add(tx.Amount)
		case core.Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// Shares returns the income and expense percentages of the combined volume.
// Both are 0 when there is no volume.
func (s Summary) Shares() (income, expense float64) {
	total := s.Income.Cents + s.Expense.Cents
	if total == 0 {
		return 0, 0
	}
	income = float64(s.Income.Cents) / float64(total) * 100
	return income, 100 - income
}
