package aggregate

import (
	"time"

	"fintrack/internal/core"
)

// MonthFlow is the income and expense of one month bucket.
type MonthFlow struct {
	Month   core.Month `json:"month"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

// Series is an ordered month-by-month cashflow.
type Series []MonthFlow

// MonthlySeries seeds every month in months with zeros and accumulates txs
// into their bucket. A transaction outside the seeded months gets a bucket of
// its own, appended after the seeded ones in first-seen order; use Cashflow
// for a fixed axis.
func MonthlySeries(months []core.Month, txs []core.Transaction) Series {
	out := make(Series, 0, len(months))
	index := make(map[core.Month]int, len(months))
	for _, m := range months {
		if _, dup := index[m]; dup {
			continue
		}
		index[m] = len(out)
		out = append(out, MonthFlow{Month: m})
	}

	for _, tx := range txs {
		m, ok := tx.Date.Month()
		if !ok {
			continue
		}
		i, found := index[m]
		if !found {
			i = len(out)
			index[m] = i
			out = append(out, MonthFlow{Month: m})
		}
		switch tx.Type {
		case core.Income:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case core.Expense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}

	return out
}

// Cashflow resolves the window for label and builds its series, so the axis
// is exactly the resolved months.
func Cashflow(label string, txs []core.Transaction, now time.Time) Series {
	w := Resolve(label, txs, now)
	return MonthlySeries(w.Months, w.Transactions)
}

// Get returns the flow of month m.
func (s Series) Get(m core.Month) (MonthFlow, bool) {
	for _, f := range s {
		if f.Month == m {
			return f, true
		}
	}
	return MonthFlow{}, false
}

// Labels returns the x-axis labels.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Month.String()
	}
	return out
}

// Income returns the income line, parallel to Labels.
func (s Series) Income() []float64 {
	out := make([]float64, len(s))
	for i, f := range s {
		out[i] = f.Income.Float()
	}
	return out
}

// Expense returns the expense line, parallel to Labels.
func (s Series) Expense() []float64 {
	out := make([]float64, len(s))
	for i, f := range s {
		out[i] = f.Expense.Float()
	}
	return out
}
