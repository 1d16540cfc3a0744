// Package dashboard recomputes everything the dashboard shows from a store
// snapshot and the current view state.
package dashboard

import (
	"fmt"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Ranges lists the selectable chart ranges in display order.
var Ranges = []string{aggregate.ThreeMonths, aggregate.SixMonths, aggregate.OneYear}

// LineChart feeds the cashflow line chart.
type LineChart struct {
	Range   string    `json:"range"`
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
}

// DoughnutChart feeds the category breakdown chart.
type DoughnutChart struct {
	Range  string      `json:"range"`
	Type   core.TxType `json:"type"`
	Labels []string    `json:"labels"`
	Values []float64   `json:"values"`
	Counts []int       `json:"counts"`
}

type View struct {
	Summary      aggregate.Summary  `json:"summary"`
	IncomeShare  float64            `json:"incomeShare"`
	ExpenseShare float64            `json:"expenseShare"`
	BalanceMeta  string             `json:"balanceMeta"`
	Cashflow     LineChart          `json:"cashflow"`
	Breakdown    DoughnutChart      `json:"breakdown"`
	Rows         []core.Transaction `json:"rows"`
	Total        int                `json:"total"`
	Categories   []string           `json:"categories"`
	Cards        []string           `json:"cards"`
	State        State              `json:"-"`
}

// Build derives a fresh View. The summary covers the whole store, the charts
// cover their selected ranges and the rows are the filtered store.
func Build(txs []core.Transaction, st State, now time.Time) View {
	st = st.normalized()

	summary := aggregate.Summarize(txs)
	in, out := summary.Shares()

	flow := aggregate.Cashflow(st.CashflowRange, txs, now)

	window := aggregate.Resolve(st.BreakdownRange, txs, now)
	totals := aggregate.Breakdown(st.BreakdownType, window.Transactions)
	labels, values := aggregate.BreakdownLabels(totals)
	counts := make([]int, len(totals))
	for i, ct := range totals {
		counts[i] = ct.Count
	}

	rows := aggregate.Filter(st.Filters, txs)

	return View{
		Summary:      summary,
		IncomeShare:  in,
		ExpenseShare: out,
		BalanceMeta:  BalanceMeta(in, out),
		Cashflow: LineChart{
			Range:   st.CashflowRange,
			Labels:  flow.Labels(),
			Income:  flow.Income(),
			Expense: flow.Expense(),
		},
		Breakdown: DoughnutChart{
			Range:  st.BreakdownRange,
			Type:   st.BreakdownType,
			Labels: labels,
			Values: values,
			Counts: counts,
		},
		Rows:       rows,
		Total:      len(txs),
		Categories: nonNil(ledger.Distinct(txs, func(tx core.Transaction) string { return tx.Category })),
		Cards:      nonNil(ledger.Distinct(txs, func(tx core.Transaction) string { return tx.Card })),
		State:      st,
	}
}

// BalanceMeta is the caption under the balance card.
func BalanceMeta(incomeShare, expenseShare float64) string {
	return fmt.Sprintf("Income share %.1f%% · Expense share %.1f%%", incomeShare, expenseShare)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
