package aggregate

import (
	"time"

	"fintrack/internal/core"
)

// Range labels understood by MonthCount.
const (
	ThreeMonths = "3 months"
	SixMonths   = "6 months"
	OneYear     = "1 year"
)

// Window is a trailing run of month buckets and the transactions inside it.
type Window struct {
	Months       []core.Month
	Transactions []core.Transaction
}

// MonthCount maps a range label to a number of months. Unknown or empty
// labels mean a year.
func MonthCount(label string) int {
	switch label {
	case ThreeMonths:
		return 3
	case SixMonths:
		return 6
	default:
		return 12
	}
}

// Anchor returns the latest valid transaction date, or now when there is none.
func Anchor(txs []core.Transaction, now time.Time) time.Time {
	var latest time.Time
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if tx.Date.After(latest) {
			latest = tx.Date.Time
		}
	}
	if latest.IsZero() {
		return now
	}
	return latest
}

// TrailingMonths returns count consecutive months, oldest first, ending at end.
func TrailingMonths(end core.Month, count int) []core.Month {
	if count < 1 {
		count = 1
	}
	months := make([]core.Month, count)
	for i := range months {
		months[i] = end.Add(i - count + 1)
	}
	return months
}

// Resolve computes the window named by label, anchored at the month of the
// most recent transaction.
func Resolve(label string, txs []core.Transaction, now time.Time) Window {
	end := core.MonthOf(Anchor(txs, now))
	months := TrailingMonths(end, MonthCount(label))

	inRange := make(map[core.Month]struct{}, len(months))
	for _, m := range months {
		inRange[m] = struct{}{}
	}

	filtered := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		m, ok := tx.Date.Month()
		if !ok {
			continue
		}
		if _, ok := inRange[m]; ok {
			filtered = append(filtered, tx)
		}
	}

	return Window{Months: months, Transactions: filtered}
}
