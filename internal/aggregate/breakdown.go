package aggregate

import "fintrack/internal/core"

// CategoryTotal is one slice of the breakdown doughnut.
type CategoryTotal struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Count    int        `json:"count"`
}

// Breakdown groups transactions of type t by exact category. Categories are
// returned in first-seen order; the order drives chart colour assignment.
func Breakdown(t core.TxType, txs []core.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		i, seen := index[tx.Category]
		if !seen {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryTotal{Category: tx.Category})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
		out[i].Count++
	}
	return out
}

// BreakdownLabels splits a breakdown into the doughnut's labels and values.
func BreakdownLabels(totals []CategoryTotal) (labels []string, values []float64) {
	labels = make([]string, len(totals))
	values = make([]float64, len(totals))
	for i, ct := range totals {
		labels[i] = ct.Category
		values[i] = ct.Amount.Float()
	}
	return labels, values
}
