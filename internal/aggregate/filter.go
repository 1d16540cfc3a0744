package aggregate

import (
	"net/url"
	"strings"

	"fintrack/internal/core"
)

// Constraint is either "no constraint" or an exact value to match.
type Constraint[T comparable] struct {
	value T
	set   bool
}

// Any matches every value.
func Any[T comparable]() Constraint[T] {
	return Constraint[T]{}
}

// Exactly matches only v.
func Exactly[T comparable](v T) Constraint[T] {
	return Constraint[T]{value: v, set: true}
}

// Value returns the constrained value; ok is false for Any.
func (c Constraint[T]) Value() (v T, ok bool) {
	return c.value, c.set
}

func (c Constraint[T]) IsSet() bool {
	return c.set
}

// Allows reports whether v satisfies an exact-match constraint.
func (c Constraint[T]) Allows(v T) bool {
	return !c.set || c.value == v
}

// Criteria is a snapshot of the transaction table filters. The zero value
// matches everything.
type Criteria struct {
	Search    string
	Type      Constraint[core.TxType]
	Date      Constraint[core.Date]
	Category  Constraint[string]
	MinAmount Constraint[core.Money]
	Card      Constraint[string]
}

// Matches is the conjunction of all six sub-predicates.
func (c Criteria) Matches(tx core.Transaction) bool {
	if c.Search != "" && !strings.Contains(strings.ToLower(tx.Name), strings.ToLower(c.Search)) {
		return false
	}
	if !c.Type.Allows(tx.Type) {
		return false
	}
	if d, ok := c.Date.Value(); ok && !d.Equal(tx.Date.Time) {
		return false
	}
	if !c.Category.Allows(tx.Category) {
		return false
	}
	if floor, ok := c.MinAmount.Value(); ok && tx.Amount.Cents < floor.Cents {
		return false
	}
	return c.Card.Allows(tx.Card)
}

// Filter returns the transactions matching c, in input order.
func Filter(c Criteria, txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if c.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Wildcard is the select value that means "no constraint".
const Wildcard = "All"

// ParseCriteria reads filters from query or form values. Empty values and
// "All" mean no constraint; a date or amount that does not parse is ignored.
func ParseCriteria(v url.Values) Criteria {
	c := Criteria{Search: strings.TrimSpace(v.Get("search"))}

	if t, ok := core.ParseTxType(v.Get("type")); ok {
		c.Type = Exactly(t)
	}
	if s := strings.TrimSpace(v.Get("date")); s != "" {
		if d, err := core.ParseDate(s); err == nil {
			c.Date = Exactly(d)
		}
	}
	if s := selectValue(v.Get("category")); s != "" {
		c.Category = Exactly(s)
	}
	if s := strings.TrimSpace(v.Get("minAmount")); s != "" {
		if m, err := core.ParseAmount(s); err == nil {
			c.MinAmount = Exactly(m)
		}
	}
	if s := selectValue(v.Get("card")); s != "" {
		c.Card = Exactly(s)
	}
	return c
}

// Values is the inverse of ParseCriteria, used to build links that keep the
// current filters.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.Search != "" {
		v.Set("search", c.Search)
	}
	if t, ok := c.Type.Value(); ok {
		v.Set("type", t.String())
	}
	if d, ok := c.Date.Value(); ok {
		v.Set("date", d.String())
	}
	if s, ok := c.Category.Value(); ok {
		v.Set("category", s)
	}
	if m, ok := c.MinAmount.Value(); ok {
		v.Set("minAmount", m.String())
	}
	if s, ok := c.Card.Value(); ok {
		v.Set("card", s)
	}
	return v
}

func selectValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, Wildcard) {
		return ""
	}
	return s
}
