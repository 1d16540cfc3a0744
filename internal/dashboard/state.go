package dashboard

import (
	"net/url"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// State is everything the user can change without mutating the store:
// table filters, the breakdown type and the two chart ranges.
type State struct {
	Filters        aggregate.Criteria
	BreakdownType  core.TxType
	CashflowRange  string
	BreakdownRange string
}

func DefaultState() State {
	return State{
		BreakdownType:  core.Income,
		CashflowRange:  aggregate.OneYear,
		BreakdownRange: aggregate.OneYear,
	}
}

// normalized fills unset fields with their defaults.
func (s State) normalized() State {
	d := DefaultState()
	if !s.BreakdownType.Valid() {
		s.BreakdownType = d.BreakdownType
	}
	if s.CashflowRange == "" {
		s.CashflowRange = d.CashflowRange
	}
	if s.BreakdownRange == "" {
		s.BreakdownRange = d.BreakdownRange
	}
	return s
}

// ParseState reads the view state from query values. Missing keys keep
// their defaults.
func ParseState(v url.Values) State {
	s := DefaultState()
	s.Filters = aggregate.ParseCriteria(v)
	if t, ok := core.ParseTxType(v.Get("breakdown")); ok {
		s.BreakdownType = t
	}
	if r := v.Get("cashflowRange"); r != "" {
		s.CashflowRange = r
	}
	if r := v.Get("breakdownRange"); r != "" {
		s.BreakdownRange = r
	}
	return s
}

// Values is the inverse of ParseState.
func (s State) Values() url.Values {
	s = s.normalized()
	v := s.Filters.Values()
	v.Set("breakdown", s.BreakdownType.String())
	v.Set("cashflowRange", s.CashflowRange)
	v.Set("breakdownRange", s.BreakdownRange)
	return v
}
