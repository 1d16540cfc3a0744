package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// DateLayout is the wire form of a transaction date.
const DateLayout = "2006-01-02"

type (
	// TxType controls the sign of a transaction in every aggregation.
	TxType string

	// Date is a calendar date. The zero value stands for a date that could
	// not be parsed and is skipped by date-dependent computations.
	Date struct {
		time.Time
	}

	// Month is an aggregation bucket key of the form YYYY-MM.
	Month string

	Transaction struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Type        TxType `json:"type"`
		Date        Date   `json:"date"`
		Time        string `json:"time"`
		Category    string `json:"category"`
		Amount      Money  `json:"amount"`
		Card        string `json:"card"`
		Description string `json:"description,omitempty"`
	}
)

// ParseTxType accepts income/expense in any case.
func ParseTxType(s string) (TxType, bool) {
	switch TxType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, true
	case Expense:
		return Expense, true
	default:
		return "", false
	}
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (t TxType) String() string {
	return string(t)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Month returns the bucket of the date; ok is false for the zero Date.
func (d Date) Month() (Month, bool) {
	if d.IsZero() {
		return "", false
	}
	return MonthOf(d.Time), true
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON is lenient: anything that is not a date (or a timestamp
// starting with one) decodes to the zero Date and is caught by Validate.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// MonthOf returns the bucket containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// ParseMonth validates a YYYY-MM key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Start returns the first day of the month. Invalid keys yield the zero time.
func (m Month) Start() time.Time {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Add shifts the month by n calendar months (n may be negative).
func (m Month) Add(n int) Month {
	start := m.Start()
	return MonthOf(time.Date(start.Year(), start.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

func (m Month) String() string {
	return string(m)
}

// Validate checks the record invariants. Used at the add and import boundary.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Message: ErrEmptyName.Error()}
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Message: ErrInvalidType.Error()}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Message: ErrInvalidDate.Error()}
	}
	if err := t.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Message: err.Error()}
	}
	return nil
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return Money{Cents: -t.Amount.Cents}
	}
	return t.Amount
}
