package core

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPattern       = regexp.MustCompile(`(?i)^[a-z0-9][a-z0-9\s&.'-]{2,}$`)
	cardPattern        = regexp.MustCompile(`(?i)^(MOMO|CARD|CASH)$`)
	amountPattern      = regexp.MustCompile(`^(?:0|[1-9]\d*)(?:\.\d{1,2})?$`)
	descriptionPattern = regexp.MustCompile(`(?i)^[a-z0-9][a-z0-9\s.,'!-]{2,}$`)

	strictPolicy = bluemonday.StrictPolicy()
)

// TransactionForm is the raw add-transaction input as typed by the user.
type TransactionForm struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Card        string `json:"card"`
	Description string `json:"description"`
}

// Sanitize removes markup and control characters and trims whitespace.
func Sanitize(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// ValidateForm checks every field and returns the transaction to add, or
// ValidationErrors listing each failing field. The ID is left for the store.
func ValidateForm(f TransactionForm, now time.Time) (Transaction, error) {
	var errs ValidationErrors
	fail := func(field, msg string) {
		errs = append(errs, &ValidationError{Field: field, Message: msg})
	}

	name := Sanitize(f.Name)
	if name == "" {
		fail("name", "name is required")
	} else if !labelPattern.MatchString(name) {
		fail("name", "name must be at least 3 characters: letters, digits, spaces, & . ' -")
	}

	txType, ok := ParseTxType(f.Type)
	if !ok {
		fail("type", ErrInvalidType.Error())
	}

	var date Date
	if strings.TrimSpace(f.Date) == "" {
		fail("date", "date is required")
	} else if d, err := ParseDate(f.Date); err != nil {
		fail("date", "date must be YYYY-MM-DD")
	} else {
		date = d
	}

	clock := strings.TrimSpace(f.Time)
	if clock == "" {
		clock = now.Format("15:04")
	} else if _, err := time.Parse("15:04", clock); err != nil {
		fail("time", "time must be HH:MM")
	}

	category := Sanitize(f.Category)
	if category == "" {
		fail("category", "category is required")
	} else if !labelPattern.MatchString(category) {
		fail("category", "category must be at least 3 characters: letters, digits, spaces, & . ' -")
	}

	var amount Money
	rawAmount := strings.TrimSpace(f.Amount)
	if !amountPattern.MatchString(rawAmount) {
		fail("amount", "amount must be a non-negative number with at most 2 decimals")
	} else if m, err := ParseAmount(rawAmount); err != nil {
		fail("amount", err.Error())
	} else {
		amount = m
	}

	card := strings.TrimSpace(f.Card)
	if !cardPattern.MatchString(card) {
		fail("card", "card must be one of MOMO, CARD, CASH")
	}

	description := Sanitize(f.Description)
	if description != "" && !descriptionPattern.MatchString(description) {
		fail("description", "description must be at least 3 characters: letters, digits, spaces, . , ' ! -")
	}

	if len(errs) > 0 {
		return Transaction{}, errs
	}

	return Transaction{
		Name:        name,
		Type:        txType,
		Date:        date,
		Time:        clock,
		Category:    category,
		Amount:      amount,
		Card:        strings.ToUpper(card),
		Description: description,
	}, nil
}
