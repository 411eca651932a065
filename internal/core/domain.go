package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Category = "Income"
	Expense Category = "Expense"
	Unknown Category = "Unknown"
)

// DateLayout is the calendar-date format used everywhere records carry a date.
const DateLayout = "2006-01-02"

type (
	// Category classifies a record. Income and Expense are the only values
	// that may be persisted; Unknown marks rejected input. Ledgers loaded
	// from disk may carry arbitrary strings (the documents are editable),
	// so the type stays open.
	Category string

	Credential struct {
		Username string
		Password string
	}

	// Record is a single ledger entry. Records have no id; identity is the
	// position inside the owning user's ordered ledger.
	Record struct {
		Description string
		Amount      decimal.Decimal
		Category    Category
		Date        string // DateLayout
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrEmptyUsername    = errors.New("empty username")
	ErrEmptyPassword    = errors.New("empty password")
)

// IsIncome reports whether the category matches Income, ignoring case.
// Reports match case-insensitively; distribution grouping does not.
func (c Category) IsIncome() bool {
	return strings.EqualFold(string(c), string(Income))
}

// IsExpense reports whether the category matches Expense, ignoring case.
func (c Category) IsExpense() bool {
	return strings.EqualFold(string(c), string(Expense))
}

func (c Credential) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return ErrEmptyUsername
	}
	if c.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// NewRecord builds a record from raw input, applying the category sign
// policy: Income forces the amount positive, Expense forces it negative,
// any other selector leaves the amount as typed and marks the record
// Unknown so callers can reject it before it reaches a store.
func NewRecord(description string, amount decimal.Decimal, selector Category, date string) Record {
	r := Record{Description: description, Date: date}
	switch selector {
	case Income:
		r.Category = Income
		r.Amount = amount.Abs()
	case Expense:
		r.Category = Expense
		r.Amount = amount.Abs().Neg()
	default:
		r.Category = Unknown
		r.Amount = amount
	}
	return r
}

func (r Record) Validate() error {
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	switch r.Category {
	case Income:
		if r.Amount.IsNegative() {
			return ErrInvalidAmount
		}
	case Expense:
		if r.Amount.IsPositive() {
			return ErrInvalidAmount
		}
	default:
		return ErrUnknownCategory
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Today returns the current date in DateLayout, the default for new records.
func Today() string {
	return time.Now().Format(DateLayout)
}
