// Package core provides the finance domain model: records, categories,
// credentials and amount parsing.
//
// Amounts are decimals, never floats; this file converts user-typed
// strings into them.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-typed amount into a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// keeps the sign as typed: the sign policy belongs to NewRecord, not to
// parsing. Returns ErrInvalidAmount for anything that is not a plain
// decimal number.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-7")     -> -7, nil
//	ParseAmount("1.2.3")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		// Scientific notation is valid for the decimal library but not
		// for hand-typed money amounts.
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
