// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting them for reminders and listings.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-typed decimal string into an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional leading sign, and rounds half-up to two decimal places.
// Zero and malformed values are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("-12,34") -> -12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if d.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// SignedAmount returns abs(amount) for income and -abs(amount) for expenses.
func SignedAmount(amount decimal.Decimal, isIncome bool) decimal.Decimal {
	if isIncome {
		return amount.Abs()
	}
	return amount.Abs().Neg()
}

// FormatAmount renders an amount with a currency symbol, e.g. "€12.00" or "-€12.00".
func FormatAmount(amount decimal.Decimal, symbol string, isIncome bool) string {
	s := symbol + amount.Abs().StringFixed(2)
	if isIncome {
		return s
	}
	return "-" + s
}
