// Package core provides the domain types of the expense tracker.
//
// This file contains helpers for parsing monetary amounts typed by the user
// and formatting them for display. Amounts are kept as decimals with two
// fractional digits, matching the DECIMAL(10,2) column they are stored in.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for every amount.
const AmountScale = 2

// maxAmount is the largest absolute value a DECIMAL(10,2) column can hold.
var maxAmount = decimal.RequireFromString("99999999.99")

// ParseAmount converts a user-typed decimal string to an amount rounded
// half-up to two fractional digits.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. Zero
// and negative values are allowed; only unparseable text and values that
// do not fit the storage column are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-5")     -> -5.00, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(AmountScale)
	if d.Abs().GreaterThan(maxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}
