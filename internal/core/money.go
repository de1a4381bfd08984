// Package core provides money parsing and handling utilities.
//
// Amounts are decimal values kept at two fractional places. Rounding is
// half away from zero, which for the non-negative amounts the ledger stores
// is plain half-up: 42.505 becomes 42.51.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for every amount.
const AmountPlaces = 2

// RoundAmount rounds half away from zero to AmountPlaces.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// ParseAmount converts user input to a rounded, strictly positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, at most
// one of them, and no sign. Extra fractional digits are rounded with RoundAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("42.505") -> 42.51, nil
//	ParseAmount("0")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	digits := 0
	for _, r := range s {
		if r == '.' {
			continue
		}
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return decimal.Zero, ErrInvalidAmount
		}
		digits++
	}
	if digits == 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = RoundAmount(d)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with the currency symbol, e.g. "$42.51".
// Negative amounts keep the sign in front of the symbol.
func FormatAmount(d decimal.Decimal, c Currency) string {
	sym := c.Symbol()
	if sym == "" {
		sym = DefaultCurrency.Symbol()
	}
	if d.IsNegative() {
		return "-" + sym + d.Neg().StringFixed(AmountPlaces)
	}
	return sym + d.StringFixed(AmountPlaces)
}
