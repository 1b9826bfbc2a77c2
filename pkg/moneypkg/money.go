// Package moneypkg provides common money amount related functionality for apps.
package moneypkg

import (
	"github.com/shopspring/decimal"
)

// Precision limits for amounts and balances.
const (
	IntegerDigits  = 15
	FractionDigits = 2
)

// Parse parses a decimal amount such as "-150.25".
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// WithinPrecision reports whether d has at most IntegerDigits integer digits
// and FractionDigits fraction digits as written.
func WithinPrecision(d decimal.Decimal) bool {
	if d.Exponent() < -FractionDigits {
		return false
	}

	return len(d.Abs().Truncate(0).String()) <= IntegerDigits
}

// IsValidAmount returns true if s is a decimal amount within precision.
func IsValidAmount(s string) bool {
	d, err := Parse(s)
	if err != nil {
		return false
	}

	return WithinPrecision(d)
}

// IsNonNegativeAmount returns true if s is a valid amount greater or equal to zero.
func IsNonNegativeAmount(s string) bool {
	if !IsValidAmount(s) {
		return false
	}

	d, _ := Parse(s)

	return !d.IsNegative()
}
