// Amount parsing and formatting.
//
// Amounts arrive as decimal text with either a dot or a comma as the
// fractional separator and are stored as integer cents. Parsing goes
// through shopspring/decimal so "12.345" rounds half-up to 12.35
// instead of accumulating float error.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts decimal text to cents. It accepts "12.34" and
// "12,34", trims whitespace, rounds half-up on the third decimal place
// and rejects zero and negative values.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		// Round(2) guarantees an integer cent count; guard anyway.
		cents = cents.Round(0)
	}
	return Money{Cents: cents.IntPart()}, nil
}

// String renders the amount with exactly two decimal places, the form
// used in CSV exports and reports.
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns the difference of two amounts. Balances may go negative.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
