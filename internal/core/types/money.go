// Package types provides common value types.
package types

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for stored amounts.
const MoneyScale int32 = 2

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors in sums.
type Money = decimal.Decimal

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MulQty multiplies a unit price by an integer quantity.
func MulQty(price Money, qty int64) Money {
	return price.Mul(decimal.NewFromInt(qty))
}

// FitsScale reports whether m has no more than MoneyScale fractional digits,
// so storing it loses nothing.
func FitsScale(m Money) bool {
	return m.Equal(m.Truncate(MoneyScale))
}

// Sum adds up a list of amounts.
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
