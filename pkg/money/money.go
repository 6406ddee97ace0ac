// Package money provides the fiat amount used by the payment encoders.
//
// Amount is a value object for a BRL total due.
// Invariants:
//   - Amount is always stored in the smallest currency unit (centavos).
//   - Amount is never negative; negative, NaN and infinite inputs clamp to zero.
//   - Amount never exceeds the maximum safe integer (2^53 - 1 centavos).
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxSafeCentavos is the largest amount that survives a round trip through float64.
const MaxSafeCentavos int64 = 1<<53 - 1

// Amount represents a BRL amount in centavos.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// FromFloat converts a real amount to centavos, rounding to the nearest centavo.
// NaN, infinite and negative values clamp to zero.
func FromFloat(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Zero
	}
	c := math.Round(v * 100)
	if c >= float64(MaxSafeCentavos) {
		return Amount(MaxSafeCentavos)
	}
	return Amount(c)
}

// FromDecimal converts a decimal amount to centavos with the same clamping as FromFloat.
func FromDecimal(d decimal.Decimal) Amount {
	if !d.IsPositive() {
		return Zero
	}
	c := d.Shift(2).Round(0)
	if c.GreaterThanOrEqual(decimal.NewFromInt(MaxSafeCentavos)) {
		return Amount(MaxSafeCentavos)
	}
	return Amount(c.IntPart())
}

// FromCentavos builds an Amount from raw centavos, clamping negatives to zero.
func FromCentavos(c int64) Amount {
	switch {
	case c <= 0:
		return Zero
	case c > MaxSafeCentavos:
		return Amount(MaxSafeCentavos)
	}
	return Amount(c)
}

// Parse reads a decimal amount such as "12.50" or "7".
// A comma decimal separator is accepted for cashier input ("12,50").
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d), nil
}

// Centavos returns the amount in the smallest currency unit.
func (a Amount) Centavos() int64 {
	return int64(a)
}

// Float64 returns the amount in reais.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// Decimal returns the amount in reais as a decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a == Zero
}

// String formats the amount with exactly two decimals and a '.' separator.
func (a Amount) String() string {
	c := int64(a)
	if c < 0 {
		c = 0
	}
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
