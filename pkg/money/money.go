// Package money centralizes the rounding and comparison rules used everywhere
// a monetary value is computed or compared. All amounts are fixed-point with
// two decimal places; comparisons tolerate a one-cent epsilon.
package money

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used when two monetary values are compared.
var Epsilon = decimal.NewFromFloat(0.01)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Round2 rounds an amount to two decimal places (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float input (e.g. from a JSON body) into an amount
// rounded to two decimal places.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// Equal reports whether a and b are equal within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// LessThan reports whether a is below b by more than Epsilon.
func LessThan(a, b decimal.Decimal) bool {
	return b.Sub(a).GreaterThan(Epsilon)
}

// IsZero reports whether the amount is zero within Epsilon.
func IsZero(a decimal.Decimal) bool {
	return a.Abs().LessThanOrEqual(Epsilon)
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// NonNegative clamps negative amounts to zero.
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return Zero
	}
	return v
}

// Percent returns pct percent of amount, rounded to two decimals.
// pct is a plain number in [0, 100].
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}
