package split

import "github.com/shopspring/decimal"

// Currency precision is fixed at 2 decimal digits; Cent is the smallest unit
// that can move between participants when fixing rounding drift.
var (
	Cent    = decimal.New(1, -2)
	Epsilon = decimal.New(1, -6)
)

// Round2 quantizes to currency precision.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NearZero reports whether d should be treated as an absent balance.
func NearZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}
