package paystack

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToMajorUnits converts an amount in currency subunits (kobo, pesewas, cents)
// to whole major units, rounding down.
func ToMajorUnits(subunits int64) int64 {
	return decimal.NewFromInt(subunits).Div(hundred).Floor().IntPart()
}
