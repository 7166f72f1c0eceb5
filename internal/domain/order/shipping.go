package order

import "github.com/shopspring/decimal"

// Shipping fee tiers. Orders at or above freeShippingFloor ship free,
// orders at or above reducedFeeFloor pay the reduced fee, everything else
// pays the standard fee.
var (
	freeShippingFloor = decimal.NewFromInt(500_000)
	reducedFeeFloor   = decimal.NewFromInt(300_000)
	reducedFee        = decimal.NewFromInt(20_000)
	standardFee       = decimal.NewFromInt(30_000)
)

// ShippingFee returns the flat shipping fee for the given order subtotal.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(freeShippingFloor):
		return decimal.Zero
	case subtotal.GreaterThanOrEqual(reducedFeeFloor):
		return reducedFee
	default:
		return standardFee
	}
}
