package voucher

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Apply calculates the discount for the given rule and order subtotal.
// It returns ErrMinOrderNotMet when the subtotal is below the rule's
// minimum order amount.
func Apply(rule *Rule, subtotal decimal.Decimal) (Discount, error) {
	if rule.MinOrderAmount.IsPositive() && subtotal.LessThan(rule.MinOrderAmount) {
		return Discount{}, ErrMinOrderNotMet
	}

	switch rule.DiscountType {
	case DiscountPercentage:
		amount := subtotal.Mul(rule.Value).Div(hundred)
		return Discount{
			Amount:      floorAtZero(amount).Round(2),
			Description: rule.Description,
		}, nil
	case DiscountFixed:
		amount := decimal.Min(rule.Value, subtotal)
		return Discount{
			Amount:      floorAtZero(amount).Round(2),
			Description: rule.Description,
		}, nil
	default:
		return Discount{}, errors.Errorf("unsupported discount type: %q", rule.DiscountType)
	}
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
