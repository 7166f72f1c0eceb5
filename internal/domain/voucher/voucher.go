package voucher

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported voucher discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

var (
	// ErrInvalidVoucher is returned when a voucher code is not found.
	ErrInvalidVoucher = errors.New("invalid voucher code")
	// ErrVoucherExpired is returned when a voucher is outside its valid time window.
	ErrVoucherExpired = errors.New("voucher expired")
	// ErrUsageLimitReached is returned when a voucher has exhausted its allowed uses.
	ErrUsageLimitReached = errors.New("voucher usage limit reached")
	// ErrMinOrderNotMet is returned when the order subtotal is below the
	// voucher's minimum order amount.
	ErrMinOrderNotMet = errors.New("order does not meet voucher minimum amount")
)

// Rule defines a voucher's discount behaviour and eligibility constraints.
type Rule struct {
	Code           string
	DiscountType   DiscountType
	Value          decimal.Decimal
	MinOrderAmount decimal.Decimal
	Description    string
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MaxUses        int
	Uses           int
}

// Discount holds the computed discount amount and a human-readable description.
type Discount struct {
	Amount      decimal.Decimal
	Description string
}

// Repository provides lookup and administration of voucher rules. Usage
// accounting is not here: redemptions are counted by the order store in the
// same transaction that persists the order.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	Create(ctx context.Context, r *Rule) error
	List(ctx context.Context) ([]Rule, error)
}
