package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. Transitions are enforced by
// CanTransition; the only terminal states are Delivered and Cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions maps each state to the states reachable from it.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the payment side of an order independently of the
// fulfilment status.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is a placed customer order. Invariants:
// FinalAmount = TotalAmount + ShippingFee - DiscountAmount, and the summed
// TotalPrice of Items equals TotalAmount.
type Order struct {
	ID              string
	UserID          string
	Status          Status
	PaymentStatus   PaymentStatus
	TotalAmount     decimal.Decimal
	ShippingFee     decimal.Decimal
	DiscountAmount  decimal.Decimal
	FinalAmount     decimal.Decimal
	VoucherCode     string
	ShippingAddress string
	Items           []Item
	CreatedAt       time.Time
}

// Item is a line item snapshot taken at the time of purchase. It is
// intentionally decoupled from later product price changes.
type Item struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	TotalPrice  decimal.Decimal
}

// StockChange is a per-product stock adjustment applied inside the order
// transaction: negative-direction on checkout, positive on cancellation.
type StockChange struct {
	ProductID string
	Quantity  int
}

// Store defines the transactional persistence boundary for orders. Every
// multi-row write (create with stock decrement and cart clearing, status
// change with restock) happens atomically inside the implementation.
type Store interface {
	// Create persists the order and its items, decrements stock for every
	// line item, redeems o.VoucherCode when set, records the placement
	// event, and clears the cart rows of clearCartUser when non-empty.
	// All of it commits or rolls back as one transaction.
	Create(ctx context.Context, o *Order, clearCartUser string) error
	// GetByID loads an order with its items.
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus writes the new status and applies the given stock
	// restitutions in the same transaction.
	UpdateStatus(ctx context.Context, id string, status Status, restock []StockChange) error
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error
}

// Events receives order lifecycle notifications after commit.
// Implementations must not fail the calling operation. Placement is not
// here: the Store records it inside the checkout transaction.
type Events interface {
	OrderCancelled(ctx context.Context, o *Order)
}
