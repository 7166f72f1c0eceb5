package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the state of a single payment attempt.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

var (
	// ErrNotFound is returned when a payment record does not exist.
	ErrNotFound = errors.New("payment not found")
	// ErrOrderAlreadyPaid is returned when requesting a payment URL for a
	// paid order.
	ErrOrderAlreadyPaid = errors.New("order already paid")
	// ErrBadSignature is returned when a gateway callback fails signature
	// verification.
	ErrBadSignature = errors.New("invalid payment signature")
)

// Payment records one attempt to pay for an order through the gateway.
type Payment struct {
	ID        string
	OrderID   string
	TxnRef    string
	Provider  string
	Amount    decimal.Decimal
	Status    Status
	CreatedAt time.Time
}

// Repository defines persistence operations for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByTxnRef(ctx context.Context, txnRef string) (*Payment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
