package subscription

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

var (
	// ErrPlanNotFound is returned when a requested plan does not exist.
	ErrPlanNotFound = errors.New("subscription plan not found")
	// ErrNotFound is returned when a requested subscription does not exist.
	ErrNotFound = errors.New("subscription not found")
	// ErrNotActive is returned when renewing or cancelling a subscription
	// that is not active.
	ErrNotActive = errors.New("subscription is not active")
)

// Plan is a recurring care package offered to customers.
type Plan struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	PeriodDays  int
	Active      bool
}

// Subscription ties a user to a plan for a period.
type Subscription struct {
	ID      string
	UserID  string
	PlanID  string
	Status  Status
	StartAt time.Time
	EndAt   time.Time
}

// Repository defines persistence operations for plans and subscriptions.
type Repository interface {
	ListPlans(ctx context.Context, onlyActive bool) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	CreatePlan(ctx context.Context, p *Plan) error

	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]Subscription, error)
	Update(ctx context.Context, s *Subscription) error
}
