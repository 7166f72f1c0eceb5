package subscription

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service encapsulates subscription lifecycle logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a subscription Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListPlans returns the active plans offered to customers.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.ListPlans(ctx, true)
}

// CreatePlan adds a plan to the catalogue.
func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return s.repo.CreatePlan(ctx, p)
}

// Subscribe starts a new subscription on the given plan, running from now
// for one plan period.
func (s *Service) Subscribe(ctx context.Context, userID, planID string) (*Subscription, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, ErrPlanNotFound
	}

	start := s.now()
	sub := &Subscription{
		ID:      uuid.New().String(),
		UserID:  userID,
		PlanID:  plan.ID,
		Status:  StatusActive,
		StartAt: start,
		EndAt:   start.AddDate(0, 0, plan.PeriodDays),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, errors.Wrap(err, "create subscription")
	}
	return sub, nil
}

// Renew extends an active subscription by one plan period from its current
// end date.
func (s *Service) Renew(ctx context.Context, id string) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != StatusActive {
		return nil, ErrNotActive
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	sub.EndAt = sub.EndAt.AddDate(0, 0, plan.PeriodDays)
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, errors.Wrap(err, "renew subscription")
	}
	return sub, nil
}

// Cancel stops an active subscription.
func (s *Service) Cancel(ctx context.Context, id string) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != StatusActive {
		return ErrNotActive
	}
	sub.Status = StatusCancelled
	return s.repo.Update(ctx, sub)
}

// ListByUser returns the user's subscriptions, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}
