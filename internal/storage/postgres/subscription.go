package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/subscription"
)

var _ subscription.Repository = (*SubscriptionRepository)(nil)

// SubscriptionRepository implements subscription.Repository backed by
// PostgreSQL.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository returns a SubscriptionRepository that uses the
// given pool.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

const planColumns = `id, name, description, price, period_days, active`

func scanPlan(row pgx.Row) (subscription.Plan, error) {
	var p subscription.Plan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.PeriodDays, &p.Active)
	return p, err
}

func (r *SubscriptionRepository) ListPlans(ctx context.Context, onlyActive bool) ([]subscription.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans ORDER BY price`
	if onlyActive {
		query = `SELECT ` + planColumns + ` FROM subscription_plans WHERE active ORDER BY price`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list plans")
	}
	defer rows.Close()

	var out []subscription.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SubscriptionRepository) GetPlan(ctx context.Context, id string) (*subscription.Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, errors.Wrapf(err, "get plan %q", id)
	}
	return &p, nil
}

func (r *SubscriptionRepository) CreatePlan(ctx context.Context, p *subscription.Plan) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subscription_plans (id, name, description, price, period_days, active)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, p.Price, p.PeriodDays, p.Active)
	return errors.Wrapf(err, "insert plan %q", p.Name)
}

const subscriptionColumns = `id, user_id, plan_id, status, start_at, end_at`

func scanSubscription(row pgx.Row) (subscription.Subscription, error) {
	var s subscription.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.StartAt, &s.EndAt)
	return s, err
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subscriptions (id, user_id, plan_id, status, start_at, end_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.PlanID, s.Status, s.StartAt, s.EndAt)
	return errors.Wrapf(err, "insert subscription for user %q", s.UserID)
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	s, err := scanSubscription(r.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get subscription %q", id)
	}
	return &s, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]subscription.Subscription, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE user_id = $1 ORDER BY start_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list subscriptions")
	}
	defer rows.Close()

	var out []subscription.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status = $2, start_at = $3, end_at = $4 WHERE id = $1`,
		s.ID, s.Status, s.StartAt, s.EndAt)
	if err != nil {
		return errors.Wrapf(err, "update subscription %q", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return subscription.ErrNotFound
	}
	return nil
}
