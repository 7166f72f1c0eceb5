package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	plans map[string]*Plan
	subs  map[string]*Subscription
}

func newMockRepo(plans ...*Plan) *mockRepo {
	m := &mockRepo{plans: make(map[string]*Plan), subs: make(map[string]*Subscription)}
	for _, p := range plans {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockRepo) ListPlans(_ context.Context, onlyActive bool) ([]Plan, error) {
	var out []Plan
	for _, p := range m.plans {
		if onlyActive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRepo) GetPlan(_ context.Context, id string) (*Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

func (m *mockRepo) CreatePlan(_ context.Context, p *Plan) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockRepo) Create(_ context.Context, s *Subscription) error {
	cp := *s
	m.subs[s.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Subscription, error) {
	s, ok := m.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID string) ([]Subscription, error) {
	var out []Subscription
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, s *Subscription) error {
	if _, ok := m.subs[s.ID]; !ok {
		return ErrNotFound
	}
	cp := *s
	m.subs[s.ID] = &cp
	return nil
}

var monthlyPlan = &Plan{
	ID:         "plan-basic",
	Name:       "Basic Care",
	Price:      decimal.NewFromInt(99_000),
	PeriodDays: 30,
	Active:     true,
}

func newService(repo *mockRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubscribe(t *testing.T) {
	svc := newService(newMockRepo(monthlyPlan))

	sub, err := svc.Subscribe(context.Background(), "u1", "plan-basic")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), sub.StartAt)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), sub.EndAt)
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	svc := newService(newMockRepo())

	_, err := svc.Subscribe(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSubscribe_InactivePlan(t *testing.T) {
	svc := newService(newMockRepo(&Plan{ID: "plan-old", PeriodDays: 30, Active: false}))

	_, err := svc.Subscribe(context.Background(), "u1", "plan-old")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestRenew_ExtendsFromCurrentEnd(t *testing.T) {
	repo := newMockRepo(monthlyPlan)
	svc := newService(repo)

	sub, err := svc.Subscribe(context.Background(), "u1", "plan-basic")
	require.NoError(t, err)

	renewed, err := svc.Renew(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.EndAt.AddDate(0, 0, 30), renewed.EndAt)
	assert.Equal(t, sub.StartAt, renewed.StartAt)
}

func TestRenew_NotActive(t *testing.T) {
	repo := newMockRepo(monthlyPlan)
	repo.subs["s1"] = &Subscription{ID: "s1", PlanID: "plan-basic", Status: StatusCancelled}
	svc := newService(repo)

	_, err := svc.Renew(context.Background(), "s1")
	require.ErrorIs(t, err, ErrNotActive)
}

func TestCancel(t *testing.T) {
	repo := newMockRepo(monthlyPlan)
	svc := newService(repo)

	sub, err := svc.Subscribe(context.Background(), "u1", "plan-basic")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), sub.ID))
	assert.Equal(t, StatusCancelled, repo.subs[sub.ID].Status)

	// Cancelling twice fails.
	require.ErrorIs(t, svc.Cancel(context.Background(), sub.ID), ErrNotActive)
}

func TestListPlans_OnlyActive(t *testing.T) {
	svc := newService(newMockRepo(
		monthlyPlan,
		&Plan{ID: "plan-old", PeriodDays: 30, Active: false},
	))

	plans, err := svc.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-basic", plans[0].ID)
}

func TestCreatePlan_AssignsID(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	p := &Plan{Name: "Plus Care", Price: decimal.NewFromInt(199_000), PeriodDays: 30, Active: true}
	require.NoError(t, svc.CreatePlan(context.Background(), p))
	assert.NotEmpty(t, p.ID)
}
