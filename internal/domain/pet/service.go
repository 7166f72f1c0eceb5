package pet

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrEmptyName is returned when creating a pet without a name.
var ErrEmptyName = errors.New("pet name required")

// Actor identifies the caller for ownership checks. Staff and admin accounts
// may access any pet.
type Actor struct {
	UserID string
	Staff  bool
}

// Service encapsulates pet profile and health record management with
// per-owner access control.
type Service struct {
	repo Repository
}

// NewService creates a pet Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) authorize(ctx context.Context, actor Actor, petID string) (*Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && p.OwnerID != actor.UserID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// Create registers a new pet profile owned by the actor.
func (s *Service) Create(ctx context.Context, actor Actor, p *Pet) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	p.ID = uuid.New().String()
	p.OwnerID = actor.UserID
	return s.repo.Create(ctx, p)
}

// Get loads a pet the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor Actor, petID string) (*Pet, error) {
	return s.authorize(ctx, actor, petID)
}

// ListOwn returns the actor's pets.
func (s *Service) ListOwn(ctx context.Context, actor Actor) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, actor.UserID)
}

// Update changes a pet profile the actor owns.
func (s *Service) Update(ctx context.Context, actor Actor, p *Pet) error {
	existing, err := s.authorize(ctx, actor, p.ID)
	if err != nil {
		return err
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	p.OwnerID = existing.OwnerID
	return s.repo.Update(ctx, p)
}

// Delete removes a pet profile and, via cascade, its health records.
func (s *Service) Delete(ctx context.Context, actor Actor, petID string) error {
	if _, err := s.authorize(ctx, actor, petID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, petID)
}

// AddRecord appends a health record to a pet the actor may access.
func (s *Service) AddRecord(ctx context.Context, actor Actor, r *HealthRecord) error {
	if _, err := s.authorize(ctx, actor, r.PetID); err != nil {
		return err
	}
	r.ID = uuid.New().String()
	return s.repo.CreateRecord(ctx, r)
}

// ListRecords returns a pet's health history, newest record date first.
func (s *Service) ListRecords(ctx context.Context, actor Actor, petID string) ([]HealthRecord, error) {
	if _, err := s.authorize(ctx, actor, petID); err != nil {
		return nil, err
	}
	return s.repo.ListRecords(ctx, petID)
}

// DeleteRecord removes one health record from a pet the actor may access.
func (s *Service) DeleteRecord(ctx context.Context, actor Actor, recordID string) error {
	r, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if _, err := s.authorize(ctx, actor, r.PetID); err != nil {
		return err
	}
	return s.repo.DeleteRecord(ctx, recordID)
}
