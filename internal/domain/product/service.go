package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Validation errors for catalog management.
var (
	ErrEmptyName     = errors.New("product name required")
	ErrNegativePrice = errors.New("price must not be negative")
)

// Service encapsulates catalog management on top of the repository.
type Service struct {
	repo Repository
}

// NewService creates a product Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns catalog items. Non-admin callers only see active products.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	return s.repo.List(ctx, !includeInactive)
}

// Get returns a single product by ID.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() || (p.SalePrice != nil && p.SalePrice.IsNegative()) {
		return ErrNegativePrice
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Active = true
	return s.repo.Create(ctx, p)
}

// Update validates and persists changes to an existing product.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() || (p.SalePrice != nil && p.SalePrice.IsNegative()) {
		return ErrNegativePrice
	}
	return s.repo.Update(ctx, p)
}

// Deactivate hides a product from the catalog without deleting it. Existing
// order item snapshots keep referring to it.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}
