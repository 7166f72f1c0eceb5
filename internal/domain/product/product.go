package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Stock is
// authoritative: it is only mutated by checkout and order cancellation.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	Stock       int
	Active      bool
	CreatedAt   time.Time
}

// UnitPrice returns the effective sell price: the sale price when one is
// set, otherwise the regular price.
func (p Product) UnitPrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	SetActive(ctx context.Context, id string, active bool) error
}
