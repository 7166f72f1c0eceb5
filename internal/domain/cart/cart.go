package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrItemNotFound is returned when a cart row does not exist.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrCacheMiss is returned by Cache implementations on a missing key.
	ErrCacheMiss = errors.New("cart cache miss")
)

// Item is one row of a user's cart, unique on (user, product). Name and
// UnitPrice are joined in from the catalog at read time, not stored.
type Item struct {
	UserID      string          `json:"user_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Cart is a user's full cart with the current catalog subtotal.
type Cart struct {
	UserID   string          `json:"user_id"`
	Items    []Item          `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Repository defines persistence operations for cart rows.
type Repository interface {
	// Upsert inserts the row or adds quantity to the existing one.
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	// SetQuantity replaces the quantity of an existing row.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	Clear(ctx context.Context, userID string) error
}

// Cache is a read-through cache for whole carts. Implementations return
// ErrCacheMiss when the key is absent.
type Cache interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Set(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
}
