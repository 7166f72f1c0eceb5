package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/petfolk/pawmart/internal/domain/product"
)

// ErrInvalidQuantity is returned when adding a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// Service manages user carts with a cache-aside read path. Cache failures
// degrade to database reads and are logged, never surfaced to callers.
type Service struct {
	repo     Repository
	products product.Repository
	cache    Cache
	lg       *zap.Logger
}

// NewService creates a cart Service.
func NewService(repo Repository, products product.Repository, cache Cache, lg *zap.Logger) *Service {
	return &Service{repo: repo, products: products, cache: cache, lg: lg}
}

// Get returns the user's cart, preferring the cache and repopulating it on a
// miss.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	if c, err := s.cache.Get(ctx, userID); err == nil {
		return c, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.lg.Warn("cart cache read failed", zap.String("user_id", userID), zap.Error(err))
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c := &Cart{UserID: userID, Items: items, Subtotal: subtotal}

	if err := s.cache.Set(ctx, userID, c); err != nil {
		s.lg.Warn("cart cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return c, nil
}

// AddItem upserts a cart row, incrementing quantity if the product is
// already in the cart. The product must exist and be active.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.Active {
		return product.ErrNotFound
	}
	if err := s.repo.Upsert(ctx, userID, productID, quantity); err != nil {
		return errors.Wrap(err, "upsert cart item")
	}
	s.invalidate(ctx, userID)
	return nil
}

// UpdateQuantity replaces a row's quantity. A non-positive quantity removes
// the row.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	var err error
	if quantity <= 0 {
		err = s.repo.Remove(ctx, userID, productID)
	} else {
		err = s.repo.SetQuantity(ctx, userID, productID, quantity)
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// RemoveItem deletes a single cart row.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Clear deletes every cart row of the user.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	s.invalidate(ctx, userID)
	return nil
}

// Invalidate drops the user's cached cart. Called by checkout after the
// store transaction deleted the cart rows.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	s.invalidate(ctx, userID)
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.lg.Warn("cart cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
