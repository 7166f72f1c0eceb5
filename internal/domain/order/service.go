package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petfolk/pawmart/internal/domain/product"
	"github.com/petfolk/pawmart/internal/domain/voucher"
)

// LineInput is a (product, quantity) pair requested at checkout.
type LineInput struct {
	ProductID string
	Quantity  int
}

// CheckoutRequest holds the input for placing an order.
type CheckoutRequest struct {
	UserID          string
	Items           []LineInput
	ShippingAddress string
	VoucherCode     string
	// FromCart marks the order as a cart conversion: on success the user's
	// cart rows are deleted in the same transaction.
	FromCart bool
}

// Service encapsulates order placement and lifecycle business logic.
type Service struct {
	products product.Repository
	vouchers voucher.Validator
	store    Store
	events   Events
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, vouchers voucher.Validator, store Store, events Events) *Service {
	return &Service{
		products: products,
		vouchers: vouchers,
		store:    store,
		events:   events,
	}
}

// Checkout validates every requested product, snapshots prices, computes the
// shipping fee and optional voucher discount, and persists the order. Stock
// decrements, voucher redemption, and cart clearing happen inside the
// store's transaction, so a failure anywhere leaves state unchanged: no
// stock moved, no voucher use burned, no cart rows lost.
//
// The stock check here is read-then-write: two concurrent checkouts against
// the same low-stock product can both pass validation. The store's guarded
// decrement makes the loser roll back instead of driving stock negative.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]string, len(req.Items))
	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID}
		}
		ids[i] = line.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	// Build line item snapshots and the subtotal.
	items := make([]Item, len(req.Items))
	subtotal := decimal.Zero
	for i, line := range req.Items {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if !p.Active {
			return nil, &ProductInactiveError{ProductID: line.ProductID}
		}
		if p.Stock < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: p.Stock,
			}
		}

		unit := p.UnitPrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items[i] = Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   unit,
			Quantity:    line.Quantity,
			TotalPrice:  lineTotal,
		}
		subtotal = subtotal.Add(lineTotal)
	}

	shippingFee := ShippingFee(subtotal)

	discount := decimal.Zero
	if req.VoucherCode != "" {
		d, err := s.vouchers.Validate(ctx, req.VoucherCode, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "validate voucher")
		}
		discount = d.Amount
	}

	final := subtotal.Add(shippingFee).Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		TotalAmount:     subtotal,
		ShippingFee:     shippingFee,
		DiscountAmount:  discount,
		FinalAmount:     final,
		VoucherCode:     req.VoucherCode,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}

	clearCartUser := ""
	if req.FromCart {
		clearCartUser = req.UserID
	}
	if err := s.store.Create(ctx, o, clearCartUser); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Get loads a single order with its items.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.store.GetByID(ctx, id)
}

// ListByUser returns all orders placed by the given user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx)
}

// UpdateStatus moves an order to a new status, rejecting transitions outside
// the allowed table. Cancelling restores stock for every line item in the
// same transaction as the status write.
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (*Order, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, &InvalidTransitionError{From: o.Status, To: to}
	}

	var restock []StockChange
	if to == StatusCancelled {
		restock = make([]StockChange, len(o.Items))
		for i, item := range o.Items {
			restock[i] = StockChange{ProductID: item.ProductID, Quantity: item.Quantity}
		}
	}

	if err := s.store.UpdateStatus(ctx, id, to, restock); err != nil {
		return nil, errors.Wrap(err, "update order status")
	}
	o.Status = to

	if to == StatusCancelled {
		s.events.OrderCancelled(ctx, o)
	}
	return o, nil
}

// Cancel is a convenience wrapper over UpdateStatus(StatusCancelled).
func (s *Service) Cancel(ctx context.Context, id string) (*Order, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}
