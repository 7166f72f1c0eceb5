package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petfolk/pawmart/internal/domain/product"
	"github.com/petfolk/pawmart/internal/domain/voucher"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func (m *mockProductRepo) List(context.Context, bool) ([]product.Product, error) { return nil, nil }
func (m *mockProductRepo) Create(context.Context, *product.Product) error        { return nil }
func (m *mockProductRepo) Update(context.Context, *product.Product) error        { return nil }
func (m *mockProductRepo) SetActive(context.Context, string, bool) error         { return nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockVoucherValidator struct {
	discount *voucher.Discount
	err      error
}

func (m *mockVoucherValidator) Validate(context.Context, string, decimal.Decimal) (*voucher.Discount, error) {
	return m.discount, m.err
}

type mockStore struct {
	lastOrder     *Order
	lastClearUser string
	lastStatus    Status
	lastRestock   []StockChange
	byID          map[string]*Order
	createErr     error
}

func (m *mockStore) Create(_ context.Context, o *Order, clearCartUser string) error {
	m.lastOrder = o
	m.lastClearUser = clearCartUser
	return m.createErr
}

func (m *mockStore) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockStore) ListByUser(context.Context, string) ([]Order, error) { return nil, nil }
func (m *mockStore) List(context.Context) ([]Order, error)              { return nil, nil }

func (m *mockStore) UpdateStatus(_ context.Context, _ string, status Status, restock []StockChange) error {
	m.lastStatus = status
	m.lastRestock = restock
	return nil
}

func (m *mockStore) SetPaymentStatus(context.Context, string, PaymentStatus) error { return nil }

type recordingEvents struct {
	cancelled []string
}

func (r *recordingEvents) OrderCancelled(_ context.Context, o *Order) {
	r.cancelled = append(r.cancelled, o.ID)
}

// --- Helpers ---

func newTestProduct(id, name string, price int64, stock int) product.Product {
	return product.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Active: true,
	}
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

// --- Shipping fee ---

func TestShippingFee(t *testing.T) {
	cases := []struct {
		subtotal int64
		want     int64
	}{
		{0, 30_000},
		{299_999, 30_000},
		{300_000, 20_000},
		{499_999, 20_000},
		{500_000, 0},
		{1_000_000, 0},
	}
	for _, tc := range cases {
		got := ShippingFee(decimal.NewFromInt(tc.subtotal))
		assert.True(t, decimal.NewFromInt(tc.want).Equal(got),
			"subtotal %d: want %d, got %s", tc.subtotal, tc.want, got)
	}
}

// --- Checkout ---

func TestCheckout_EmptyItems(t *testing.T) {
	svc := NewService(newProductRepo(), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{UserID: "u1"})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestCheckout_InvalidQuantity(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "p1", Quantity: 0}},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "p1", iqErr.ProductID)
}

func TestCheckout_ProductNotFound(t *testing.T) {
	svc := NewService(newProductRepo(), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "missing", Quantity: 1}},
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestCheckout_ProductInactive(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	p1.Active = false
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "p1", Quantity: 1}},
	})

	var inactiveErr *ProductInactiveError
	require.ErrorAs(t, err, &inactiveErr)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 2)
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "p1", Quantity: 3}},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
}

func TestCheckout_Totals(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	p2 := newTestProduct("p2", "Cat Litter", 50_000, 10)
	store := &mockStore{}
	svc := NewService(newProductRepo(p1, p2), &mockVoucherValidator{}, store, &recordingEvents{})

	o, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID:          "u1",
		Items:           []LineInput{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
		ShippingAddress: "12 Nguyen Hue",
	})

	require.NoError(t, err)
	// 250k subtotal sits below the reduced fee floor: standard fee applies.
	assert.True(t, decimal.NewFromInt(250_000).Equal(o.TotalAmount))
	assert.True(t, decimal.NewFromInt(30_000).Equal(o.ShippingFee))
	assert.True(t, decimal.NewFromInt(280_000).Equal(o.FinalAmount))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
	assert.Len(t, o.Items, 2)
	require.NotNil(t, store.lastOrder)
	assert.Empty(t, store.lastClearUser)
}

func TestCheckout_SalePriceSnapshot(t *testing.T) {
	sale := decimal.NewFromInt(80_000)
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	p1.SalePrice = &sale
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	o, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "p1", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.True(t, sale.Equal(o.Items[0].UnitPrice))
	assert.True(t, sale.Equal(o.TotalAmount))
}

func TestCheckout_FreeShipping(t *testing.T) {
	p1 := newTestProduct("p1", "Bird Cage", 500_000, 5)
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	o, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "p1", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.True(t, o.ShippingFee.IsZero())
	assert.True(t, decimal.NewFromInt(500_000).Equal(o.FinalAmount))
}

func TestCheckout_WithVoucher(t *testing.T) {
	p1 := newTestProduct("p1", "Bird Cage", 500_000, 5)
	vv := &mockVoucherValidator{
		discount: &voucher.Discount{Amount: decimal.NewFromInt(50_000), Description: "50k off"},
	}
	svc := NewService(newProductRepo(p1), vv, &mockStore{}, &recordingEvents{})

	o, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID:      "u1",
		Items:       []LineInput{{ProductID: "p1", Quantity: 1}},
		VoucherCode: "NEWPAWS1",
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50_000).Equal(o.DiscountAmount))
	assert.True(t, decimal.NewFromInt(450_000).Equal(o.FinalAmount))
	assert.Equal(t, "NEWPAWS1", o.VoucherCode)
}

func TestCheckout_InvalidVoucher(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	vv := &mockVoucherValidator{err: voucher.ErrInvalidVoucher}
	svc := NewService(newProductRepo(p1), vv, &mockStore{}, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID:      "u1",
		Items:       []LineInput{{ProductID: "p1", Quantity: 1}},
		VoucherCode: "BOGUS",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, voucher.ErrInvalidVoucher)
}

func TestCheckout_FinalFlooredAtZero(t *testing.T) {
	p1 := newTestProduct("p1", "Fish Flakes", 65_000, 10)
	vv := &mockVoucherValidator{
		discount: &voucher.Discount{Amount: decimal.NewFromInt(999_000), Description: "huge"},
	}
	svc := NewService(newProductRepo(p1), vv, &mockStore{}, &recordingEvents{})

	o, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID:      "u1",
		Items:       []LineInput{{ProductID: "p1", Quantity: 1}},
		VoucherCode: "HUGE",
	})

	require.NoError(t, err)
	assert.True(t, o.FinalAmount.IsZero())
}

func TestCheckout_FromCartClearsCart(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	store := &mockStore{}
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, store, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID:   "u1",
		Items:    []LineInput{{ProductID: "p1", Quantity: 1}},
		FromCart: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", store.lastClearUser)
}

func TestCheckout_StoreError(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	store := &mockStore{createErr: errors.New("db write failed")}
	svc := NewService(newProductRepo(p1), &mockVoucherValidator{}, store, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID: "u1",
		Items:  []LineInput{{ProductID: "p1", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

// countingVoucherRepo records every mutation so tests can assert the
// validation path stays read-only.
type countingVoucherRepo struct {
	rule   *voucher.Rule
	writes int
}

func (r *countingVoucherRepo) FindByCode(_ context.Context, code string) (*voucher.Rule, error) {
	if r.rule == nil || r.rule.Code != code {
		return nil, voucher.ErrInvalidVoucher
	}
	return r.rule, nil
}

func (r *countingVoucherRepo) Create(context.Context, *voucher.Rule) error {
	r.writes++
	return nil
}

func (r *countingVoucherRepo) List(context.Context) ([]voucher.Rule, error) { return nil, nil }

func TestCheckout_FailureBurnsNoVoucherUse(t *testing.T) {
	p1 := newTestProduct("p1", "Dog Food", 100_000, 10)
	repo := &countingVoucherRepo{rule: &voucher.Rule{
		Code:         "TEN",
		DiscountType: voucher.DiscountPercentage,
		Value:        decimal.NewFromInt(10),
		MaxUses:      1,
	}}
	store := &mockStore{createErr: errors.New("db write failed")}
	svc := NewService(newProductRepo(p1), voucher.NewRepoValidator(repo), store, &recordingEvents{})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		UserID:      "u1",
		Items:       []LineInput{{ProductID: "p1", Quantity: 1}},
		VoucherCode: "TEN",
	})

	// The order failed, so the voucher must still be redeemable: uses are
	// only consumed inside the store's transaction, which rolled back.
	require.Error(t, err)
	assert.Zero(t, repo.writes)
	assert.Zero(t, repo.rule.Uses)
}

// --- Status transitions ---

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusShipped))
	assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))
	assert.True(t, CanTransition(StatusShipped, StatusDelivered))

	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	store := &mockStore{byID: map[string]*Order{
		"o1": {ID: "o1", Status: StatusShipped},
	}}
	svc := NewService(newProductRepo(), &mockVoucherValidator{}, store, &recordingEvents{})

	_, err := svc.UpdateStatus(context.Background(), "o1", StatusCancelled)

	var itErr *InvalidTransitionError
	require.ErrorAs(t, err, &itErr)
	assert.Equal(t, StatusShipped, itErr.From)
	assert.Equal(t, StatusCancelled, itErr.To)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := NewService(newProductRepo(), &mockVoucherValidator{}, &mockStore{}, &recordingEvents{})

	_, err := svc.UpdateStatus(context.Background(), "missing", StatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancel_RestoresStock(t *testing.T) {
	store := &mockStore{byID: map[string]*Order{
		"o1": {
			ID:     "o1",
			Status: StatusPending,
			Items: []Item{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 1},
			},
		},
	}}
	events := &recordingEvents{}
	svc := NewService(newProductRepo(), &mockVoucherValidator{}, store, events)

	o, err := svc.Cancel(context.Background(), "o1")

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, []StockChange{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, store.lastRestock)
	assert.Equal(t, []string{"o1"}, events.cancelled)
}

func TestUpdateStatus_ConfirmDoesNotRestock(t *testing.T) {
	store := &mockStore{byID: map[string]*Order{
		"o1": {ID: "o1", Status: StatusPending, Items: []Item{{ProductID: "p1", Quantity: 2}}},
	}}
	svc := NewService(newProductRepo(), &mockVoucherValidator{}, store, &recordingEvents{})

	o, err := svc.UpdateStatus(context.Background(), "o1", StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Nil(t, store.lastRestock)
}
