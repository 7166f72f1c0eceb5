package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/order"
	"github.com/petfolk/pawmart/internal/domain/voucher"
)

var _ order.Store = (*OrderStore)(nil)

// EventSink records an order event inside the order's own transaction, so
// the event row commits or rolls back together with the order.
type EventSink interface {
	OrderPlacedTx(ctx context.Context, tx pgx.Tx, o *order.Order) error
}

// OrderStore implements order.Store backed by PostgreSQL. All multi-row
// writes run inside a single transaction.
type OrderStore struct {
	pool   *pgxpool.Pool
	events EventSink
}

// NewOrderStore returns an OrderStore that uses the given pool. events may
// be nil when event publishing is disabled.
func NewOrderStore(pool *pgxpool.Pool, events EventSink) *OrderStore {
	return &OrderStore{pool: pool, events: events}
}

// Create persists the order and its items, decrements stock for each line
// item, redeems the voucher when one is set, records the placement event,
// and clears clearCartUser's cart rows, all in one transaction. A stock
// decrement that would go negative aborts the transaction with an
// InsufficientStockError.
func (s *OrderStore) Create(ctx context.Context, o *order.Order, clearCartUser string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, status, payment_status, total_amount, shipping_fee,
		                     discount_amount, final_amount, voucher_code, shipping_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.UserID, o.Status, o.PaymentStatus, o.TotalAmount, o.ShippingFee,
		o.DiscountAmount, o.FinalAmount, o.VoucherCode, o.ShippingAddress)
	if err != nil {
		return errors.Wrapf(err, "insert order %q", o.ID)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New().String(), o.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity, item.TotalPrice)
		if err != nil {
			return errors.Wrapf(err, "insert order item %q", item.ProductID)
		}

		// Guarded decrement: zero rows affected means another checkout won
		// the race and the remaining stock no longer covers this line.
		tag, err := tx.Exec(ctx,
			`UPDATE products SET stock_quantity = stock_quantity - $2
			 WHERE id = $1 AND stock_quantity >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return errors.Wrapf(err, "decrement stock for %q", item.ProductID)
		}
		if tag.RowsAffected() == 0 {
			return &order.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
			}
		}
	}

	if o.VoucherCode != "" {
		// Guarded like the stock decrement: a redemption that would pass
		// max_uses rolls the whole order back.
		tag, err := tx.Exec(ctx,
			`UPDATE vouchers SET uses = uses + 1
			 WHERE code = $1 AND (max_uses = 0 OR uses < max_uses)`, o.VoucherCode)
		if err != nil {
			return errors.Wrapf(err, "redeem voucher %q", o.VoucherCode)
		}
		if tag.RowsAffected() == 0 {
			return voucher.ErrUsageLimitReached
		}
	}

	if clearCartUser != "" {
		if _, err := tx.Exec(ctx,
			`DELETE FROM cart_items WHERE user_id = $1`, clearCartUser); err != nil {
			return errors.Wrap(err, "clear cart")
		}
	}

	if s.events != nil {
		if err := s.events.OrderPlacedTx(ctx, tx, o); err != nil {
			return errors.Wrap(err, "record order placement")
		}
	}

	return tx.Commit(ctx)
}

const orderColumns = `id, user_id, status, payment_status, total_amount, shipping_fee,
	discount_amount, final_amount, voucher_code, shipping_address, created_at`

func scanOrder(row pgx.Row) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.TotalAmount, &o.ShippingFee,
		&o.DiscountAmount, &o.FinalAmount, &o.VoucherCode, &o.ShippingAddress, &o.CreatedAt)
	return o, err
}

// GetByID loads one order with its items.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}

	items, err := s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *OrderStore) loadItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, product_name, unit_price, quantity, total_price
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "load order items")
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *OrderStore) list(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListByUser returns a user's orders without items, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return s.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// List returns every order without items, newest first.
func (s *OrderStore) List(ctx context.Context) ([]order.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// UpdateStatus writes the new status and applies stock restitutions in the
// same transaction.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status order.Status, restock []order.StockChange) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrapf(err, "update order %q status", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	for _, rc := range restock {
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock_quantity = stock_quantity + $2 WHERE id = $1`,
			rc.ProductID, rc.Quantity); err != nil {
			return errors.Wrapf(err, "restock product %q", rc.ProductID)
		}
	}

	return tx.Commit(ctx)
}

// SetPaymentStatus writes the order's payment status.
func (s *OrderStore) SetPaymentStatus(ctx context.Context, id string, status order.PaymentStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrapf(err, "set order %q payment status", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}
