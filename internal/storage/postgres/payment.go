package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/payment"
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (id, order_id, txn_ref, provider, amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OrderID, p.TxnRef, p.Provider, p.Amount, p.Status)
	return errors.Wrapf(err, "insert payment for order %q", p.OrderID)
}

func (r *PaymentRepository) GetByTxnRef(ctx context.Context, txnRef string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, order_id, txn_ref, provider, amount, status, created_at
		 FROM payments WHERE txn_ref = $1`, txnRef).
		Scan(&p.ID, &p.OrderID, &p.TxnRef, &p.Provider, &p.Amount, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get payment by txn ref %q", txnRef)
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status payment.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrapf(err, "update payment %q status", id)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}
	return nil
}
