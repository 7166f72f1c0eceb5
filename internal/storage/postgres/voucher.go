package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/voucher"
)

var _ voucher.Repository = (*VoucherRepository)(nil)

// VoucherRepository implements voucher.Repository backed by PostgreSQL.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository returns a VoucherRepository that uses the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

const voucherColumns = `code, discount_type, value, min_order_amount, description,
	valid_from, valid_until, max_uses, uses`

func scanVoucher(row pgx.Row) (voucher.Rule, error) {
	var v voucher.Rule
	err := row.Scan(&v.Code, &v.DiscountType, &v.Value, &v.MinOrderAmount, &v.Description,
		&v.ValidFrom, &v.ValidUntil, &v.MaxUses, &v.Uses)
	return v, err
}

func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Rule, error) {
	v, err := scanVoucher(r.pool.QueryRow(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voucher.ErrInvalidVoucher
		}
		return nil, errors.Wrapf(err, "find voucher %q", code)
	}
	return &v, nil
}

// Create inserts the rule, replacing any previous rule with the same code.
// The voucher ingest pipeline relies on the upsert to be re-runnable.
func (r *VoucherRepository) Create(ctx context.Context, v *voucher.Rule) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO vouchers (code, discount_type, value, min_order_amount, description,
		                       valid_from, valid_until, max_uses, uses)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (code) DO UPDATE SET
		   discount_type = EXCLUDED.discount_type,
		   value = EXCLUDED.value,
		   min_order_amount = EXCLUDED.min_order_amount,
		   description = EXCLUDED.description,
		   valid_from = EXCLUDED.valid_from,
		   valid_until = EXCLUDED.valid_until,
		   max_uses = EXCLUDED.max_uses`,
		v.Code, v.DiscountType, v.Value, v.MinOrderAmount, v.Description,
		v.ValidFrom, v.ValidUntil, v.MaxUses, v.Uses)
	return errors.Wrapf(err, "upsert voucher %q", v.Code)
}

func (r *VoucherRepository) List(ctx context.Context) ([]voucher.Rule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+voucherColumns+` FROM vouchers ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, "list vouchers")
	}
	defer rows.Close()

	var out []voucher.Rule
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
