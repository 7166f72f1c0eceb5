package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/appointment"
)

var _ appointment.Repository = (*AppointmentRepository)(nil)

// AppointmentRepository implements appointment.Repository backed by
// PostgreSQL. Slot bounds are stored as TIME columns and travel as HH:MM
// strings on the domain type.
type AppointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository returns an AppointmentRepository that uses the
// given pool.
func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `id, branch_id, user_id, pet_id, service_name, appointment_date,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), status, note, created_at`

func scanAppointment(row pgx.Row) (appointment.Appointment, error) {
	var a appointment.Appointment
	err := row.Scan(&a.ID, &a.BranchID, &a.UserID, &a.PetID, &a.ServiceName, &a.Date,
		&a.Start, &a.End, &a.Status, &a.Note, &a.CreatedAt)
	return a, err
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments (id, branch_id, user_id, pet_id, service_name,
		                           appointment_date, start_time, end_time, status, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.BranchID, a.UserID, a.PetID, a.ServiceName,
		a.Date, a.Start, a.End, a.Status, a.Note)
	return errors.Wrapf(err, "insert appointment at branch %q", a.BranchID)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appointment.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get appointment %q", id)
	}
	return &a, nil
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]appointment.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list appointments")
	}
	defer rows.Close()

	var out []appointment.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID string) ([]appointment.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE user_id = $1 ORDER BY appointment_date DESC, start_time DESC`, userID)
}

func (r *AppointmentRepository) ListByBranchDate(ctx context.Context, branchID string, date time.Time) ([]appointment.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE branch_id = $1 AND appointment_date = $2 ORDER BY start_time`, branchID, date)
}

// CountOverlapping uses the half-open interval test: two slots overlap when
// each starts before the other ends. Cancelled appointments do not block.
func (r *AppointmentRepository) CountOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM appointments
		 WHERE branch_id = $1 AND appointment_date = $2
		   AND status <> 'cancelled'
		   AND start_time < $4::time AND end_time > $3::time`,
		branchID, date, start, end).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count overlapping appointments")
	}
	return n, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status appointment.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrapf(err, "update appointment %q status", id)
	}
	if tag.RowsAffected() == 0 {
		return appointment.ErrNotFound
	}
	return nil
}

const branchColumns = `id, name, address, to_char(open_time, 'HH24:MI'), to_char(close_time, 'HH24:MI')`

func (r *AppointmentRepository) GetBranch(ctx context.Context, id string) (*appointment.Branch, error) {
	var b appointment.Branch
	err := r.pool.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Address, &b.OpenTime, &b.CloseTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appointment.ErrBranchNotFound
		}
		return nil, errors.Wrapf(err, "get branch %q", id)
	}
	return &b, nil
}

func (r *AppointmentRepository) ListBranches(ctx context.Context) ([]appointment.Branch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list branches")
	}
	defer rows.Close()

	var out []appointment.Branch
	for rows.Next() {
		var b appointment.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.OpenTime, &b.CloseTime); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
