package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/pet"
)

var _ pet.Repository = (*PetRepository)(nil)

// PetRepository implements pet.Repository backed by PostgreSQL.
type PetRepository struct {
	pool *pgxpool.Pool
}

// NewPetRepository returns a PetRepository that uses the given pool.
func NewPetRepository(pool *pgxpool.Pool) *PetRepository {
	return &PetRepository{pool: pool}
}

const petColumns = `id, owner_id, name, species, breed, birth_date, weight_kg, created_at`

func scanPet(row pgx.Row) (pet.Pet, error) {
	var p pet.Pet
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.BirthDate, &p.WeightKg, &p.CreatedAt)
	return p, err
}

func (r *PetRepository) Create(ctx context.Context, p *pet.Pet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pets (id, owner_id, name, species, breed, birth_date, weight_kg)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OwnerID, p.Name, p.Species, p.Breed, p.BirthDate, p.WeightKg)
	return errors.Wrapf(err, "insert pet %q", p.Name)
}

func (r *PetRepository) GetByID(ctx context.Context, id string) (*pet.Pet, error) {
	p, err := scanPet(r.pool.QueryRow(ctx,
		`SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pet.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get pet %q", id)
	}
	return &p, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]pet.Pet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+petColumns+` FROM pets WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "list pets")
	}
	defer rows.Close()

	var out []pet.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetRepository) Update(ctx context.Context, p *pet.Pet) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pets SET name = $2, species = $3, breed = $4, birth_date = $5, weight_kg = $6
		 WHERE id = $1`,
		p.ID, p.Name, p.Species, p.Breed, p.BirthDate, p.WeightKg)
	if err != nil {
		return errors.Wrapf(err, "update pet %q", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return pet.ErrNotFound
	}
	return nil
}

// Delete removes the pet. Health records go with it via ON DELETE CASCADE.
func (r *PetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete pet %q", id)
	}
	if tag.RowsAffected() == 0 {
		return pet.ErrNotFound
	}
	return nil
}

const recordColumns = `id, pet_id, record_type, title, notes, vet_name, record_date, created_at`

func scanRecord(row pgx.Row) (pet.HealthRecord, error) {
	var rec pet.HealthRecord
	err := row.Scan(&rec.ID, &rec.PetID, &rec.RecordType, &rec.Title, &rec.Notes, &rec.VetName, &rec.RecordDate, &rec.CreatedAt)
	return rec, err
}

func (r *PetRepository) CreateRecord(ctx context.Context, rec *pet.HealthRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO health_records (id, pet_id, record_type, title, notes, vet_name, record_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.PetID, rec.RecordType, rec.Title, rec.Notes, rec.VetName, rec.RecordDate)
	return errors.Wrapf(err, "insert health record for pet %q", rec.PetID)
}

func (r *PetRepository) ListRecords(ctx context.Context, petID string) ([]pet.HealthRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM health_records WHERE pet_id = $1 ORDER BY record_date DESC`, petID)
	if err != nil {
		return nil, errors.Wrap(err, "list health records")
	}
	defer rows.Close()

	var out []pet.HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PetRepository) GetRecord(ctx context.Context, id string) (*pet.HealthRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM health_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pet.ErrRecordNotFound
		}
		return nil, errors.Wrapf(err, "get health record %q", id)
	}
	return &rec, nil
}

func (r *PetRepository) DeleteRecord(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM health_records WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete health record %q", id)
	}
	if tag.RowsAffected() == 0 {
		return pet.ErrRecordNotFound
	}
	return nil
}
