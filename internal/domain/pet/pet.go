package pet

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested pet does not exist.
	ErrNotFound = errors.New("pet not found")
	// ErrRecordNotFound is returned when a requested health record does not exist.
	ErrRecordNotFound = errors.New("health record not found")
	// ErrNotOwner is returned when a caller touches a pet they do not own.
	ErrNotOwner = errors.New("pet belongs to another user")
)

// Pet is a pet profile owned by a user.
type Pet struct {
	ID        string
	OwnerID   string
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
	WeightKg  *decimal.Decimal
	CreatedAt time.Time
}

// HealthRecord is one entry in a pet's health history: a vaccination, a
// weight check, a vet visit note.
type HealthRecord struct {
	ID         string
	PetID      string
	RecordType string
	Title      string
	Notes      string
	VetName    string
	RecordDate time.Time
	CreatedAt  time.Time
}

// Repository defines persistence operations for pets and health records.
type Repository interface {
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id string) (*Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, p *Pet) error
	Delete(ctx context.Context, id string) error

	CreateRecord(ctx context.Context, r *HealthRecord) error
	ListRecords(ctx context.Context, petID string) ([]HealthRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	GetRecord(ctx context.Context, id string) (*HealthRecord, error)
}
