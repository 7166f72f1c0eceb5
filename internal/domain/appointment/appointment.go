package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	// ErrNotFound is returned when a requested appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrInvalidTimeRange is returned when start is not strictly before end
	// or either bound fails to parse as HH:MM.
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrBranchNotFound is returned when the requested branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")
)

// ConflictError indicates the requested slot overlaps an existing
// non-cancelled appointment at the same branch and date.
type ConflictError struct {
	BranchID string
	Date     time.Time
	Start    string
	End      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot %s-%s on %s is already booked at branch %s",
		e.Start, e.End, e.Date.Format("2006-01-02"), e.BranchID)
}

// Branch is a physical location offering pet-care services.
type Branch struct {
	ID        string
	Name      string
	Address   string
	OpenTime  string
	CloseTime string
}

// Appointment is a booked service slot. Start and End are HH:MM wall-clock
// times on Date; the interval is half-open [Start, End).
type Appointment struct {
	ID          string
	BranchID    string
	UserID      string
	PetID       string
	ServiceName string
	Date        time.Time
	Start       string
	End         string
	Status      Status
	Note        string
	CreatedAt   time.Time
}

// Repository defines persistence operations for appointments and branches.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
	ListByBranchDate(ctx context.Context, branchID string, date time.Time) ([]Appointment, error)
	// CountOverlapping counts non-cancelled appointments at the branch on the
	// given date whose [start,end) interval overlaps the one provided.
	CountOverlapping(ctx context.Context, branchID string, date time.Time, start, end string) (int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	GetBranch(ctx context.Context, id string) (*Branch, error)
	ListBranches(ctx context.Context) ([]Branch, error)
}

// Events receives appointment lifecycle notifications.
type Events interface {
	AppointmentBooked(ctx context.Context, a *Appointment)
}
