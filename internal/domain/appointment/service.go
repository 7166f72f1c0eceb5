package appointment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service encapsulates appointment booking business logic.
type Service struct {
	repo   Repository
	events Events
}

// NewService creates an appointment Service.
func NewService(repo Repository, events Events) *Service {
	return &Service{repo: repo, events: events}
}

// BookRequest holds the input for booking an appointment.
type BookRequest struct {
	BranchID    string
	UserID      string
	PetID       string
	ServiceName string
	Date        time.Time
	Start       string
	End         string
	Note        string
}

// Book validates the requested slot and creates the appointment. The slot is
// rejected with a ConflictError when any non-cancelled appointment at the
// same branch and date overlaps the half-open interval [Start, End).
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	start, err := time.Parse("15:04", req.Start)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	end, err := time.Parse("15:04", req.End)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	if _, err := s.repo.GetBranch(ctx, req.BranchID); err != nil {
		return nil, err
	}

	overlapping, err := s.repo.CountOverlapping(ctx, req.BranchID, req.Date, req.Start, req.End)
	if err != nil {
		return nil, errors.Wrap(err, "check overlapping appointments")
	}
	if overlapping > 0 {
		return nil, &ConflictError{
			BranchID: req.BranchID,
			Date:     req.Date,
			Start:    req.Start,
			End:      req.End,
		}
	}

	a := &Appointment{
		ID:          uuid.New().String(),
		BranchID:    req.BranchID,
		UserID:      req.UserID,
		PetID:       req.PetID,
		ServiceName: req.ServiceName,
		Date:        req.Date,
		Start:       req.Start,
		End:         req.End,
		Status:      StatusPending,
		Note:        req.Note,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, "create appointment")
	}

	s.events.AppointmentBooked(ctx, a)
	return a, nil
}

// Get loads a single appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser returns the user's appointments, soonest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByBranchDate returns a branch's schedule for one date.
func (s *Service) ListByBranchDate(ctx context.Context, branchID string, date time.Time) ([]Appointment, error) {
	return s.repo.ListByBranchDate(ctx, branchID, date)
}

// UpdateStatus writes a new status for the appointment.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Cancel marks the appointment cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}

// ListBranches returns every branch.
func (s *Service) ListBranches(ctx context.Context) ([]Branch, error) {
	return s.repo.ListBranches(ctx)
}
