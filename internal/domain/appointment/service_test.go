package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	branches map[string]*Branch
	existing []Appointment
	created  []*Appointment
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.created = append(m.created, a)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Appointment, error) {
	for i := range m.existing {
		if m.existing[i].ID == id {
			return &m.existing[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) ListByUser(context.Context, string) ([]Appointment, error) { return nil, nil }

func (m *mockRepo) ListByBranchDate(context.Context, string, time.Time) ([]Appointment, error) {
	return nil, nil
}

// CountOverlapping mirrors the half-open interval predicate used by the SQL
// implementation.
func (m *mockRepo) CountOverlapping(_ context.Context, branchID string, date time.Time, start, end string) (int, error) {
	n := 0
	for _, a := range m.existing {
		if a.BranchID != branchID || !a.Date.Equal(date) || a.Status == StatusCancelled {
			continue
		}
		if a.Start < end && a.End > start {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	for i := range m.existing {
		if m.existing[i].ID == id {
			m.existing[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) GetBranch(_ context.Context, id string) (*Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return nil, ErrBranchNotFound
	}
	return b, nil
}

func (m *mockRepo) ListBranches(context.Context) ([]Branch, error) { return nil, nil }

type recordingEvents struct {
	booked []string
}

func (r *recordingEvents) AppointmentBooked(_ context.Context, a *Appointment) {
	r.booked = append(r.booked, a.ID)
}

var testDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func newRepo(existing ...Appointment) *mockRepo {
	return &mockRepo{
		branches: map[string]*Branch{
			"b1": {ID: "b1", Name: "District 1"},
			"b2": {ID: "b2", Name: "District 7"},
		},
		existing: existing,
	}
}

func bookReq(branch, start, end string) BookRequest {
	return BookRequest{
		BranchID:    branch,
		UserID:      "u1",
		PetID:       "pet1",
		ServiceName: "grooming",
		Date:        testDate,
		Start:       start,
		End:         end,
	}
}

func TestBook_Success(t *testing.T) {
	repo := newRepo()
	events := &recordingEvents{}
	svc := NewService(repo, events)

	a, err := svc.Book(context.Background(), bookReq("b1", "09:00", "10:00"))

	require.NoError(t, err)
	assert.Equal(t, StatusPending, a.Status)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, []string{a.ID}, events.booked)
}

func TestBook_InvalidTimeRange(t *testing.T) {
	svc := NewService(newRepo(), &recordingEvents{})

	cases := []struct{ start, end string }{
		{"10:00", "09:00"},  // end before start
		{"10:00", "10:00"},  // zero length
		{"not-a-time", "10:00"},
		{"09:00", "25:99"},
	}
	for _, tc := range cases {
		_, err := svc.Book(context.Background(), bookReq("b1", tc.start, tc.end))
		assert.ErrorIs(t, err, ErrInvalidTimeRange, "%s-%s", tc.start, tc.end)
	}
}

func TestBook_UnknownBranch(t *testing.T) {
	svc := NewService(newRepo(), &recordingEvents{})

	_, err := svc.Book(context.Background(), bookReq("nowhere", "09:00", "10:00"))
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestBook_OverlapSameBranchRejected(t *testing.T) {
	repo := newRepo(Appointment{
		ID: "a1", BranchID: "b1", Date: testDate,
		Start: "09:00", End: "10:00", Status: StatusConfirmed,
	})
	svc := NewService(repo, &recordingEvents{})

	_, err := svc.Book(context.Background(), bookReq("b1", "09:30", "10:30"))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "b1", conflict.BranchID)
	assert.Empty(t, repo.created)
}

func TestBook_OtherBranchUnaffected(t *testing.T) {
	repo := newRepo(Appointment{
		ID: "a1", BranchID: "b1", Date: testDate,
		Start: "09:00", End: "10:00", Status: StatusConfirmed,
	})
	svc := NewService(repo, &recordingEvents{})

	_, err := svc.Book(context.Background(), bookReq("b2", "09:30", "10:30"))
	require.NoError(t, err)
}

func TestBook_CancelledSlotDoesNotBlock(t *testing.T) {
	repo := newRepo(Appointment{
		ID: "a1", BranchID: "b1", Date: testDate,
		Start: "09:00", End: "10:00", Status: StatusCancelled,
	})
	svc := NewService(repo, &recordingEvents{})

	_, err := svc.Book(context.Background(), bookReq("b1", "09:00", "10:00"))
	require.NoError(t, err)
}

func TestBook_BackToBackSlotsAllowed(t *testing.T) {
	repo := newRepo(Appointment{
		ID: "a1", BranchID: "b1", Date: testDate,
		Start: "09:00", End: "10:00", Status: StatusConfirmed,
	})
	svc := NewService(repo, &recordingEvents{})

	// [10:00, 11:00) does not overlap the half-open [09:00, 10:00).
	_, err := svc.Book(context.Background(), bookReq("b1", "10:00", "11:00"))
	require.NoError(t, err)
}

func TestCancel(t *testing.T) {
	repo := newRepo(Appointment{
		ID: "a1", BranchID: "b1", Date: testDate,
		Start: "09:00", End: "10:00", Status: StatusPending,
	})
	svc := NewService(repo, &recordingEvents{})

	require.NoError(t, svc.Cancel(context.Background(), "a1"))
	assert.Equal(t, StatusCancelled, repo.existing[0].Status)
}
