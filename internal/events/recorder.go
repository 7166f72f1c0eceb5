package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/petfolk/pawmart/internal/domain/appointment"
	"github.com/petfolk/pawmart/internal/domain/order"
)

// OrderEvent is the payload published for order lifecycle events.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// AppointmentEvent is the payload published for appointment bookings.
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID string    `json:"appointment_id"`
	BranchID      string    `json:"branch_id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Recorder writes domain events to the outbox. Post-commit recordings log
// and swallow failures so an undelivered event never fails the customer
// operation; the Tx variants return the error and abort the transaction
// they ride in, keeping the event log consistent with the data.
type Recorder struct {
	outbox *Outbox
	lg     *zap.Logger
}

var (
	_ order.Events       = (*Recorder)(nil)
	_ appointment.Events = (*Recorder)(nil)
)

// NewRecorder creates a Recorder over the given outbox.
func NewRecorder(outbox *Outbox, lg *zap.Logger) *Recorder {
	return &Recorder{outbox: outbox, lg: lg}
}

func (r *Recorder) record(ctx context.Context, topic, key string, payload any) {
	if err := r.outbox.Insert(ctx, uuid.New().String(), topic, key, payload); err != nil {
		r.lg.Error("outbox insert failed", zap.String("topic", topic), zap.Error(err))
	}
}

// OrderPlacedTx records an order.placed event inside the order's own
// transaction.
func (r *Recorder) OrderPlacedTx(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	return r.outbox.InsertTx(ctx, tx, uuid.New().String(), TopicOrders, o.ID, OrderEvent{
		Type:        "order.placed",
		OrderID:     o.ID,
		UserID:      o.UserID,
		FinalAmount: o.FinalAmount,
		OccurredAt:  time.Now().UTC(),
	})
}

// OrderCancelled records an order.cancelled event.
func (r *Recorder) OrderCancelled(ctx context.Context, o *order.Order) {
	r.record(ctx, TopicOrders, o.ID, OrderEvent{
		Type:        "order.cancelled",
		OrderID:     o.ID,
		UserID:      o.UserID,
		FinalAmount: o.FinalAmount,
		OccurredAt:  time.Now().UTC(),
	})
}

// AppointmentBooked records an appointment.booked event.
func (r *Recorder) AppointmentBooked(ctx context.Context, a *appointment.Appointment) {
	r.record(ctx, TopicAppointments, a.ID, AppointmentEvent{
		Type:          "appointment.booked",
		AppointmentID: a.ID,
		BranchID:      a.BranchID,
		UserID:        a.UserID,
		Date:          a.Date.Format("2006-01-02"),
		Start:         a.Start,
		End:           a.End,
		OccurredAt:    time.Now().UTC(),
	})
}

// NoopRecorder drops every event. Used when eventing is disabled.
type NoopRecorder struct{}

var (
	_ order.Events       = NoopRecorder{}
	_ appointment.Events = NoopRecorder{}
)

func (NoopRecorder) OrderCancelled(context.Context, *order.Order)                {}
func (NoopRecorder) AppointmentBooked(context.Context, *appointment.Appointment) {}
