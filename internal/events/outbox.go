// Package events implements the transactional outbox and its Kafka
// publisher. Domain services record events through the Recorder; a
// background poller drains pending rows to the broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Topics for published events.
const (
	TopicOrders       = "pawmart.orders"
	TopicAppointments = "pawmart.appointments"
)

// Record is one outbox row.
type Record struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	Payload   json.RawMessage
	CreatedAt time.Time
	SentAt    *time.Time
}

// Outbox reads and writes the outbox table.
type Outbox struct {
	pool *pgxpool.Pool
}

// NewOutbox creates an Outbox on the given pool.
func NewOutbox(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

// execer is the exec surface shared by *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert stores a pending event.
func (o *Outbox) Insert(ctx context.Context, eventID, topic, key string, payload any) error {
	return insert(ctx, o.pool, eventID, topic, key, payload)
}

// InsertTx stores a pending event inside the caller's transaction, so the
// event commits or rolls back together with the rows it describes.
func (o *Outbox) InsertTx(ctx context.Context, tx pgx.Tx, eventID, topic, key string, payload any) error {
	return insert(ctx, tx, eventID, topic, key, payload)
}

func insert(ctx context.Context, db execer, eventID, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx,
		`INSERT INTO outbox (event_id, topic, key, payload) VALUES ($1, $2, $3, $4)`,
		eventID, topic, key, data)
	return err
}

// FetchPending returns up to limit unsent rows, oldest first.
func (o *Outbox) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	rows, err := o.pool.Query(ctx,
		`SELECT id, event_id, topic, key, payload, created_at, sent_at
		 FROM outbox WHERE sent_at IS NULL ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkSent stamps a row as published.
func (o *Outbox) MarkSent(ctx context.Context, id int64) error {
	_, err := o.pool.Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = $1`, id)
	return err
}
