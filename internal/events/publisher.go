package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher drains pending outbox rows to Kafka. One writer serves every
// topic; the per-message Topic field routes records.
type Publisher struct {
	outbox   *Outbox
	writer   *kafka.Writer
	interval time.Duration
	batch    int
	lg       *zap.Logger
}

// NewPublisher creates a Publisher for the given brokers.
func NewPublisher(outbox *Outbox, brokers []string, interval time.Duration, lg *zap.Logger) *Publisher {
	return &Publisher{
		outbox: outbox,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
		interval: interval,
		batch:    100,
		lg:       lg,
	}
}

// Run polls the outbox until ctx is cancelled. Rows that fail to publish
// stay pending and are retried on the next tick.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.writer.Close()
		case <-ticker.C:
			if err := p.drain(ctx); err != nil && ctx.Err() == nil {
				p.lg.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

func (p *Publisher) drain(ctx context.Context) error {
	pending, err := p.outbox.FetchPending(ctx, p.batch)
	if err != nil {
		return err
	}

	for _, rec := range pending {
		msg := kafka.Message{
			Topic: rec.Topic,
			Key:   []byte(rec.Key),
			Value: rec.Payload,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(rec.EventID)},
			},
		}
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			// Leave the row pending; ordering per key is preserved because
			// FetchPending returns rows oldest first.
			return err
		}
		if err := p.outbox.MarkSent(ctx, rec.ID); err != nil {
			return err
		}
	}
	return nil
}
