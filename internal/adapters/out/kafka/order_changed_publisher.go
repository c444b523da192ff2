// Package kafka publishes order change events to a Kafka topic.
package kafka

import (
	"context"
	"time"

	"orderflow/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

const (
	headerEventType = "event-type"
	headerEventID   = "event-id"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderChangedPublisher writes outbox messages to one topic. Messages are keyed by order
// ID and hash-balanced, so every event of one order lands on the same partition in order.
type OrderChangedPublisher struct {
	writer messageWriter
}

// NewOrderChangedPublisher creates a publisher backed by a kafka.Writer.
func NewOrderChangedPublisher(brokers []string, topic string) *OrderChangedPublisher {
	return NewOrderChangedPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	})
}

// NewOrderChangedPublisherWithWriter wraps an existing writer.
func NewOrderChangedPublisherWithWriter(writer messageWriter) *OrderChangedPublisher {
	return &OrderChangedPublisher{writer: writer}
}

// Publish writes all messages in one batch and returns once the brokers acknowledged them.
func (p *OrderChangedPublisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, kafka.Message{
			Key:   []byte(m.AggregateID.String()),
			Value: m.Payload,
			Headers: []kafka.Header{
				{Key: headerEventType, Value: []byte(m.EventType)},
				{Key: headerEventID, Value: []byte(m.ID.String())},
			},
			Time: m.OccurredAt,
		})
	}

	return p.writer.WriteMessages(ctx, batch...)
}

func (p *OrderChangedPublisher) Close() error {
	return p.writer.Close()
}

var _ ports.OrderChangedPublisher = (*OrderChangedPublisher)(nil)
