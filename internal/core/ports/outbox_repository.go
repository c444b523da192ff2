package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OutboxMessage is a serialized change event waiting to be published.
type OutboxMessage struct {
	ID          kernel.UUID
	AggregateID kernel.UUID
	EventType   string
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository stores change events in the same transaction as the order they describe.
type OutboxRepository interface {
	// Add serializes event and stores it as unprocessed.
	Add(ctx context.Context, event order.ChangedEvent) error

	// GetUnprocessed returns up to limit unprocessed messages, oldest first.
	GetUnprocessed(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkProcessed flags the messages as published.
	MarkProcessed(ctx context.Context, ids []kernel.UUID, at time.Time) error
}
