// Package outboxrepo persists order change events next to the orders they describe, so an
// event is stored if and only if its order change commits.
package outboxrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MessageDTO is one row of the order_outbox table. ProcessedAt stays nil until the relay
// publishes the message.
type MessageDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AggregateID uuid.UUID      `gorm:"type:uuid;index"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time      `gorm:"not null;index"`
	ProcessedAt *time.Time     `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "order_outbox"
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:          id,
		AggregateID: aggregateID,
		EventType:   dto.EventType,
		Payload:     []byte(dto.Payload),
		OccurredAt:  dto.OccurredAt,
	}, nil
}
