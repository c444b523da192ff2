package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add serializes event as JSON and stores it unprocessed.
func (r *GormOutboxRepository) Add(ctx context.Context, event order.ChangedEvent) error {
	id, err := kernel.UUIDFromString(event.EventID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("event id", err)
	}

	aggregateID, err := kernel.UUIDFromString(event.OrderID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("order id", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	dto := MessageDTO{
		ID:          id.Bytes(),
		AggregateID: aggregateID.Bytes(),
		EventType:   event.EventType(),
		Payload:     payload,
		OccurredAt:  event.OccurredAt,
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetUnprocessed locks and returns up to limit unprocessed messages, oldest first.
// Rows locked by a concurrent relay are skipped.
func (r *GormOutboxRepository) GetUnprocessed(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("processed_at IS NULL").
		Order("occurred_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		m, mapErr := toMessage(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		messages = append(messages, m)
	}

	return messages, nil
}

// MarkProcessed stamps the messages with the publish time.
func (r *GormOutboxRepository) MarkProcessed(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", raw).
		Update("processed_at", at).Error
}
