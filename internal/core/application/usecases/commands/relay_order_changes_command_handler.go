package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

// RelayOrderChangesCommandHandler drains the outbox into the change publisher.
// Messages are marked processed only after a successful publish, so delivery is at least once.
type RelayOrderChangesCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.OrderChangedPublisher
	now        func() time.Time
}

func NewRelayOrderChangesCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.OrderChangedPublisher,
	clock func() time.Time,
) RelayOrderChangesCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return RelayOrderChangesCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        clock,
	}
}

// Handle publishes one batch and returns how many messages were relayed.
func (h RelayOrderChangesCommandHandler) Handle(ctx context.Context, cmd RelayOrderChangesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	messages, err := outbox.GetUnprocessed(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	if err = h.publisher.Publish(ctx, messages...); err != nil {
		return 0, err
	}

	ids := make([]kernel.UUID, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	if err = outbox.MarkProcessed(ctx, ids, h.now()); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(messages), nil
}
