package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
)

// CreateOrderCommandHandler creates new orders in status new and records a created event.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// A nil clock falls back to time.Now.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, clock func() time.Time) CreateOrderCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        clock,
	}
}

// Handle persists the new order and its created event in one transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.now()
	created, err := order.NewOrder(cmd.OrderID(), cmd.FinalPrice(), cmd.Notes(), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return err
	}

	event := order.NewChangedEvent(created, order.ChangeCreated, nil, now)
	if err = uow.OutboxRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
