package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
)

// MarkInvoiceSentCommandHandler sets the invoiceSent flag and records the change.
type MarkInvoiceSentCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewMarkInvoiceSentCommandHandler(uowFactory OrderUoWFactory, clock func() time.Time) MarkInvoiceSentCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return MarkInvoiceSentCommandHandler{uowFactory: uowFactory, now: clock}
}

func (h MarkInvoiceSentCommandHandler) Handle(ctx context.Context, cmd MarkInvoiceSentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := h.now()
	next := current.Clone()
	next.MarkInvoiceSent(now)

	if err = orderRepo.Update(ctx, next); err != nil {
		return err
	}

	if err = uow.OutboxRepository().Add(ctx, order.NewChangedEvent(next, order.ChangeInvoiceSent, nil, now)); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
