package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
)

// ExecuteTransitionCommandHandler runs forward and backward transitions. Each call loads
// the order, lets OrderLifecycle produce the next order, stores it and records one change
// event, all inside one transaction.
//
// Example:
//
//	handler := NewExecuteTransitionCommandHandler(uowFactory, lifecycle, logger)
//	next, err := handler.HandleForward(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInputIsIncomplete):
//	    // Ask again for the fields listed in the error
//	case errors.Is(err, errs.ErrTransitionIsIllegal):
//	    // The order moved on; reload the available transitions
//	case err != nil:
//	    return err
//	}
type ExecuteTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

func NewExecuteTransitionCommandHandler(
	uowFactory OrderUoWFactory,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) ExecuteTransitionCommandHandler {
	return ExecuteTransitionCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		logger:     logger.With("component", "ExecuteTransitionCommandHandler"),
	}
}

// HandleForward executes a forward transition and returns the stored order.
func (h ExecuteTransitionCommandHandler) HandleForward(
	ctx context.Context,
	cmd ExecuteForwardTransitionCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t := cmd.Transition()
	return h.handle(ctx, cmd.OrderID(), t, order.ChangeForward, func(current *order.Order) (*order.Order, error) {
		return h.lifecycle.ExecuteForward(current, t, cmd.Input())
	})
}

// HandleBackward executes a backward transition and returns the stored order.
func (h ExecuteTransitionCommandHandler) HandleBackward(
	ctx context.Context,
	cmd ExecuteBackwardTransitionCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t := cmd.Transition()
	return h.handle(ctx, cmd.OrderID(), t, order.ChangeBackward, func(current *order.Order) (*order.Order, error) {
		return h.lifecycle.ExecuteBackward(current, t)
	})
}

func (h ExecuteTransitionCommandHandler) handle(
	ctx context.Context,
	orderID kernel.UUID,
	t order.Transition,
	change order.ChangeKind,
	execute func(*order.Order) (*order.Order, error),
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := execute(current)
	if err != nil {
		if errors.Is(err, errs.ErrInvariantIsViolated) {
			h.logger.ErrorContext(ctx, "order invariant violated",
				"order_id", orderID.String(),
				"transition", t.String(),
				"error", err)
		}
		return nil, err
	}

	if err = orderRepo.Update(ctx, next); err != nil {
		return nil, err
	}

	event := order.NewChangedEvent(next, change, &t, next.UpdatedAt())
	if err = uow.OutboxRepository().Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order transition executed",
		"order_id", orderID.String(),
		"transition", t.String(),
		"status", next.Status().String(),
		"effective_status", next.EffectiveStatus().String(),
		"invoice_requested", event.InvoiceRequested)

	return next, nil
}
