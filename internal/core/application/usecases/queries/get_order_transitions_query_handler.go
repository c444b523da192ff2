package queries

import (
	"context"

	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// GetOrderTransitionsQueryHandler loads one order and asks OrderLifecycle for its options.
type GetOrderTransitionsQueryHandler struct {
	orders    ports.OrderRepository
	lifecycle services.OrderLifecycle
}

func NewGetOrderTransitionsQueryHandler(
	orders ports.OrderRepository,
	lifecycle services.OrderLifecycle,
) GetOrderTransitionsQueryHandler {
	return GetOrderTransitionsQueryHandler{orders: orders, lifecycle: lifecycle}
}

func (h GetOrderTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTransitionsQuery,
) (GetOrderTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTransitionsQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderTransitionsQueryResponse{}, err
	}

	resp := GetOrderTransitionsQueryResponse{
		OrderID:         o.ID(),
		Status:          o.Status(),
		EffectiveStatus: h.lifecycle.EffectiveStatus(o),
		Forward:         h.lifecycle.AvailableTransitions(o),
		Backward:        h.lifecycle.AvailableBackwardTransitions(o),
	}
	if t, ok := h.lifecycle.AutoAdvance(o); ok {
		resp.AutoAdvance = &t
	}

	return resp, nil
}
