package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetOrderTransitionsQueryIsNotConstructed = errors.New(
		"GetOrderTransitionsQuery must be created via NewGetOrderTransitionsQuery constructor",
	)
)

// GetOrderTransitionsQuery asks which transitions one order may take next.
type GetOrderTransitionsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderTransitionsQuery(orderID kernel.UUID) (GetOrderTransitionsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTransitionsQuery{}, err
	}
	return GetOrderTransitionsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTransitionsQueryIsNotConstructed)
}

func (q GetOrderTransitionsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderTransitionsQueryResponse lists the legal moves for an order.
// AutoAdvance is set when the only forward transition needs no input.
type GetOrderTransitionsQueryResponse struct {
	OrderID         kernel.UUID
	Status          order.Status
	EffectiveStatus order.Status
	Forward         []order.Transition
	Backward        []order.Transition
	AutoAdvance     *order.Transition
}
