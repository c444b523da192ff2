package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetUndeliveredOrdersQueryIsNotConstructed = errors.New(
		"GetUndeliveredOrdersQuery must be created via NewGetUndeliveredOrdersQuery constructor",
	)
)

// GetUndeliveredOrdersQuery retrieves every order that has not reached delivered.
// It backs the dashboard order list.
//
// Example:
//
//	query := NewGetUndeliveredOrdersQuery()
//	handler := NewGetUndeliveredOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get orders: %w", err)
//	}
//
//	for _, o := range orders {
//	    fmt.Printf("%s %s paid %s of %s\n", o.ID, o.EffectiveStatus, o.PaidAmount, o.FinalPrice)
//	}
type GetUndeliveredOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetUndeliveredOrdersQuery() GetUndeliveredOrdersQuery {
	return GetUndeliveredOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUndeliveredOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUndeliveredOrdersQueryIsNotConstructed)
}

// GetUndeliveredOrdersQueryResponse is one row of the order list.
type GetUndeliveredOrdersQueryResponse struct {
	ID              kernel.UUID
	Status          order.Status
	EffectiveStatus order.Status
	FinalPrice      kernel.Money
	PaidAmount      kernel.Money
	UpdatedAt       time.Time
}
