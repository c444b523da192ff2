package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrMarkInvoiceSentCommandIsNotConstructed = errors.New(
		"MarkInvoiceSentCommand must be created via NewMarkInvoiceSentCommand constructor",
	)
)

// MarkInvoiceSentCommand is sent by the invoicing collaborator once a document was delivered.
type MarkInvoiceSentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkInvoiceSentCommand(orderID kernel.UUID) (MarkInvoiceSentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkInvoiceSentCommand{}, err
	}
	return MarkInvoiceSentCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkInvoiceSentCommand) Validate() error {
	return c.guard.Validate(ErrMarkInvoiceSentCommandIsNotConstructed)
}

func (c MarkInvoiceSentCommand) OrderID() kernel.UUID {
	return c.orderID
}
