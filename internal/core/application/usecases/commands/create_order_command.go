package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrFinalPriceIsInvalid = errors.New("final price must be greater than 0")
)

// CreateOrderCommand represents a request to register a new purchase order in status new.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("65000")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), price, "two boxes")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, time.Now)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	finalPrice kernel.Money
	notes      string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates that the order ID is valid and the final price is positive.
func NewCreateOrderCommand(orderID kernel.UUID, finalPrice kernel.Money, notes string) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setFinalPrice(finalPrice),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) FinalPrice() kernel.Money {
	return c.finalPrice
}

func (c CreateOrderCommand) Notes() string {
	return c.notes
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setFinalPrice(finalPrice kernel.Money) error {
	if err := finalPrice.Validate(); err != nil {
		return err
	}
	if !finalPrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("final price", ErrFinalPriceIsInvalid)
	}

	c.finalPrice = finalPrice
	return nil
}
