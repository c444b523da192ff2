package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrExecuteForwardTransitionCommandIsNotConstructed = errors.New(
		"ExecuteForwardTransitionCommand must be created via NewExecuteForwardTransitionCommand constructor",
	)
)

// ExecuteForwardTransitionCommand asks to move an order forward along one catalog transition
// with the input that transition captures.
//
// Example:
//
//	t, _ := order.DefaultCatalog().Lookup(order.New, order.InputPaymentConfirmation, false)
//	cmd, err := NewExecuteForwardTransitionCommand(orderID, t, order.TransitionInput{
//	    Amount: decimal.NewFromInt(30000),
//	    Method: order.PaymentCash,
//	})
type ExecuteForwardTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	transition order.Transition
	input      order.TransitionInput

	guard guard.ConstructorGuard
}

func NewExecuteForwardTransitionCommand(
	orderID kernel.UUID,
	transition order.Transition,
	input order.TransitionInput,
) (ExecuteForwardTransitionCommand, error) {
	cmd := ExecuteForwardTransitionCommand{
		input: input,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransition(transition),
	); err != nil {
		return ExecuteForwardTransitionCommand{}, err
	}

	return cmd, nil
}

func (c ExecuteForwardTransitionCommand) Validate() error {
	return c.guard.Validate(ErrExecuteForwardTransitionCommandIsNotConstructed)
}

func (c ExecuteForwardTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ExecuteForwardTransitionCommand) Transition() order.Transition {
	return c.transition
}

func (c ExecuteForwardTransitionCommand) Input() order.TransitionInput {
	return c.input
}

func (c *ExecuteForwardTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ExecuteForwardTransitionCommand) setTransition(t order.Transition) error {
	if err := errors.Join(t.From.Validate(), t.To.Validate(), t.Kind.Validate()); err != nil {
		return err
	}
	if t.Backward {
		return errs.NewValueIsInvalidErrorWithCause("transition", fmt.Errorf("%s is not a forward transition", t))
	}
	c.transition = t
	return nil
}
