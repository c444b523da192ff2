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
	ErrExecuteBackwardTransitionCommandIsNotConstructed = errors.New(
		"ExecuteBackwardTransitionCommand must be created via NewExecuteBackwardTransitionCommand constructor",
	)
)

// ExecuteBackwardTransitionCommand asks to revert the latest stage of an order.
type ExecuteBackwardTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	transition order.Transition

	guard guard.ConstructorGuard
}

func NewExecuteBackwardTransitionCommand(
	orderID kernel.UUID,
	transition order.Transition,
) (ExecuteBackwardTransitionCommand, error) {
	cmd := ExecuteBackwardTransitionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransition(transition),
	); err != nil {
		return ExecuteBackwardTransitionCommand{}, err
	}

	return cmd, nil
}

func (c ExecuteBackwardTransitionCommand) Validate() error {
	return c.guard.Validate(ErrExecuteBackwardTransitionCommandIsNotConstructed)
}

func (c ExecuteBackwardTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ExecuteBackwardTransitionCommand) Transition() order.Transition {
	return c.transition
}

func (c *ExecuteBackwardTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ExecuteBackwardTransitionCommand) setTransition(t order.Transition) error {
	if err := errors.Join(t.From.Validate(), t.To.Validate()); err != nil {
		return err
	}
	if !t.Backward {
		return errs.NewValueIsInvalidErrorWithCause("transition", fmt.Errorf("%s is not a backward transition", t))
	}
	c.transition = t
	return nil
}
