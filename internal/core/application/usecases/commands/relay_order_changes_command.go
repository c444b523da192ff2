package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrRelayOrderChangesCommandIsNotConstructed = errors.New(
		"RelayOrderChangesCommand must be created via NewRelayOrderChangesCommand constructor",
	)
)

const maxRelayBatchSize = 1000

// RelayOrderChangesCommand publishes up to BatchSize pending change events.
//
// Example:
//
//	cmd, _ := NewRelayOrderChangesCommand(100)
//	handler := NewRelayOrderChangesCommandHandler(uowFactory, publisher, time.Now)
//
//	// Run periodically to drain the outbox
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Relay failed: %v", err)
//	}
type RelayOrderChangesCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayOrderChangesCommand(batchSize int) (RelayOrderChangesCommand, error) {
	if batchSize <= 0 || batchSize > maxRelayBatchSize {
		return RelayOrderChangesCommand{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"batch size", batchSize, 1, maxRelayBatchSize,
			fmt.Errorf("%d is outside the allowed range", batchSize),
		)
	}
	return RelayOrderChangesCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOrderChangesCommand) Validate() error {
	return c.guard.Validate(ErrRelayOrderChangesCommandIsNotConstructed)
}

func (c RelayOrderChangesCommand) BatchSize() int {
	return c.batchSize
}
