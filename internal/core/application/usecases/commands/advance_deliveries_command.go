package commands

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

var ErrAdvanceDeliveriesCommandIsNotConstructed = errors.New(
	"AdvanceDeliveriesCommand must be created via NewAdvanceDeliveriesCommand constructor",
)

// AdvanceDeliveriesCommand triggers one simulation step for every active
// delivery. It carries no parameters; the handler discovers the work itself.
type AdvanceDeliveriesCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewAdvanceDeliveriesCommand creates a command to advance all active
// deliveries by one movement step.
func NewAdvanceDeliveriesCommand() AdvanceDeliveriesCommand {
	return AdvanceDeliveriesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AdvanceDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveriesCommandIsNotConstructed)
}
