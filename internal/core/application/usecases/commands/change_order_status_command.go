package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// lifecycle status. The transition itself is validated by the order aggregate
// against the status graph; the command only carries a well-formed request.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Confirmed, "restaurant")
//	if err != nil {
//	    return fmt.Errorf("invalid status change: %w", err)
//	}
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, publisher, time.Now)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("status change failed: %w", err)
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to change an order's status.
// Validates the order ID, that the target status is a known status, and that
// an actor (who is making the change) is named.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	actor string,
) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setTarget(target),
		statusCommand.setActor(actor),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// NewConfirmOrderCommand creates a command moving an order to "confirmed".
func NewConfirmOrderCommand(orderID kernel.UUID, actor string) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(orderID, order.Confirmed, actor)
}

// NewStartPreparingCommand creates a command moving an order to "preparing".
func NewStartPreparingCommand(orderID kernel.UUID, actor string) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(orderID, order.Preparing, actor)
}

// NewMarkReadyForDeliveryCommand creates a command moving an order to
// "ready_for_delivery".
func NewMarkReadyForDeliveryCommand(orderID kernel.UUID, actor string) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(orderID, order.ReadyForDelivery, actor)
}

// NewMarkOutForDeliveryCommand creates a command moving an order to
// "out_for_delivery". Used by the admin-facing flow; agents dispatch
// themselves through AcceptOrderCommand instead.
func NewMarkOutForDeliveryCommand(orderID kernel.UUID, actor string) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(orderID, order.OutForDelivery, actor)
}

// NewCancelOrderCommand creates a command moving an order to "cancelled".
func NewCancelOrderCommand(orderID kernel.UUID, actor string) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(orderID, order.Cancelled, actor)
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested destination status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// Actor returns who requested the transition, recorded on the emitted event.
func (c ChangeOrderStatusCommand) Actor() string {
	return c.actor
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
