package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order placement.
// New orders start in "pending" status awaiting restaurant confirmation.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, time.Now)
//	cmd, _ := NewCreateOrderCommand(orderID, "Jane Doe", "+1-555-0101", "456 Oak Ave", location, items)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        Clock
}

// NewCreateOrderCommandHandler creates a handler for order placement operations.
// Requires an OrderUoWFactory for transactional persistence and a Clock for
// stamping creation time.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, now Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the order placement command.
// Creates the order in "pending" status within a transaction so the order is
// either fully persisted or rolled back on error.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerName(),
		cmd.CustomerPhone(),
		cmd.DeliveryAddress(),
		cmd.DeliveryLocation(),
		cmd.Items(),
		h.now(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
