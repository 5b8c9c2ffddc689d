package commands

import (
	"context"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/ports"
)

// ChangeOrderStatusCommandHandler handles order lifecycle transitions.
// Loads the order, applies the transition through the aggregate's status
// graph, persists the result, and publishes an OrderStatusChanged event
// after the transaction commits.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        Clock
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	now Clock,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
	}
}

// Handle processes the status change command.
// Invalid transitions (terminal source, edge not in the status graph) are
// rejected by the aggregate and roll the transaction back. The event is
// published only after a successful commit so subscribers never observe a
// transition that was rolled back.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	anOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := anOrder.Status()
	changedAt := h.now()
	if err = anOrder.ChangeStatus(cmd.Target(), changedAt); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, anOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events.TopicOrderStatusChanged, events.OrderStatusChanged{
		OrderID: anOrder.ID(),
		From:    from,
		To:      anOrder.Status(),
		Actor:   cmd.Actor(),
		At:      changedAt,
	})

	return nil
}
