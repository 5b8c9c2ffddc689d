package commands

import (
	"context"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// CompleteDeliveryCommandHandler finishes an active delivery.
// Delivery completion moves the order into the terminal "delivered" status,
// which frees the assigned agent for new work and ends live tracking.
type CompleteDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        Clock
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	now Clock,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
	}
}

// Handle processes the completion command.
// The transition to "delivered" is only valid from "out_for_delivery"; any
// other source status fails in the aggregate and rolls the transaction back.
// Publishes OrderStatusChanged and OrderDelivered after commit.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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
	deliveredAt := h.now()
	if err = anOrder.ChangeStatus(order.Delivered, deliveredAt); err != nil {
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
		Actor:   "agent",
		At:      deliveredAt,
	})
	h.publisher.Publish(events.TopicOrderDelivered, events.OrderDelivered{
		OrderID: anOrder.ID(),
		AgentID: anOrder.Agent(),
		At:      deliveredAt,
	})

	return nil
}
