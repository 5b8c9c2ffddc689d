package commands

import (
	"context"
	"errors"
	"fmt"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ErrAgentHasActiveDelivery indicates the agent already carries an
// undelivered order and cannot accept another.
var ErrAgentHasActiveDelivery = errors.New("agent already has an active delivery")

// AcceptOrderCommandHandler handles an agent taking an order out for delivery.
// Enforces single-delivery exclusivity: an agent with an active delivery is
// rejected before the order is touched.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	now        Clock
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
// Requires a UoWFactory spanning both aggregates because acceptance reads the
// agent and writes the order in one transaction.
func NewAcceptOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	now Clock,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
	}
}

// Handle processes the acceptance command.
// Verifies the agent exists and is idle, then assigns the agent and moves the
// order to "out_for_delivery" through the aggregate's transition rules.
// Publishes OrderStatusChanged and OrderAccepted after commit.
func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
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

	agentRepo := uow.AgentRepository()
	orderRepo := uow.OrderRepository()

	anAgent, err := agentRepo.Get(ctx, cmd.AgentID())
	if err != nil {
		return err
	}

	// Idle is signalled by a not-found active order.
	_, err = orderRepo.GetActiveForAgent(ctx, anAgent.ID())
	if err == nil {
		return fmt.Errorf("%w: %s", ErrAgentHasActiveDelivery, anAgent.ID())
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	anOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := anOrder.Status()
	acceptedAt := h.now()
	if err = anOrder.AssignAgent(anAgent.ID(), acceptedAt); err != nil {
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
		Actor:   anAgent.Name(),
		At:      acceptedAt,
	})
	h.publisher.Publish(events.TopicOrderAccepted, events.OrderAccepted{
		OrderID: anOrder.ID(),
		AgentID: anAgent.ID(),
		At:      acceptedAt,
	})

	return nil
}
