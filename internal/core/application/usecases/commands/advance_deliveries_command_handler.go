package commands

import (
	"context"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// moveFraction is the share of the remaining distance an agent covers per
// movement step. Remaining distance shrinks geometrically, so agents close
// in on the destination without overshooting.
const moveFraction = 0.1

// AdvanceDeliveriesCommandHandler orchestrates one movement step for every
// order currently out for delivery. Each assigned agent moves a fraction of
// the remaining distance toward the delivery location.
//
// Example:
//
//	handler := NewAdvanceDeliveriesCommandHandler(uowFactory, publisher, time.Now)
//	cmd := NewAdvanceDeliveriesCommand()
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("delivery advancement failed: %w", err)
//	}
//
//	// This would typically be called periodically by a scheduler
type AdvanceDeliveriesCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	now        Clock
}

// NewAdvanceDeliveriesCommandHandler creates a handler for the movement step.
// Requires a UoWFactory spanning both aggregates.
func NewAdvanceDeliveriesCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	now Clock,
) AdvanceDeliveriesCommandHandler {
	return AdvanceDeliveriesCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
	}
}

// Handle processes the movement command.
// Only orders in "out_for_delivery" are selected, so delivered and cancelled
// orders drop out of the simulation on their own; a step arriving after an
// order reaches a terminal status simply no longer sees it. All updates occur
// within a single transaction and location events are published only after
// commit.
func (h *AdvanceDeliveriesCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveriesCommand) error {
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

	activeOrders, err := orderRepo.GetAllInStatus(ctx, order.OutForDelivery)
	if err != nil {
		return err
	}

	stepAt := h.now()
	updates := make([]events.LiveLocationUpdate, 0, len(activeOrders))

	for _, activeOrder := range activeOrders {
		agentID := activeOrder.Agent()
		if agentID == nil {
			continue
		}

		anAgent, agentErr := agentRepo.Get(ctx, *agentID)
		if agentErr != nil {
			return agentErr
		}

		if err = anAgent.MoveToward(activeOrder.DeliveryLocation(), moveFraction, stepAt); err != nil {
			return err
		}

		if err = agentRepo.Update(ctx, anAgent); err != nil {
			return err
		}

		remainingKm, distErr := anAgent.Position().DistanceKm(activeOrder.DeliveryLocation())
		if distErr != nil {
			return distErr
		}

		updates = append(updates, events.LiveLocationUpdate{
			OrderID:     activeOrder.ID(),
			AgentID:     anAgent.ID(),
			Position:    anAgent.Position(),
			RemainingKm: remainingKm,
			At:          stepAt,
		})
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, update := range updates {
		h.publisher.Publish(events.TopicLiveLocationUpdate, update)
	}

	return nil
}
