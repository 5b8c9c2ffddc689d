package commands

import (
	"context"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/ports"
)

// ReportAgentLocationCommandHandler records an agent's reported position.
// The agent must already be registered; unknown agents are rejected with the
// repository's not-found error rather than silently created.
type ReportAgentLocationCommandHandler struct {
	uowFactory AgentUoWFactory
	publisher  ports.EventPublisher
	now        Clock
}

// NewReportAgentLocationCommandHandler creates a handler for agent position
// reports.
func NewReportAgentLocationCommandHandler(
	uowFactory AgentUoWFactory,
	publisher ports.EventPublisher,
	now Clock,
) ReportAgentLocationCommandHandler {
	return ReportAgentLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
	}
}

// Handle processes the position report.
// Updates the agent's position and last-seen time, marks the agent active,
// and publishes an AgentLocationUpdate event after commit.
func (h *ReportAgentLocationCommandHandler) Handle(ctx context.Context, cmd ReportAgentLocationCommand) error {
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
	anAgent, err := agentRepo.Get(ctx, cmd.AgentID())
	if err != nil {
		return err
	}

	reportedAt := h.now()
	if err = anAgent.ReportPosition(cmd.Position(), reportedAt); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, anAgent); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events.TopicAgentLocationUpdate, events.AgentLocationUpdate{
		AgentID:  anAgent.ID(),
		Position: anAgent.Position(),
		At:       reportedAt,
	})

	return nil
}
