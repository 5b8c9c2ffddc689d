package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/agent"
)

// RegisterAgentCommandHandler handles the business logic for agent registration.
// Newly registered agents are immediately active and eligible to accept orders.
type RegisterAgentCommandHandler struct {
	uowFactory AgentUoWFactory
	now        Clock
}

// NewRegisterAgentCommandHandler creates a handler for agent registration.
// Requires an AgentUoWFactory for transactional persistence and a Clock for
// stamping the agent's first seen time.
func NewRegisterAgentCommandHandler(uowFactory AgentUoWFactory, now Clock) RegisterAgentCommandHandler {
	return RegisterAgentCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the agent registration command.
// Creates an active agent at the starting position within a transaction.
func (h *RegisterAgentCommandHandler) Handle(ctx context.Context, cmd RegisterAgentCommand) error {
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

	newAgent, err := agent.NewAgent(cmd.AgentID(), cmd.Name(), cmd.Phone(), cmd.Position(), h.now())
	if err != nil {
		return err
	}

	if err = uow.AgentRepository().Add(ctx, newAgent); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
