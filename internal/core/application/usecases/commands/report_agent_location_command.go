package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrReportAgentLocationCommandIsNotConstructed = errors.New(
		"ReportAgentLocationCommand must be created via NewReportAgentLocationCommand constructor",
	)
)

// ReportAgentLocationCommand represents a position report from a delivery
// agent. Reporting a position also marks the agent as active.
type ReportAgentLocationCommand struct { //nolint:recvcheck //using for validation
	agentID  kernel.UUID
	position kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportAgentLocationCommand creates a command carrying a fresh agent
// position. Validates the agent ID and the reported coordinates.
func NewReportAgentLocationCommand(
	agentID kernel.UUID,
	position kernel.GeoPoint,
) (ReportAgentLocationCommand, error) {
	locationCommand := ReportAgentLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		locationCommand.setAgentID(agentID),
		locationCommand.setPosition(position),
	); err != nil {
		return ReportAgentLocationCommand{}, err
	}

	return locationCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportAgentLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportAgentLocationCommandIsNotConstructed)
}

// AgentID returns the identifier of the reporting agent.
func (c ReportAgentLocationCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Position returns the reported coordinates.
func (c ReportAgentLocationCommand) Position() kernel.GeoPoint {
	return c.position
}

func (c *ReportAgentLocationCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *ReportAgentLocationCommand) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	c.position = position
	return nil
}
