package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrRegisterAgentCommandIsNotConstructed = errors.New(
		"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
	)
	ErrAgentNameIsRequired  = errors.New("agent name is required")
	ErrAgentPhoneIsRequired = errors.New("agent phone is required")
)

// RegisterAgentCommand represents a request to register a new delivery agent.
// The agent enters the fleet as active at the given starting position.
type RegisterAgentCommand struct { //nolint:recvcheck //using for validation
	agentID  kernel.UUID
	name     string
	phone    string
	position kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRegisterAgentCommand creates a command to register a delivery agent.
// Validates that the agent ID and position are valid and that name and phone
// are not empty.
func NewRegisterAgentCommand(
	agentID kernel.UUID,
	name string,
	phone string,
	position kernel.GeoPoint,
) (RegisterAgentCommand, error) {
	agentCommand := RegisterAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agentCommand.setAgentID(agentID),
		agentCommand.setName(name),
		agentCommand.setPhone(phone),
		agentCommand.setPosition(position),
	); err != nil {
		return RegisterAgentCommand{}, err
	}

	return agentCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

// AgentID returns the unique identifier for the agent.
func (c RegisterAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Name returns the agent's display name.
func (c RegisterAgentCommand) Name() string {
	return c.name
}

// Phone returns the agent's contact phone number.
func (c RegisterAgentCommand) Phone() string {
	return c.phone
}

// Position returns the agent's starting coordinates.
func (c RegisterAgentCommand) Position() kernel.GeoPoint {
	return c.position
}

func (c *RegisterAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *RegisterAgentCommand) setName(name string) error {
	if name == "" {
		return ErrAgentNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterAgentCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrAgentPhoneIsRequired
	}

	c.phone = phone
	return nil
}

func (c *RegisterAgentCommand) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	c.position = position
	return nil
}
