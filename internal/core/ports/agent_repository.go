// Package ports defines the contracts between the domain core and
// infrastructure adapters: repositories, the unit of work, and the event
// publisher. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agent
// aggregates. Agents are never deleted, only deactivated, so there is no
// removal operation.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists changes to an existing agent aggregate.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent aggregate by its unique identifier.
	// Returns an ObjectNotFoundError when no agent has the id.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetAllActive retrieves every agent currently on duty.
	GetAllActive(ctx context.Context) ([]*agent.Agent, error)
}
