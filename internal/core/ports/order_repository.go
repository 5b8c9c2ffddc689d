package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// All status persistence flows through this interface; the core depends
// only on these operations, not on the underlying store.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus retrieves every order currently in the given status.
	// Used by the nearby-orders query (Confirmed) and the movement tick
	// (OutForDelivery); terminal orders naturally fall out of both.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetActiveForAgent retrieves the order the agent is currently
	// delivering (OutForDelivery with this agent assigned).
	// Returns an ObjectNotFoundError when the agent is idle, which is the
	// expected condition for accepting new work.
	GetActiveForAgent(ctx context.Context, agentID kernel.UUID) (*order.Order, error)
}
