package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrGetActiveAgentsQueryIsNotConstructed = errors.New(
		"GetActiveAgentsQuery must be created via NewGetActiveAgentsQuery constructor",
	)
)

// GetActiveAgentsQuery retrieves all agents currently on duty.
// Returns agent identities and current positions for fleet monitoring.
//
// Example:
//
//	query := NewGetActiveAgentsQuery()
//	handler := NewGetActiveAgentsQueryHandler(db)
//
//	agents, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve agents: %w", err)
//	}
//
//	for _, a := range agents {
//	    fmt.Printf("Agent %s at %s\n", a.Name, a.Position)
//	}
type GetActiveAgentsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveAgentsQuery creates a query to retrieve active agents.
func NewGetActiveAgentsQuery() GetActiveAgentsQuery {
	return GetActiveAgentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveAgentsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveAgentsQueryIsNotConstructed)
}

// GetActiveAgentsQueryResponse represents one on-duty delivery agent.
type GetActiveAgentsQueryResponse struct {
	ID         kernel.UUID
	Name       string
	Phone      string
	Position   kernel.GeoPoint
	LastSeenAt time.Time
}
