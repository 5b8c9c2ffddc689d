package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveAgentsQueryHandler retrieves on-duty agents from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetActiveAgentsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveAgentsQueryHandler creates a handler for active-agent queries.
// Requires a GORM database connection for query execution.
func NewGetActiveAgentsQueryHandler(db *gorm.DB) GetActiveAgentsQueryHandler {
	return GetActiveAgentsQueryHandler{db: db}
}

// Handle executes the query to retrieve all active agents.
// Returns a slice of agent read models sorted by name.
func (h GetActiveAgentsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveAgentsQuery,
) ([]GetActiveAgentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agents := make([]GetActiveAgentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			lat,
			lng,
			last_seen_at
		FROM agents
		WHERE active
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var agentResp GetActiveAgentsQueryResponse
		var lat, lng float64
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&agentResp.Name,
			&agentResp.Phone,
			&lat,
			&lng,
			&agentResp.LastSeenAt,
		)
		if err != nil {
			return nil, err
		}

		agentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		agentResp.ID = agentID

		position, posErr := kernel.NewGeoPoint(lat, lng)
		if posErr != nil {
			return nil, posErr
		}
		agentResp.Position = position

		agents = append(agents, agentResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}
