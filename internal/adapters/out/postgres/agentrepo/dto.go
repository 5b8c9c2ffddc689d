// Package agentrepo provides data transfer objects and mapping functions for agent persistence.
// This package implements the repository pattern for the delivery agent aggregate, handling
// the conversion between domain entities and database representations.
package agentrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database structure for persisting agent aggregates.
type AgentDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Phone      string
	Lat        float64 `gorm:"type:double precision"`
	Lng        float64 `gorm:"type:double precision"`
	Active     bool    `gorm:"index"`
	LastSeenAt time.Time
}

// TableName specifies the database table name for agent entities.
// Overrides GORM's default naming convention to use "agents".
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent domain aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	return AgentDTO{
		ID:         aggregate.ID().Bytes(),
		Name:       aggregate.Name(),
		Phone:      aggregate.Phone(),
		Lat:        aggregate.Position().Lat(),
		Lng:        aggregate.Position().Lng(),
		Active:     aggregate.IsActive(),
		LastSeenAt: aggregate.LastSeenAt(),
	}
}

// toDomain converts a database DTO to an agent domain aggregate using RestoreAgent.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	position, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	return agent.RestoreAgent(id, dto.Name, dto.Phone, position, dto.Active, dto.LastSeenAt)
}
