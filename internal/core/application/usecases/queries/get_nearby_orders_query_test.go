package queries_test

import (
	"testing"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetNearbyOrdersQuery_ValidInput(t *testing.T) {
	agentID := kernel.NewUUID()

	query, err := queries.NewGetNearbyOrdersQuery(agentID, queries.DefaultNearbyRadiusKm)
	require.NoError(t, err)
	assert.Equal(t, agentID, query.AgentID())
	assert.InDelta(t, 10.0, query.RadiusKm(), 1e-9)
}

func TestNewGetNearbyOrdersQuery_InvalidAgentID(t *testing.T) {
	_, err := queries.NewGetNearbyOrdersQuery(kernel.UUID{}, 10)
	require.Error(t, err)
}

func TestNewGetNearbyOrdersQuery_NonPositiveRadius(t *testing.T) {
	agentID := kernel.NewUUID()

	for _, radius := range []float64{0, -1} {
		_, err := queries.NewGetNearbyOrdersQuery(agentID, radius)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	}
}

func TestGetNearbyOrdersQuery_NotConstructed(t *testing.T) {
	query := queries.GetNearbyOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetNearbyOrdersQueryIsNotConstructed)
}
