package services_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner() services.RoutePlanner {
	return services.NewRoutePlanner(rand.New(rand.NewPCG(1, 2)))
}

func endpoints(t *testing.T) (kernel.GeoPoint, kernel.GeoPoint) {
	t.Helper()
	from, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)
	to, err := kernel.NewGeoPoint(12.9352, 77.6245)
	require.NoError(t, err)
	return from, to
}

func TestRoutePlanner_PlanRoutes(t *testing.T) {
	t.Run("generates three variants with exact endpoints", func(t *testing.T) {
		planner := newPlanner()
		from, to := endpoints(t)

		plan, err := planner.PlanRoutes(from, to)
		require.NoError(t, err)

		for _, variant := range [][]kernel.GeoPoint{plan.Direct, plan.Optimized, plan.Alternate} {
			require.NotEmpty(t, variant)

			first, err := variant[0].IsEqual(from)
			require.NoError(t, err)
			assert.True(t, first, "route must start at the agent position")

			last, err := variant[len(variant)-1].IsEqual(to)
			require.NoError(t, err)
			assert.True(t, last, "route must end at the customer position")
		}
	})

	t.Run("direct variant is a straight interpolation", func(t *testing.T) {
		planner := newPlanner()
		from, to := endpoints(t)

		plan, err := planner.PlanRoutes(from, to)
		require.NoError(t, err)

		for i, point := range plan.Direct {
			fraction := float64(i) / float64(len(plan.Direct)-1)
			assert.InDelta(t, from.Lat()+(to.Lat()-from.Lat())*fraction, point.Lat(), 1e-9)
			assert.InDelta(t, from.Lng()+(to.Lng()-from.Lng())*fraction, point.Lng(), 1e-9)
		}
	})

	t.Run("jittered variants stay near the direct line", func(t *testing.T) {
		planner := newPlanner()
		from, to := endpoints(t)

		plan, err := planner.PlanRoutes(from, to)
		require.NoError(t, err)

		for i := range plan.Direct {
			assert.InDelta(t, plan.Direct[i].Lat(), plan.Optimized[i].Lat(), 0.002)
			assert.InDelta(t, plan.Direct[i].Lng(), plan.Optimized[i].Lng(), 0.002)
			assert.InDelta(t, plan.Direct[i].Lat(), plan.Alternate[i].Lat(), 0.004)
			assert.InDelta(t, plan.Direct[i].Lng(), plan.Alternate[i].Lng(), 0.004)
		}
	})

	t.Run("rejects zero value endpoints", func(t *testing.T) {
		planner := newPlanner()
		from, _ := endpoints(t)

		_, err := planner.PlanRoutes(from, kernel.GeoPoint{})

		require.Error(t, err)
		require.ErrorIs(t, err, services.ErrRouteEndpointsRequired)
	})
}

func TestRoutePlanner_Step(t *testing.T) {
	t.Run("moves the expected distance toward the target", func(t *testing.T) {
		planner := newPlanner()
		from, to := endpoints(t)

		moved, err := planner.Step(from, to, 30, 5*time.Minute)
		require.NoError(t, err)

		travelled, err := from.DistanceKm(moved)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, travelled, 1e-6, "30 km/h over 5 minutes is 2.5 km")

		before, err := from.DistanceKm(to)
		require.NoError(t, err)
		after, err := moved.DistanceKm(to)
		require.NoError(t, err)
		assert.Less(t, after, before)
	})

	t.Run("arrives exactly when the step overshoots", func(t *testing.T) {
		planner := newPlanner()
		from, to := endpoints(t)

		moved, err := planner.Step(from, to, 120, 2*time.Hour)
		require.NoError(t, err)

		equal, err := moved.IsEqual(to)
		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("zero speed stays put", func(t *testing.T) {
		planner := newPlanner()
		from, to := endpoints(t)

		moved, err := planner.Step(from, to, 0, time.Minute)
		require.NoError(t, err)

		travelled, err := from.DistanceKm(moved)
		require.NoError(t, err)
		assert.InDelta(t, 0, travelled, 1e-9)
	})
}
