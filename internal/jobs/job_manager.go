package jobs

import (
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/tracking"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	deliveryMovementJob   *DeliveryMovementJob
	trackingSimulationJob *TrackingSimulationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the movement command handler and the tracking simulator as
// dependencies to wire up the job execution.
func NewJobManager(
	advanceDeliveriesHandler commands.AdvanceDeliveriesCommandHandler,
	simulator *tracking.Simulator,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		deliveryMovementJob:   NewDeliveryMovementJob(advanceDeliveriesHandler, logger),
		trackingSimulationJob: NewTrackingSimulationJob(simulator, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.deliveryMovementJob.Start(); err != nil {
		return fmt.Errorf("failed to start delivery movement job: %w", err)
	}

	if err := jm.trackingSimulationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.deliveryMovementJob.Stop()
		return fmt.Errorf("failed to start tracking simulation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingSimulationJob.Stop()
	jm.deliveryMovementJob.Stop()
}
