package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/tracking"

	"github.com/robfig/cron/v3"
)

// TrackingSimulationJob manages the shared tick of the enhanced tracking
// simulation. Runs every 5 seconds to advance all tracked orders.
type TrackingSimulationJob struct {
	simulator *tracking.Simulator
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewTrackingSimulationJob creates a new job driving the tracking simulator.
func NewTrackingSimulationJob(
	simulator *tracking.Simulator,
	logger *slog.Logger,
) *TrackingSimulationJob {
	return &TrackingSimulationJob{
		simulator: simulator,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "tracking_simulation_job"),
	}
}

// Start begins the tracking simulation job to run every 5 seconds.
func (j *TrackingSimulationJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		j.simulator.Tick()
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking simulation job started (running every 5 seconds)")
	return nil
}

// Stop stops the tracking simulation job.
func (j *TrackingSimulationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking simulation job stopped")
}
