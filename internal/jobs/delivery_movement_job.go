package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DeliveryMovementJob manages the scheduled movement of delivery agents.
// Runs every 3 seconds to advance agents on active deliveries toward
// their customers.
type DeliveryMovementJob struct {
	handler commands.AdvanceDeliveriesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDeliveryMovementJob creates a new job for moving delivery agents.
// Uses AdvanceDeliveriesCommandHandler to process agent movements.
func NewDeliveryMovementJob(
	handler commands.AdvanceDeliveriesCommandHandler,
	logger *slog.Logger,
) *DeliveryMovementJob {
	return &DeliveryMovementJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "delivery_movement_job"),
	}
}

// Start begins the delivery movement job to run every 3 seconds.
func (j *DeliveryMovementJob) Start() error {
	_, err := j.cron.AddFunc("*/3 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAdvanceDeliveriesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Delivery movement job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery movement job started (running every 3 seconds)")
	return nil
}

// Stop stops the delivery movement job.
func (j *DeliveryMovementJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delivery movement job stopped")
}
