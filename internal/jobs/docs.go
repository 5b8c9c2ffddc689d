// Package jobs provides scheduled background tasks for the delivery system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the delivery service.
//
// # Available Jobs
//
// 1. DeliveryMovementJob - Runs every 3 seconds to move agents on active deliveries toward their customers
// 2. TrackingSimulationJob - Runs every 5 seconds to advance the enhanced tracking simulation
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(advanceDeliveriesHandler, simulator, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The movement job uses the cron expression "*/3 * * * * *" (every 3 seconds)
// and the simulation job uses "*/5 * * * * *" (every 5 seconds). The two run
// on independent schedules; neither waits for the other.
//
// # Error Handling
//
// - The movement job logs all errors as they indicate system issues
// - The simulation job never fails; per-order problems are logged by the simulator itself
// - Failed job starts will stop any already running jobs
package jobs
