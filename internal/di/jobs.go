package di

import (
	"fmt"

	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/aristath/sdnwatch/internal/scheduler"
	"github.com/rs/zerolog"
)

// Queue sizing. A single reconcile worker serializes scheduled and manual runs;
// one pending run is enough since a later run sees the same upstream list.
const (
	reconcileWorkers = 1
	reconcileBuffer  = 1
	lookupBuffer     = 32
)

// RegisterJobs registers queue handlers and cron schedules
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	// Queue pools
	container.QueueManager = queue.NewManager(log)
	container.QueueManager.SetMetrics(container.Metrics)
	container.QueueManager.Register(queue.JobTypeReconcile, reconcileWorkers, reconcileBuffer,
		container.ReconciliationService.HandleJob)
	container.QueueManager.Register(queue.JobTypeLookup, cfg.LookupWorkers, lookupBuffer,
		container.LookupService.HandleJob)

	// Cron schedules
	container.Scheduler = scheduler.New(log)

	reconcileJob := scheduler.NewReconcileJob(container.QueueManager)
	reconcileJob.SetLogger(log)
	if err := container.Scheduler.AddJob(cfg.Schedule.Reconcile, reconcileJob); err != nil {
		return fmt.Errorf("failed to register reconcile job: %w", err)
	}

	// Database maintenance only applies to the local database
	if container.DB != nil {
		walJob := scheduler.NewCheckWALCheckpointsJob(container.DB)
		walJob.SetLogger(log)
		if err := container.Scheduler.AddJob(cfg.Schedule.WALCheckpoint, walJob); err != nil {
			return fmt.Errorf("failed to register WAL checkpoint job: %w", err)
		}

		maintenanceJob := scheduler.NewMaintenanceJob(container.DB)
		maintenanceJob.SetLogger(log)
		if err := container.Scheduler.AddJob(cfg.Schedule.Maintenance, maintenanceJob); err != nil {
			return fmt.Errorf("failed to register maintenance job: %w", err)
		}
	}

	log.Info().
		Int("lookup_workers", cfg.LookupWorkers).
		Str("reconcile_schedule", cfg.Schedule.Reconcile).
		Msg("Jobs registered")

	return nil
}
