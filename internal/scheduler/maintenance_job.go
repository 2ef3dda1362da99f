package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/sdnwatch/internal/database"
	"github.com/rs/zerolog"
)

// maintenanceTimeout bounds one integrity check plus VACUUM
const maintenanceTimeout = 10 * time.Minute

// MaintenanceJob verifies the local object database and compacts it.
// Every run replaces the whole snapshot object, so freed pages accumulate.
type MaintenanceJob struct {
	log zerolog.Logger
	db  *database.DB
}

// NewMaintenanceJob creates a new MaintenanceJob
func NewMaintenanceJob(db *database.DB) *MaintenanceJob {
	return &MaintenanceJob{
		log: zerolog.Nop(),
		db:  db,
	}
}

// SetLogger sets the logger for the job
func (j *MaintenanceJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run checks integrity, then VACUUMs. A failed integrity check is returned
// and skips the VACUUM.
func (j *MaintenanceJob) Run() error {
	if j.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()

	startTime := time.Now()
	j.log.Info().Str("database", j.db.Name()).Msg("Starting database maintenance")

	if err := j.db.HealthCheck(ctx); err != nil {
		j.log.Error().Err(err).Str("database", j.db.Name()).Msg("Integrity check failed")
		return fmt.Errorf("maintenance aborted: %w", err)
	}

	before, err := j.db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read database stats: %w", err)
	}

	if err := j.db.Vacuum(ctx); err != nil {
		j.log.Error().Err(err).Str("database", j.db.Name()).Msg("VACUUM failed")
		return err
	}

	after, err := j.db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read database stats: %w", err)
	}

	sizeBefore := float64(before.PageCount*before.PageSize) / 1024 / 1024
	sizeAfter := float64(after.PageCount*after.PageSize) / 1024 / 1024

	j.log.Info().
		Str("database", j.db.Name()).
		Float64("size_before_mb", sizeBefore).
		Float64("size_after_mb", sizeAfter).
		Float64("space_reclaimed_mb", sizeBefore-sizeAfter).
		Dur("duration_ms", time.Since(startTime)).
		Msg("Database maintenance completed")

	return nil
}
