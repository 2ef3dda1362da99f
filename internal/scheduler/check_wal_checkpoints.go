package scheduler

import (
	"github.com/aristath/sdnwatch/internal/database"
	"github.com/rs/zerolog"
)

// walFrameWarnThreshold is the WAL size, in frames, that is logged as a warning
const walFrameWarnThreshold = 1000

// CheckWALCheckpointsJob checkpoints the local object database and reports WAL growth.
// Only scheduled when snapshots are kept in SQLite.
type CheckWALCheckpointsJob struct {
	log zerolog.Logger
	db  *database.DB
}

// NewCheckWALCheckpointsJob creates a new CheckWALCheckpointsJob
func NewCheckWALCheckpointsJob(db *database.DB) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		log: zerolog.Nop(),
		db:  db,
	}
}

// SetLogger sets the logger for the job
func (j *CheckWALCheckpointsJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run checkpoints the WAL. A failed checkpoint is logged, not returned;
// SQLite retries on the next one.
func (j *CheckWALCheckpointsJob) Run() error {
	if j.db == nil {
		return nil
	}

	result, err := j.db.WALCheckpoint(database.CheckpointTruncate)
	if err != nil {
		j.log.Warn().
			Err(err).
			Str("database", j.db.Name()).
			Msg("Failed to checkpoint WAL")
		return nil
	}

	if result.Busy {
		j.log.Warn().
			Str("database", j.db.Name()).
			Int("wal_frames", result.LogFrames).
			Msg("WAL checkpoint blocked by an open reader")
	} else if result.LogFrames > walFrameWarnThreshold {
		j.log.Warn().
			Str("database", j.db.Name()).
			Int("wal_frames", result.LogFrames).
			Int("checkpointed", result.Checkpointed).
			Msg("WAL file is large")
	} else {
		j.log.Debug().
			Str("database", j.db.Name()).
			Int("wal_frames", result.LogFrames).
			Msg("WAL checkpoint status OK")
	}

	return nil
}
