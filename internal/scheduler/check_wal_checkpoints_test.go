package scheduler

import (
	"testing"

	testingpkg "github.com/aristath/sdnwatch/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCheckWALCheckpointsJob_Name(t *testing.T) {
	job := NewCheckWALCheckpointsJob(nil)
	assert.Equal(t, "check_wal_checkpoints", job.Name())
}

func TestCheckWALCheckpointsJob_Run_NoDatabase(t *testing.T) {
	job := NewCheckWALCheckpointsJob(nil)
	job.SetLogger(zerolog.Nop())

	assert.NoError(t, job.Run())
}

func TestCheckWALCheckpointsJob_Run(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t)
	defer cleanup()

	job := NewCheckWALCheckpointsJob(db)
	job.SetLogger(zerolog.Nop())

	assert.NoError(t, job.Run())
}
