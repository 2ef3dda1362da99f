package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/aristath/sdnwatch/internal/storage"
	testingpkg "github.com/aristath/sdnwatch/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceJob_NoDatabase(t *testing.T) {
	job := NewMaintenanceJob(nil)
	assert.Equal(t, "database_maintenance", job.Name())
	assert.NoError(t, job.Run())
}

func TestMaintenanceJob_ReclaimsReplacedObjects(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := storage.NewSQLiteStore(db.Conn())

	// Write a large object, then shrink it, leaving free pages behind
	big := make([]byte, 512*1024)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Put(ctx, fmt.Sprintf("obj/%d", i), big, storage.ContentTypeJSON))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Put(ctx, fmt.Sprintf("obj/%d", i), []byte("[]"), storage.ContentTypeJSON))
	}

	before, err := db.GetStats()
	require.NoError(t, err)

	job := NewMaintenanceJob(db)
	job.SetLogger(zerolog.Nop())
	require.NoError(t, job.Run())

	after, err := db.GetStats()
	require.NoError(t, err)
	assert.Less(t, after.PageCount, before.PageCount)

	data, err := store.Get(ctx, "obj/0")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

}
