package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRecordKey(t *testing.T) {
	a := EntityRecord{ID: "36", Name: "AEROCARIBBEAN AIRLINES", Type: "-0-", Program: "CUBA"}
	b := EntityRecord{ID: "36", Name: "AEROCARIBBEAN AIRLINES", Type: "individual", Program: "SDGT"}
	c := EntityRecord{ID: "36", Name: "Aerocaribbean Airlines", Type: "-0-", Program: "CUBA"}

	assert.Equal(t, a.Key(), b.Key(), "type and program are not part of identity")
	assert.NotEqual(t, a.Key(), c.Key(), "identity is case-sensitive")
}

func TestDeltaIsEmpty(t *testing.T) {
	assert.True(t, Delta{}.IsEmpty())
	assert.True(t, Delta{Added: []EntityRecord{}, Removed: []EntityRecord{}}.IsEmpty())
	assert.False(t, Delta{Added: []EntityRecord{{ID: "1"}}}.IsEmpty())
	assert.False(t, Delta{Removed: []EntityRecord{{ID: "1"}}}.IsEmpty())
}

func TestEntityRecordJSONKeys(t *testing.T) {
	data, err := json.Marshal(EntityRecord{ID: "1", Name: "Alice", Type: "individual", Program: "SDN"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Alice","type":"individual","program":"SDN"}`, string(data))
}

func TestHistoryEntryJSONKeys(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	data, err := json.Marshal(HistoryEntry{Timestamp: ts, AdditionsCount: 3, DeletionsCount: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":"2024-03-01T15:00:00Z","additions_count":3,"deletions_count":1}`, string(data))
}
