// Package domain provides the sanctions-list domain models shared by every module.
package domain

import "time"

// HistoryWindow is the number of runs retained in a HistoryLog.
const HistoryWindow = 7

// EntityRecord is one sanctioned-entity listing from the SDN list.
type EntityRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Program string `json:"program"`
}

// IdentityKey identifies an entity across snapshots.
// A corrected name therefore shows up as one removal plus one addition.
type IdentityKey struct {
	ID   string
	Name string
}

// Key returns the identity key of the record
func (r EntityRecord) Key() IdentityKey {
	return IdentityKey{ID: r.ID, Name: r.Name}
}

// Delta is the added/removed difference between two snapshots.
// Records whose identity is unchanged but whose Type or Program changed appear in neither list.
type Delta struct {
	Added   []EntityRecord `json:"added"`
	Removed []EntityRecord `json:"removed"`
}

// IsEmpty reports whether nothing was added or removed
func (d Delta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// HistoryEntry records the magnitude of one reconciliation run.
type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	AdditionsCount int       `json:"additions_count"`
	DeletionsCount int       `json:"deletions_count"`
}

// HistoryLog is the rolling window of recent runs, oldest first.
type HistoryLog []HistoryEntry

// HistoryTrend aggregates a HistoryLog for reporting.
type HistoryTrend struct {
	Runs           int     `json:"runs"`
	TotalAdditions float64 `json:"total_additions"`
	TotalDeletions float64 `json:"total_deletions"`
	MeanAdditions  float64 `json:"mean_additions"`
	MeanDeletions  float64 `json:"mean_deletions"`
}

// Summary is what gets reported to humans after a run.
type Summary struct {
	TotalRecords    int          `json:"total_records"`
	AddedCount      int          `json:"added_count"`
	RemovedCount    int          `json:"removed_count"`
	DurationSeconds float64      `json:"duration_seconds"`
	SnapshotLink    string       `json:"snapshot_link,omitempty"`
	Wiped           bool         `json:"wiped"`
	Trend           HistoryTrend `json:"trend"`
}
