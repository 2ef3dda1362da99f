// Package reconciliation turns a freshly fetched SDN document into a new snapshot,
// a delta against the previous snapshot, and an updated history log.
package reconciliation

import (
	"time"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/modules/history"
	"github.com/aristath/sdnwatch/internal/modules/sdn"
)

// Result is the outcome of one reconciliation
type Result struct {
	Delta       domain.Delta
	NewSnapshot []domain.EntityRecord
	NewHistory  domain.HistoryLog

	previousCount int
}

// Wiped reports a document that parsed to nothing while a previous snapshot existed.
// The delta is still a full removal; callers decide how loudly to report it.
func (r Result) Wiped() bool {
	return len(r.NewSnapshot) == 0 && r.previousCount > 0
}

// Reconcile parses raw, diffs it against previous and records the delta in prevHistory.
// It performs no I/O.
func Reconcile(raw string, previous []domain.EntityRecord, prevHistory domain.HistoryLog, now time.Time) Result {
	snapshot := sdn.Parse(raw)
	delta := sdn.Diff(previous, snapshot)

	return Result{
		Delta:         delta,
		NewSnapshot:   snapshot,
		NewHistory:    history.RecordDelta(prevHistory, delta, now),
		previousCount: len(previous),
	}
}
