// Package history maintains the rolling window of reconciliation magnitudes.
package history

import (
	"time"

	"github.com/aristath/sdnwatch/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RecordDelta appends the magnitude of delta to log and keeps the last
// domain.HistoryWindow entries. The caller's slice is never modified.
func RecordDelta(log domain.HistoryLog, delta domain.Delta, now time.Time) domain.HistoryLog {
	entry := domain.HistoryEntry{
		Timestamp:      now.UTC(),
		AdditionsCount: len(delta.Added),
		DeletionsCount: len(delta.Removed),
	}

	start := 0
	if len(log)+1 > domain.HistoryWindow {
		start = len(log) + 1 - domain.HistoryWindow
	}

	next := make(domain.HistoryLog, 0, len(log)-start+1)
	next = append(next, log[start:]...)
	return append(next, entry)
}

// Summarize aggregates the window for trend reporting.
func Summarize(log domain.HistoryLog) domain.HistoryTrend {
	if len(log) == 0 {
		return domain.HistoryTrend{}
	}

	additions := make([]float64, len(log))
	deletions := make([]float64, len(log))
	for i, e := range log {
		additions[i] = float64(e.AdditionsCount)
		deletions[i] = float64(e.DeletionsCount)
	}

	return domain.HistoryTrend{
		Runs:           len(log),
		TotalAdditions: floats.Sum(additions),
		TotalDeletions: floats.Sum(deletions),
		MeanAdditions:  stat.Mean(additions, nil),
		MeanDeletions:  stat.Mean(deletions, nil),
	}
}
