// Package metrics exposes Prometheus instrumentation for sdnwatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcome labels
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusWiped   = "wiped"
)

// Lookup outcome labels
const (
	LookupMatch      = "match"
	LookupNoMatch    = "no_match"
	LookupEmptyQuery = "empty_query"
	LookupError      = "error"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Reconciliations     *prometheus.CounterVec
	ReconcileDuration   prometheus.Histogram
	SnapshotRecords     prometheus.Gauge
	RecordsAdded        prometheus.Counter
	RecordsRemoved      prometheus.Counter
	NotificationsFailed prometheus.Counter
	Lookups             *prometheus.CounterVec
	JobsDropped         *prometheus.CounterVec
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sdnwatch_reconciliations_total",
			Help: "Reconciliation runs by outcome",
		}, []string{"status"}), // status: success, failed, wiped

		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sdnwatch_reconcile_duration_seconds",
			Help:    "Duration of a reconciliation run from fetch to notification",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),

		SnapshotRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sdnwatch_snapshot_records",
			Help: "Number of records in the most recently persisted snapshot",
		}),

		RecordsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "sdnwatch_records_added_total",
			Help: "Records added across all reconciliation runs",
		}),

		RecordsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "sdnwatch_records_removed_total",
			Help: "Records removed across all reconciliation runs",
		}),

		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "sdnwatch_notifications_failed_total",
			Help: "Run summaries that could not be delivered",
		}),

		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sdnwatch_lookups_total",
			Help: "Name lookups by outcome",
		}, []string{"outcome"}), // outcome: match, no_match, empty_query, error

		JobsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sdnwatch_jobs_dropped_total",
			Help: "Jobs rejected because their queue was full",
		}, []string{"type"}),
	}
}

// ObserveRun records the outcome of one reconciliation run
func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(status).Inc()
	m.ReconcileDuration.Observe(d.Seconds())
}

// ObserveDelta records the size of a persisted snapshot and its delta
func (m *Metrics) ObserveDelta(total, added, removed int) {
	if m == nil {
		return
	}
	m.SnapshotRecords.Set(float64(total))
	m.RecordsAdded.Add(float64(added))
	m.RecordsRemoved.Add(float64(removed))
}

// IncrementNotificationFailures counts an undelivered summary
func (m *Metrics) IncrementNotificationFailures() {
	if m != nil {
		m.NotificationsFailed.Inc()
	}
}

// IncrementLookup counts a lookup by outcome
func (m *Metrics) IncrementLookup(outcome string) {
	if m != nil {
		m.Lookups.WithLabelValues(outcome).Inc()
	}
}

// IncrementJobsDropped counts a rejected job
func (m *Metrics) IncrementJobsDropped(jobType string) {
	if m != nil {
		m.JobsDropped.WithLabelValues(jobType).Inc()
	}
}
