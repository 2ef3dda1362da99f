package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/metrics"
	"github.com/aristath/sdnwatch/internal/modules/history"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// restoreTimeout bounds the snapshot rollback after a failed history save
const restoreTimeout = 30 * time.Second

// Report describes a completed run
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Summary    domain.Summary `json:"summary"`
	Notified   bool           `json:"notified"`
}

// Service drives one reconciliation run against its collaborators:
// fetch, load, reconcile, persist, then notify.
type Service struct {
	fetcher   domain.Fetcher
	snapshots domain.SnapshotStore
	history   domain.HistoryStore
	committer domain.StateCommitter
	notifier  domain.Notifier
	linker    domain.SnapshotLinker
	renderer  domain.ChartRenderer
	metrics   *metrics.Metrics
	now       func() time.Time
	log       zerolog.Logger

	mu         sync.RWMutex
	lastReport *Report
	lastError  error
}

// NewService creates a new reconciliation service.
// notifier may be nil, in which case summaries are only logged.
func NewService(
	fetcher domain.Fetcher,
	snapshots domain.SnapshotStore,
	historyStore domain.HistoryStore,
	notifier domain.Notifier,
	log zerolog.Logger,
) *Service {
	return &Service{
		fetcher:   fetcher,
		snapshots: snapshots,
		history:   historyStore,
		notifier:  notifier,
		now:       time.Now,
		log:       log.With().Str("service", "reconciliation").Logger(),
	}
}

// SetLinker sets the snapshot link provider used in summaries
func (s *Service) SetLinker(linker domain.SnapshotLinker) {
	s.linker = linker
}

// SetCommitter makes the service persist snapshot and history in one atomic
// write instead of two sequential saves
func (s *Service) SetCommitter(committer domain.StateCommitter) {
	s.committer = committer
}

// SetRenderer sets the chart renderer used in summaries
func (s *Service) SetRenderer(renderer domain.ChartRenderer) {
	s.renderer = renderer
}

// SetMetrics sets the metrics sink
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Run executes one reconciliation. Fetch, load and save failures abort the run
// before anything further is persisted. Link, chart and notification failures are
// logged and never undo persisted state.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	start := s.now()
	log := s.log.With().Str("run_id", runID).Logger()

	log.Info().Msg("Starting reconciliation")

	result, err := s.reconcile(ctx, start, log)
	if err != nil {
		s.metrics.ObserveRun(metrics.StatusFailed, s.now().Sub(start))
		s.setLast(nil, err)
		log.Error().Err(err).Msg("Reconciliation failed")
		return nil, err
	}

	summary := domain.Summary{
		TotalRecords: len(result.NewSnapshot),
		AddedCount:   len(result.Delta.Added),
		RemovedCount: len(result.Delta.Removed),
		Wiped:        result.Wiped(),
		Trend:        history.Summarize(result.NewHistory),
	}
	summary.SnapshotLink = s.link(ctx, log)
	chart := s.chart(result.NewHistory, log)

	elapsed := s.now().Sub(start)
	summary.DurationSeconds = elapsed.Seconds()

	status := metrics.StatusSuccess
	if summary.Wiped {
		status = metrics.StatusWiped
		log.Warn().
			Int("previous_removed", summary.RemovedCount).
			Msg("Fetched document parsed to zero records, persisted as full removal")
	}
	s.metrics.ObserveRun(status, elapsed)
	s.metrics.ObserveDelta(summary.TotalRecords, summary.AddedCount, summary.RemovedCount)

	report := &Report{
		RunID:     runID,
		StartedAt: start,
		Summary:   summary,
	}
	report.Notified = s.notify(ctx, summary, chart, log)
	report.FinishedAt = s.now()
	s.setLast(report, nil)

	log.Info().
		Int("total", summary.TotalRecords).
		Int("added", summary.AddedCount).
		Int("removed", summary.RemovedCount).
		Float64("duration_s", summary.DurationSeconds).
		Bool("notified", report.Notified).
		Msg("Reconciliation completed")

	return report, nil
}

// HandleJob is the queue handler for reconcile jobs
func (s *Service) HandleJob(ctx context.Context, job *queue.Job) error {
	s.log.Info().Str("job_id", job.ID).Str("source", job.Source).Msg("Reconcile job picked up")
	_, err := s.Run(ctx)
	return err
}

// History returns the persisted history log
func (s *Service) History(ctx context.Context) (domain.HistoryLog, error) {
	return s.history.Load(ctx)
}

// LastRun returns the most recent report and error. A failed run leaves the
// previous report in place.
func (s *Service) LastRun() (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport, s.lastError
}

func (s *Service) setLast(report *Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report != nil {
		s.lastReport = report
	}
	s.lastError = err
}

// reconcile performs every step whose failure is fatal
func (s *Service) reconcile(ctx context.Context, now time.Time, log zerolog.Logger) (Result, error) {
	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch SDN list: %w", err)
	}

	previous, err := s.snapshots.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load previous snapshot: %w", err)
	}

	prevHistory, err := s.history.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load history: %w", err)
	}

	log.Debug().
		Int("bytes", len(raw)).
		Int("previous_records", len(previous)).
		Int("history_entries", len(prevHistory)).
		Msg("Inputs loaded")

	result := Reconcile(raw, previous, prevHistory, now)

	if err := s.persist(ctx, previous, result, log); err != nil {
		return Result{}, err
	}

	return result, nil
}

// persist stores the new snapshot and history. Without a committer the snapshot
// goes first, and a failed history save puts the previous snapshot back so the
// next run diffs against the same baseline.
func (s *Service) persist(ctx context.Context, previous []domain.EntityRecord, result Result, log zerolog.Logger) error {
	if s.committer != nil {
		if err := s.committer.Commit(ctx, result.NewSnapshot, result.NewHistory); err != nil {
			return fmt.Errorf("failed to save snapshot and history: %w", err)
		}
		return nil
	}

	if err := s.snapshots.Save(ctx, result.NewSnapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := s.history.Save(ctx, result.NewHistory); err != nil {
		s.restoreSnapshot(ctx, previous, log)
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// restoreSnapshot runs even when ctx was cancelled between the two saves
func (s *Service) restoreSnapshot(ctx context.Context, previous []domain.EntityRecord, log zerolog.Logger) {
	restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()

	if err := s.snapshots.Save(restoreCtx, previous); err != nil {
		log.Error().
			Err(err).
			Int("previous_records", len(previous)).
			Msg("Failed to restore previous snapshot, stored snapshot is ahead of history")
		return
	}
	log.Warn().Int("previous_records", len(previous)).Msg("Restored previous snapshot after history save failure")
}

func (s *Service) link(ctx context.Context, log zerolog.Logger) string {
	if s.linker == nil {
		return ""
	}
	url, err := s.linker.Link(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create snapshot link")
		return ""
	}
	return url
}

func (s *Service) chart(log domain.HistoryLog, logger zerolog.Logger) []byte {
	if s.renderer == nil {
		return nil
	}
	img, err := s.renderer.Render(log)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to render history chart")
		return nil
	}
	return img
}

func (s *Service) notify(ctx context.Context, summary domain.Summary, chart []byte, log zerolog.Logger) bool {
	if s.notifier == nil {
		log.Info().Msg("No notifier configured, skipping notification")
		return false
	}
	if err := s.notifier.Send(ctx, summary, chart); err != nil {
		s.metrics.IncrementNotificationFailures()
		log.Error().Err(err).Msg("Failed to send notification")
		return false
	}
	return true
}
