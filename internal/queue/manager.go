// Package queue runs background jobs on fixed-size worker pools, one pool per job type.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aristath/sdnwatch/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrQueueFull is returned when a pool's buffer has no room
	ErrQueueFull = errors.New("job queue is full")
	// ErrUnknownJobType is returned for jobs with no registered handler
	ErrUnknownJobType = errors.New("no handler registered for job type")
)

// Handler executes one job
type Handler func(ctx context.Context, job *Job) error

type pool struct {
	jobType   JobType
	jobs      chan *Job
	workers   int
	handler   Handler
	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// PoolStats is a point-in-time view of one pool
type PoolStats struct {
	Workers   int   `json:"workers"`
	Queued    int   `json:"queued"`
	Capacity  int   `json:"capacity"`
	Active    int64 `json:"active"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Manager owns the pools and their workers
type Manager struct {
	mu      sync.RWMutex
	pools   map[JobType]*pool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewManager creates a manager with no pools
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		pools: make(map[JobType]*pool),
		log:   log.With().Str("component", "queue").Logger(),
	}
}

// SetMetrics sets the metrics sink for dropped jobs
func (m *Manager) SetMetrics(mt *metrics.Metrics) {
	m.metrics = mt
}

// Register adds a pool for jobType. A single worker serializes that job type.
// Must be called before Start.
func (m *Manager) Register(jobType JobType, workers, buffer int, handler Handler) {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pools[jobType] = &pool{
		jobType: jobType,
		jobs:    make(chan *Job, buffer),
		workers: workers,
		handler: handler,
	}
}

// Start launches the workers of every registered pool
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		m.log.Warn().Msg("Queue already started, ignoring")
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.started = true

	for _, p := range m.pools {
		for i := 0; i < p.workers; i++ {
			m.wg.Add(1)
			go m.work(ctx, p, i)
		}
		m.log.Info().
			Str("job_type", string(p.jobType)).
			Int("workers", p.workers).
			Int("buffer", cap(p.jobs)).
			Msg("Worker pool started")
	}
}

// Enqueue hands job to its pool without blocking. ID and CreatedAt are filled
// in when empty.
func (m *Manager) Enqueue(job *Job) error {
	m.mu.RLock()
	p, ok := m.pools[job.Type]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	select {
	case p.jobs <- job:
		m.log.Debug().
			Str("job_id", job.ID).
			Str("job_type", string(job.Type)).
			Str("source", job.Source).
			Msg("Job enqueued")
		return nil
	default:
		m.metrics.IncrementJobsDropped(string(job.Type))
		m.log.Warn().
			Str("job_id", job.ID).
			Str("job_type", string(job.Type)).
			Str("source", job.Source).
			Msg("Queue full, job dropped")
		return fmt.Errorf("%w: %s", ErrQueueFull, job.Type)
	}
}

// Stop cancels the workers and waits for in-flight jobs to return.
// Jobs still buffered are discarded.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.cancel()
	m.started = false
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.pools {
		if pending := len(p.jobs); pending > 0 {
			m.log.Warn().
				Str("job_type", string(p.jobType)).
				Int("pending", pending).
				Msg("Discarding queued jobs on shutdown")
		}
	}
	m.log.Info().Msg("Queue stopped")
}

// Stats returns per-pool statistics
func (m *Manager) Stats() map[JobType]PoolStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[JobType]PoolStats, len(m.pools))
	for t, p := range m.pools {
		stats[t] = PoolStats{
			Workers:   p.workers,
			Queued:    len(p.jobs),
			Capacity:  cap(p.jobs),
			Active:    p.active.Load(),
			Processed: p.processed.Load(),
			Failed:    p.failed.Load(),
		}
	}
	return stats
}

func (m *Manager) work(ctx context.Context, p *pool, worker int) {
	defer m.wg.Done()

	log := m.log.With().Str("job_type", string(p.jobType)).Int("worker", worker).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			m.execute(ctx, p, job, log)
		}
	}
}

func (m *Manager) execute(ctx context.Context, p *pool, job *Job, log zerolog.Logger) {
	p.active.Add(1)
	defer p.active.Add(-1)

	start := time.Now()
	err := runHandler(ctx, p.handler, job)
	p.processed.Add(1)

	if err != nil {
		p.failed.Add(1)
		log.Error().
			Err(err).
			Str("job_id", job.ID).
			Dur("duration", time.Since(start)).
			Msg("Job failed")
		return
	}

	log.Debug().
		Str("job_id", job.ID).
		Dur("duration", time.Since(start)).
		Msg("Job completed")
}

// runHandler converts a handler panic into an error so one bad job cannot kill a worker
func runHandler(ctx context.Context, h Handler, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s job: %v", job.Type, r)
		}
	}()
	return h(ctx, job)
}
