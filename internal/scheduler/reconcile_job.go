package scheduler

import (
	"fmt"

	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/rs/zerolog"
)

// Enqueuer hands jobs to the background queue
type Enqueuer interface {
	Enqueue(job *queue.Job) error
}

// ReconcileJob enqueues a reconciliation run. The run itself executes on the
// queue's reconcile worker, so cron and manual triggers never overlap.
type ReconcileJob struct {
	queue Enqueuer
	log   zerolog.Logger
}

// NewReconcileJob creates a new ReconcileJob
func NewReconcileJob(q Enqueuer) *ReconcileJob {
	return &ReconcileJob{
		queue: q,
		log:   zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *ReconcileJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *ReconcileJob) Name() string {
	return "sdn_reconcile"
}

// Run enqueues one reconciliation
func (j *ReconcileJob) Run() error {
	job := &queue.Job{Type: queue.JobTypeReconcile, Source: "cron"}
	if err := j.queue.Enqueue(job); err != nil {
		return fmt.Errorf("failed to enqueue reconciliation: %w", err)
	}
	j.log.Info().Str("job_id", job.ID).Msg("Scheduled reconciliation enqueued")
	return nil
}
