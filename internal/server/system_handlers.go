package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/aristath/sdnwatch/internal/database"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/aristath/sdnwatch/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// QueueStats reports worker pool state
type QueueStats interface {
	Stats() map[queue.JobType]queue.PoolStats
}

// ScheduleLister reports cron entries
type ScheduleLister interface {
	Entries() []scheduler.Entry
}

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	db          *database.DB // nil for the S3 backend
	queue       QueueStats
	schedules   ScheduleLister
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, db *database.DB, q QueueStats, schedules ScheduleLister) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("service", "system").Logger(),
		startupTime: time.Now(),
		db:          db,
		queue:       q,
		schedules:   schedules,
	}
}

// QueueStatus is one worker pool in the status response
type QueueStatus struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	queue.PoolStats
}

// SystemStatusResponse represents the system status
type SystemStatusResponse struct {
	Status      string          `json:"status"`
	UptimeHours float64         `json:"uptime_hours"`
	CPUPercent  float64         `json:"cpu_percent"`
	RAMPercent  float64         `json:"ram_percent"`
	Queues      []QueueStatus   `json:"queues"`
	Database    *database.Stats `json:"database,omitempty"`
	LastChecked string          `json:"last_checked"`
}

// JobsStatusResponse lists scheduled jobs
type JobsStatusResponse struct {
	Jobs        []scheduler.Entry `json:"jobs"`
	LastChecked string            `json:"last_checked"`
}

// HandleSystemStatus returns process, queue and storage status
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:      "healthy",
		UptimeHours: time.Since(h.startupTime).Hours(),
		CPUPercent:  cpuPercent,
		RAMPercent:  ramPercent,
		Queues:      h.queueStatus(),
		LastChecked: time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		stats, err := h.db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get database stats")
			response.Status = "degraded"
		} else {
			response.Database = stats
		}
	}

	h.writeJSON(w, response)
}

// HandleJobsStatus lists cron entries with their next activation
// GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := []scheduler.Entry{}
	if h.schedules != nil {
		jobs = append(jobs, h.schedules.Entries()...)
	}

	h.writeJSON(w, JobsStatusResponse{
		Jobs:        jobs,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandlers) queueStatus() []QueueStatus {
	statuses := []QueueStatus{}
	if h.queue == nil {
		return statuses
	}

	for jobType, stats := range h.queue.Stats() {
		statuses = append(statuses, QueueStatus{
			Type:        string(jobType),
			Description: queue.GetJobDescription(jobType),
			PoolStats:   stats,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Type < statuses[j].Type })
	return statuses
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the call fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
