// Package handlers provides HTTP handlers for triggering and inspecting reconciliation runs.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/modules/history"
	"github.com/aristath/sdnwatch/internal/modules/reconciliation"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/rs/zerolog"
)

// StartedText acknowledges a manual trigger
const StartedText = "Sanctions update started. Results will be posted here shortly."

// Enqueuer hands jobs to the background queue
type Enqueuer interface {
	Enqueue(job *queue.Job) error
}

// Handler handles reconciliation HTTP requests
type Handler struct {
	service *reconciliation.Service
	queue   Enqueuer
	log     zerolog.Logger
}

// NewHandler creates a new reconciliation handler
func NewHandler(service *reconciliation.Service, q Enqueuer, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		queue:   q,
		log:     log.With().Str("handler", "reconciliation").Logger(),
	}
}

// HandleTrigger enqueues a reconciliation run
func (h *Handler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	job := &queue.Job{Type: queue.JobTypeReconcile, Source: "api"}

	if err := h.queue.Enqueue(job); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			h.writeError(w, http.StatusServiceUnavailable, "a reconciliation is already pending")
			return
		}
		h.log.Error().Err(err).Msg("Failed to enqueue reconciliation")
		h.writeError(w, http.StatusInternalServerError, "failed to start reconciliation")
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"response_type": "ephemeral",
		"text":          StartedText,
		"job_id":        job.ID,
	})
}

// HistoryResponse is the body of GET /api/history
type HistoryResponse struct {
	Entries domain.HistoryLog   `json:"entries"`
	Trend   domain.HistoryTrend `json:"trend"`
}

// HandleHistory returns the persisted history log with its trend
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	log, err := h.service.History(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load history")
		h.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{
		Entries: log,
		Trend:   history.Summarize(log),
	})
}

// LastRunResponse is the body of GET /api/reconcile/last
type LastRunResponse struct {
	Report *reconciliation.Report `json:"report"`
	Error  string                 `json:"error,omitempty"`
}

// HandleLastRun returns the most recent run report held in memory
func (h *Handler) HandleLastRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.LastRun()
	if report == nil && err == nil {
		h.writeError(w, http.StatusNotFound, "no reconciliation has run since startup")
		return
	}

	resp := LastRunResponse{Report: report}
	if err != nil {
		resp.Error = err.Error()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
