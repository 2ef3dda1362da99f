// Package handlers provides HTTP handlers for SDN name lookups.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/modules/lookup"
	"github.com/aristath/sdnwatch/internal/modules/sdn"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// maxCommandBytes bounds a slash-command body; Slack sends a few hundred bytes
const maxCommandBytes = 64 << 10

// Enqueuer hands jobs to the background queue
type Enqueuer interface {
	Enqueue(job *queue.Job) error
}

// Handler handles lookup HTTP requests
type Handler struct {
	service       *lookup.Service
	queue         Enqueuer
	signingSecret string
	log           zerolog.Logger
}

// NewHandler creates a new lookup handler. An empty signingSecret disables
// request signature verification.
func NewHandler(service *lookup.Service, q Enqueuer, signingSecret string, log zerolog.Logger) *Handler {
	return &Handler{
		service:       service,
		queue:         q,
		signingSecret: signingSecret,
		log:           log.With().Str("handler", "lookup").Logger(),
	}
}

// SearchResponse is the body of GET /api/sdn/search
type SearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []domain.EntityRecord `json:"results"`
}

// HandleSearch searches the current snapshot for ?q=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	results, err := h.service.Lookup(r.Context(), query)
	if errors.Is(err, sdn.ErrEmptyQuery) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Search failed")
		h.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

// HandleSlashCommand acknowledges /check_sdn immediately and answers through
// the response_url from a background lookup job.
func (h *Handler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read request")
		return
	}

	if h.signingSecret != "" {
		if err := h.verify(r.Header, body); err != nil {
			h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("Rejected unsigned slash command")
			h.writeError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed slash command")
		return
	}

	query := strings.TrimSpace(cmd.Text)
	if query == "" || cmd.ResponseURL == "" {
		h.writeJSON(w, http.StatusOK, lookup.UsageMessage())
		return
	}

	job := &queue.Job{
		Type:   queue.JobTypeLookup,
		Source: "slack",
		Payload: map[string]interface{}{
			lookup.PayloadQuery:       query,
			lookup.PayloadResponseURL: cmd.ResponseURL,
			lookup.PayloadUserID:      cmd.UserID,
		},
	}
	if err := h.queue.Enqueue(job); err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Failed to enqueue lookup")
		h.writeJSON(w, http.StatusOK, &slack.WebhookMessage{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "Lookups are busy right now. Please try again in a moment.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("Looking up `%s` in the SDN list... please wait.", query),
	})
}

func (h *Handler) verify(header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
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
