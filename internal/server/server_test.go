package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/di"
	lookuphandlers "github.com/aristath/sdnwatch/internal/modules/lookup/handlers"
	reconciliationhandlers "github.com/aristath/sdnwatch/internal/modules/reconciliation/handlers"
	testingpkg "github.com/aristath/sdnwatch/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*Server, *di.Container) {
	t.Helper()

	cfg := &config.Config{
		DataDir:       t.TempDir(),
		Port:          8080,
		DevMode:       true,
		SourceURL:     "http://127.0.0.1:1/sdn.csv",
		FetchTimeout:  time.Second,
		LookupWorkers: 1,
		Storage: &config.StorageConfig{
			Backend:     config.BackendSQLite,
			SnapshotKey: "sdn/latest.json",
			HistoryKey:  "sdn/history.json",
			LinkTTL:     time.Hour,
		},
		Slack: &config.SlackConfig{Channel: "#alerts"},
		Schedule: &config.ScheduleConfig{
			Reconcile:     "0 0 6,15,23 * * *",
			WALCheckpoint: "0 30 3 * * *",
			Maintenance:   "0 0 4 * * 0",
		},
	}

	container, err := di.Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: zerolog.Nop(), Port: cfg.Port, DevMode: true, Container: container}), container
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if method == http.MethodPost && body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s, container := setupTestServer(t)
	container.Metrics.IncrementLookup("match")

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sdnwatch_lookups_total{outcome="match"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSystemStatus(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/system/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	require.Len(t, resp.Queues, 2)
	assert.Equal(t, "sdn_lookup", resp.Queues[0].Type)
	assert.Equal(t, "sdn_reconcile", resp.Queues[1].Type)
	assert.Equal(t, 1, resp.Queues[1].Workers)
	require.NotNil(t, resp.Database)
	assert.Greater(t, resp.Database.PageSize, int64(0))
}

func TestJobsStatus(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/system/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JobsStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 3)

	names := []string{}
	for _, j := range resp.Jobs {
		names = append(names, j.Job)
	}
	assert.Contains(t, names, "sdn_reconcile")
	assert.Contains(t, names, "check_wal_checkpoints")
	assert.Contains(t, names, "database_maintenance")
}

func TestTriggerReconcile(t *testing.T) {
	s, _ := setupTestServer(t)

	// Workers are not started, so the single pending slot fills up
	rec := do(t, s, http.MethodPost, "/api/reconcile", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, reconciliationhandlers.StartedText, body["text"])
	assert.NotEmpty(t, body["job_id"])

	rec = do(t, s, http.MethodPost, "/api/reconcile", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLastRun_NoneYet(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/reconcile/last", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory_Empty(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reconciliationhandlers.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Entries)
	assert.Equal(t, 0, resp.Trend.Runs)
}

func TestSearch(t *testing.T) {
	s, container := setupTestServer(t)
	require.NoError(t, container.SnapshotRepo.Save(context.Background(), testingpkg.NewRecordFixtures()))

	rec := do(t, s, http.MethodGet, "/api/sdn/search?q=", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"no query provided"}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/sdn/search?q=caribbean", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp lookuphandlers.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "caribbean", resp.Query)
	assert.Equal(t, 2, resp.Count)
}

func TestSlashCommand(t *testing.T) {
	s, _ := setupTestServer(t)

	form := url.Values{"command": {"/check_sdn"}, "text": {""}}
	rec := do(t, s, http.MethodPost, "/slack/commands/check_sdn", strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please provide a name to check")

	form = url.Values{
		"command":      {"/check_sdn"},
		"text":         {"banco"},
		"response_url": {"https://hooks.slack.com/commands/T0/1/abc"},
	}
	rec = do(t, s, http.MethodPost, "/slack/commands/check_sdn", strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Looking up `banco` in the SDN list... please wait.")
}
