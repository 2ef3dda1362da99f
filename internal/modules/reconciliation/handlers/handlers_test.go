package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/modules/reconciliation"
	"github.com/aristath/sdnwatch/internal/queue"
	testingpkg "github.com/aristath/sdnwatch/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	jobs []*queue.Job
	err  error
}

func (q *recordingQueue) Enqueue(job *queue.Job) error {
	if q.err != nil {
		return q.err
	}
	job.ID = "job-42"
	q.jobs = append(q.jobs, job)
	return nil
}

func newTestHandler(historyStore *testingpkg.MockHistoryStore) (*Handler, *reconciliation.Service, *recordingQueue) {
	svc := reconciliation.NewService(
		testingpkg.NewMockFetcher(testingpkg.SampleCSV),
		testingpkg.NewMockSnapshotStore(nil),
		historyStore,
		nil,
		zerolog.Nop(),
	)
	q := &recordingQueue{}
	return NewHandler(svc, q, zerolog.Nop()), svc, q
}

func TestHandleTrigger(t *testing.T) {
	h, _, q := newTestHandler(testingpkg.NewMockHistoryStore(nil))

	rec := httptest.NewRecorder()
	h.HandleTrigger(rec, httptest.NewRequest(http.MethodPost, "/api/reconcile", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StartedText, body["text"])
	assert.Equal(t, "ephemeral", body["response_type"])
	assert.Equal(t, "job-42", body["job_id"])

	require.Len(t, q.jobs, 1)
	assert.Equal(t, queue.JobTypeReconcile, q.jobs[0].Type)
	assert.Equal(t, "api", q.jobs[0].Source)
}

func TestHandleTrigger_QueueFull(t *testing.T) {
	h, _, q := newTestHandler(testingpkg.NewMockHistoryStore(nil))
	q.err = queue.ErrQueueFull

	rec := httptest.NewRecorder()
	h.HandleTrigger(rec, httptest.NewRequest(http.MethodPost, "/api/reconcile", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleTrigger_OtherError(t *testing.T) {
	h, _, q := newTestHandler(testingpkg.NewMockHistoryStore(nil))
	q.err = queue.ErrUnknownJobType

	rec := httptest.NewRecorder()
	h.HandleTrigger(rec, httptest.NewRequest(http.MethodPost, "/api/reconcile", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	h, _, _ := newTestHandler(testingpkg.NewMockHistoryStore(testingpkg.NewHistoryFixtures(3)))

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 3)
	assert.Equal(t, 3, resp.Trend.Runs)
	assert.Equal(t, 6.0, resp.Trend.TotalAdditions)
	assert.Equal(t, 2.0, resp.Trend.MeanAdditions)
}

func TestHandleHistory_Empty(t *testing.T) {
	h, _, _ := newTestHandler(testingpkg.NewMockHistoryStore(nil))

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entries":[]`)
}

func TestHandleHistory_StoreError(t *testing.T) {
	store := testingpkg.NewMockHistoryStore(nil)
	store.SetLoadError(errors.New("denied"))
	h, _, _ := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleLastRun(t *testing.T) {
	h, svc, _ := newTestHandler(testingpkg.NewMockHistoryStore(nil))

	rec := httptest.NewRecorder()
	h.HandleLastRun(rec, httptest.NewRequest(http.MethodGet, "/api/reconcile/last", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	h.HandleLastRun(rec, httptest.NewRequest(http.MethodGet, "/api/reconcile/last", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Report struct {
			Summary domain.Summary `json:"summary"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Report.Summary.TotalRecords)
}
