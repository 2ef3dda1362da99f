package slackbot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlack records Web API calls made against it
type fakeSlack struct {
	mu       sync.Mutex
	server   *httptest.Server
	calls    []string
	posted   map[string]string
	uploaded []byte
	failPost bool
}

func newFakeSlack(t *testing.T) *fakeSlack {
	f := &fakeSlack{}
	mux := http.NewServeMux()

	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.record("chat.postMessage")
		f.mu.Lock()
		f.posted = map[string]string{"channel": r.FormValue("channel"), "text": r.FormValue("text")}
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if f.failPost {
			w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
			return
		}
		w.Write([]byte(`{"ok":true,"channel":"C0123","ts":"1700000000.000100"}`))
	})
	mux.HandleFunc("/files.getUploadURLExternal", func(w http.ResponseWriter, r *http.Request) {
		f.record("files.getUploadURLExternal")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":         true,
			"upload_url": f.server.URL + "/upload",
			"file_id":    "F0123",
		})
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		f.record("upload")
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.uploaded = body
		f.mu.Unlock()
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/files.completeUploadExternal", func(w http.ResponseWriter, r *http.Request) {
		f.record("files.completeUploadExternal")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"files":[{"id":"F0123","title":"SDN changes per run"}]}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSlack) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSlack) client() *Client {
	return NewClient("xoxb-test", "#alerts", zerolog.Nop(), slack.OptionAPIURL(f.server.URL+"/"))
}

func TestSend_PostsSummary(t *testing.T) {
	fake := newFakeSlack(t)

	err := fake.client().Send(context.Background(), domain.Summary{
		TotalRecords: 12000, AddedCount: 3, RemovedCount: 1, DurationSeconds: 2.345,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"chat.postMessage"}, fake.calls)
	assert.Equal(t, "#alerts", fake.posted["channel"])
	assert.Contains(t, fake.posted["text"], "*Total Records:* 12000")
	assert.Contains(t, fake.posted["text"], "*➕ New:* 3  |  *➖ Removed:* 1")
}

func TestSend_UploadsChart(t *testing.T) {
	fake := newFakeSlack(t)
	chart := []byte("\x89PNG fake chart")

	err := fake.client().Send(context.Background(), domain.Summary{TotalRecords: 1}, chart)
	require.NoError(t, err)

	assert.Contains(t, fake.calls, "files.getUploadURLExternal")
	assert.Contains(t, fake.calls, "upload")
	assert.Contains(t, fake.calls, "files.completeUploadExternal")
	assert.Contains(t, string(fake.uploaded), "fake chart")
}

func TestSend_PostFailure(t *testing.T) {
	fake := newFakeSlack(t)
	fake.failPost = true

	err := fake.client().Send(context.Background(), domain.Summary{}, []byte("png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
	assert.Equal(t, []string{"chat.postMessage"}, fake.calls, "no upload after failed post")
}

func TestRespond(t *testing.T) {
	var got slack.WebhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient("xoxb-test", "#alerts", zerolog.Nop())
	err := client.Respond(context.Background(), server.URL, &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", got.ResponseType)
	assert.Equal(t, "hello", got.Text)
}

func TestRespond_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("xoxb-test", "#alerts", zerolog.Nop())
	err := client.Respond(context.Background(), server.URL, &slack.WebhookMessage{Text: "x"})
	assert.Error(t, err)
}

func TestFormatSummary(t *testing.T) {
	text := FormatSummary(domain.Summary{
		TotalRecords:    17890,
		AddedCount:      4,
		RemovedCount:    2,
		DurationSeconds: 3.14159,
		SnapshotLink:    "https://bucket.s3.amazonaws.com/sdn/latest.json?X-Amz-Signature=abc",
	})

	expected := "*🛡 Daily Sanctions Update*\n" +
		"> *Total Records:* 17890\n" +
		"> *➕ New:* 4  |  *➖ Removed:* 2\n" +
		"> *Run Time:* `3.14`s\n" +
		"<https://bucket.s3.amazonaws.com/sdn/latest.json?X-Amz-Signature=abc|📄 View latest list>"
	assert.Equal(t, expected, text)
}

func TestFormatSummary_TrendAndWipe(t *testing.T) {
	text := FormatSummary(domain.Summary{
		RemovedCount: 9,
		Wiped:        true,
		Trend: domain.HistoryTrend{
			Runs: 3, TotalAdditions: 6, TotalDeletions: 9, MeanAdditions: 2, MeanDeletions: 3,
		},
	})

	assert.Contains(t, text, "> *Last 3 runs:* +6 / -9 (avg +2.0 / -3.0)")
	assert.Contains(t, text, ":warning:")
	assert.NotContains(t, text, "View latest list")
}

func TestFormatSummary_SingleRunHasNoTrend(t *testing.T) {
	text := FormatSummary(domain.Summary{Trend: domain.HistoryTrend{Runs: 1, TotalAdditions: 5}})
	assert.NotContains(t, text, "Last")
}
