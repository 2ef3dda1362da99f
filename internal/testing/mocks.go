package testing

import (
	"context"
	"sync"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/slack-go/slack"
)

// MockFetcher is a mock implementation of domain.Fetcher for testing
type MockFetcher struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
}

// NewMockFetcher creates a fetcher that returns body
func NewMockFetcher(body string) *MockFetcher {
	return &MockFetcher{body: body}
}

// SetBody sets the document to return
func (m *MockFetcher) SetBody(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = body
}

// SetError sets the error to return
func (m *MockFetcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Fetch was called
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Fetch returns the configured body or error
func (m *MockFetcher) Fetch(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.body, nil
}

// MockSnapshotStore is an in-memory domain.SnapshotStore
type MockSnapshotStore struct {
	mu      sync.RWMutex
	records []domain.EntityRecord
	saves   int
	loadErr error
	saveErr error
}

// NewMockSnapshotStore creates a store holding records
func NewMockSnapshotStore(records []domain.EntityRecord) *MockSnapshotStore {
	return &MockSnapshotStore{records: records}
}

// SetLoadError sets the error Load returns
func (m *MockSnapshotStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError sets the error Save returns
func (m *MockSnapshotStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Records returns the stored snapshot
func (m *MockSnapshotStore) Records() []domain.EntityRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// Saves returns how many times Save succeeded
func (m *MockSnapshotStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Load returns the stored snapshot, empty when none was saved
func (m *MockSnapshotStore) Load(ctx context.Context) ([]domain.EntityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.records == nil {
		return []domain.EntityRecord{}, nil
	}
	return m.records, nil
}

// Save replaces the stored snapshot
func (m *MockSnapshotStore) Save(ctx context.Context, records []domain.EntityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.records = records
	m.saves++
	return nil
}

// MockHistoryStore is an in-memory domain.HistoryStore
type MockHistoryStore struct {
	mu      sync.RWMutex
	log     domain.HistoryLog
	saves   int
	loadErr error
	saveErr error
}

// NewMockHistoryStore creates a store holding log
func NewMockHistoryStore(log domain.HistoryLog) *MockHistoryStore {
	return &MockHistoryStore{log: log}
}

// SetLoadError sets the error Load returns
func (m *MockHistoryStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError sets the error Save returns
func (m *MockHistoryStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Log returns the stored history
func (m *MockHistoryStore) Log() domain.HistoryLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.log
}

// Saves returns how many times Save succeeded
func (m *MockHistoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Load returns the stored history, empty when none was saved
func (m *MockHistoryStore) Load(ctx context.Context) (domain.HistoryLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.log == nil {
		return domain.HistoryLog{}, nil
	}
	return m.log, nil
}

// Save replaces the stored history
func (m *MockHistoryStore) Save(ctx context.Context, log domain.HistoryLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log = log
	m.saves++
	return nil
}

// MockCommitter writes through to a snapshot and history store pair, or fails
// without touching either
type MockCommitter struct {
	Snapshots *MockSnapshotStore
	History   *MockHistoryStore
	Err       error
}

// Commit saves both objects unless Err is set
func (m *MockCommitter) Commit(ctx context.Context, records []domain.EntityRecord, log domain.HistoryLog) error {
	if m.Err != nil {
		return m.Err
	}
	if err := m.Snapshots.Save(ctx, records); err != nil {
		return err
	}
	return m.History.Save(ctx, log)
}

// MockNotifier records summaries passed to Send
type MockNotifier struct {
	mu        sync.Mutex
	summaries []domain.Summary
	charts    [][]byte
	err       error
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SetError sets the error Send returns
func (m *MockNotifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Summaries returns every summary Send received
func (m *MockNotifier) Summaries() []domain.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Summary(nil), m.summaries...)
}

// Charts returns every chart Send received
func (m *MockNotifier) Charts() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.charts...)
}

// Send records the call and returns the configured error
func (m *MockNotifier) Send(ctx context.Context, summary domain.Summary, chart []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summary)
	m.charts = append(m.charts, chart)
	return m.err
}

// MockLinker returns a fixed snapshot link
type MockLinker struct {
	URL string
	Err error
}

// Link returns URL or Err
func (m *MockLinker) Link(ctx context.Context) (string, error) {
	return m.URL, m.Err
}

// MockRenderer returns a fixed chart
type MockRenderer struct {
	Image []byte
	Err   error
}

// Render returns Image or Err
func (m *MockRenderer) Render(log domain.HistoryLog) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Image, nil
}

// SentMessage is one message captured by MockResponder
type SentMessage struct {
	ResponseURL string
	Message     *slack.WebhookMessage
}

// MockResponder captures slash-command responses
type MockResponder struct {
	mu   sync.Mutex
	sent []SentMessage
	err  error
}

// NewMockResponder creates a new mock responder
func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

// SetError sets the error Respond returns
func (m *MockResponder) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Sent returns every captured message
func (m *MockResponder) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

// Respond records the message and returns the configured error
func (m *MockResponder) Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{ResponseURL: responseURL, Message: msg})
	return m.err
}
