package domain

import "context"

// Fetcher retrieves the raw SDN document
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// SnapshotStore loads and saves the current snapshot.
// Load returns an empty snapshot, not an error, when nothing has been stored yet.
type SnapshotStore interface {
	Load(ctx context.Context) ([]EntityRecord, error)
	Save(ctx context.Context, records []EntityRecord) error
}

// HistoryStore loads and saves the rolling history log.
// Load returns an empty log, not an error, when nothing has been stored yet.
type HistoryStore interface {
	Load(ctx context.Context) (HistoryLog, error)
	Save(ctx context.Context, log HistoryLog) error
}

// SnapshotLinker produces a shareable link to the stored snapshot
type SnapshotLinker interface {
	Link(ctx context.Context) (string, error)
}

// Notifier delivers run summaries. chart may be nil.
type Notifier interface {
	Send(ctx context.Context, summary Summary, chart []byte) error
}

// ChartRenderer renders the history window as an image
type ChartRenderer interface {
	Render(log HistoryLog) ([]byte, error)
}

// StateCommitter persists a snapshot and its history together. Either both are
// written or neither is.
type StateCommitter interface {
	Commit(ctx context.Context, records []EntityRecord, log HistoryLog) error
}
