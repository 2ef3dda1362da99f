package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/sdnwatch/internal/domain"
)

// SnapshotRepository loads and saves the current snapshot as a JSON array
type SnapshotRepository struct {
	store     BlobStore
	key       string
	presigner Presigner
	linkTTL   time.Duration
}

// NewSnapshotRepository creates a snapshot repository stored at key
func NewSnapshotRepository(store BlobStore, key string) *SnapshotRepository {
	return &SnapshotRepository{store: store, key: key}
}

// SetPresigner enables Link with URLs valid for ttl
func (r *SnapshotRepository) SetPresigner(p Presigner, ttl time.Duration) {
	r.presigner = p
	r.linkTTL = ttl
}

// Key returns the object key of the snapshot
func (r *SnapshotRepository) Key() string {
	return r.key
}

// Load returns the stored snapshot. A missing snapshot is an empty one.
func (r *SnapshotRepository) Load(ctx context.Context) ([]domain.EntityRecord, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return []domain.EntityRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []domain.EntityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", r.key, err)
	}
	if records == nil {
		records = []domain.EntityRecord{}
	}
	return records, nil
}

// Save replaces the stored snapshot
func (r *SnapshotRepository) Save(ctx context.Context, records []domain.EntityRecord) error {
	data, err := encodeSnapshot(records)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, data, ContentTypeJSON)
}

// Link returns a time-limited download URL for the stored snapshot
func (r *SnapshotRepository) Link(ctx context.Context) (string, error) {
	if r.presigner == nil {
		return "", errors.New("snapshot links not supported by this backend")
	}
	return r.presigner.PresignURL(ctx, r.key, r.linkTTL)
}

// HistoryRepository loads and saves the history log as a JSON array
type HistoryRepository struct {
	store BlobStore
	key   string
}

// NewHistoryRepository creates a history repository stored at key
func NewHistoryRepository(store BlobStore, key string) *HistoryRepository {
	return &HistoryRepository{store: store, key: key}
}

// Load returns the stored history. A missing history is an empty one.
func (r *HistoryRepository) Load(ctx context.Context) (domain.HistoryLog, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return domain.HistoryLog{}, nil
	}
	if err != nil {
		return nil, err
	}

	var log domain.HistoryLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to decode history %s: %w", r.key, err)
	}
	if log == nil {
		log = domain.HistoryLog{}
	}
	return log, nil
}

// Save replaces the stored history
func (r *HistoryRepository) Save(ctx context.Context, log domain.HistoryLog) error {
	data, err := encodeHistory(log)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, data, ContentTypeJSON)
}

// StateCommitter writes the snapshot and history objects in a single batch
type StateCommitter struct {
	store       BatchWriter
	snapshotKey string
	historyKey  string
}

// NewStateCommitter creates a committer writing to the given keys
func NewStateCommitter(store BatchWriter, snapshotKey, historyKey string) *StateCommitter {
	return &StateCommitter{store: store, snapshotKey: snapshotKey, historyKey: historyKey}
}

// Commit replaces both objects, or neither when the batch fails
func (c *StateCommitter) Commit(ctx context.Context, records []domain.EntityRecord, log domain.HistoryLog) error {
	snapshot, err := encodeSnapshot(records)
	if err != nil {
		return err
	}
	history, err := encodeHistory(log)
	if err != nil {
		return err
	}
	return c.store.PutMany(ctx, []Object{
		{Key: c.snapshotKey, Data: snapshot, ContentType: ContentTypeJSON},
		{Key: c.historyKey, Data: history, ContentType: ContentTypeJSON},
	})
}

func encodeSnapshot(records []domain.EntityRecord) ([]byte, error) {
	if records == nil {
		records = []domain.EntityRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func encodeHistory(log domain.HistoryLog) ([]byte, error) {
	if log == nil {
		log = domain.HistoryLog{}
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}
