package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/sdnwatch/internal/database"
)

// SQLiteStore keeps objects in the objects table of the sdnwatch database.
// The schema lives in internal/database/schemas.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an already migrated database
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the object stored at key, or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM objects WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return data, nil
}

const putObjectSQL = "INSERT OR REPLACE INTO objects (key, data, content_type, updated_at) VALUES (?, ?, ?, ?)"

// Put replaces the object stored at key
func (s *SQLiteStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.db.ExecContext(ctx, putObjectSQL, key, data, contentType, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// PutMany replaces every object in one transaction
func (s *SQLiteStore) PutMany(ctx context.Context, objects []Object) error {
	now := time.Now().Unix()
	return database.WithTransaction(s.db, func(tx *sql.Tx) error {
		for _, obj := range objects {
			contentType := obj.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			if _, err := tx.ExecContext(ctx, putObjectSQL, obj.Key, obj.Data, contentType, now); err != nil {
				return fmt.Errorf("failed to put object %s: %w", obj.Key, err)
			}
		}
		return nil
	})
}

// Delete removes the object at key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM objects WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// ObjectInfo describes a stored object without its payload
type ObjectInfo struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// List returns metadata for every stored object, ordered by key
func (s *SQLiteStore) List(ctx context.Context) ([]ObjectInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, length(data), content_type, updated_at FROM objects ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	defer rows.Close()

	infos := make([]ObjectInfo, 0)
	for rows.Next() {
		var info ObjectInfo
		var updatedAt int64
		if err := rows.Scan(&info.Key, &info.Size, &info.ContentType, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan object row: %w", err)
		}
		info.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate objects: %w", err)
	}
	return infos, nil
}
