// Package storage persists snapshots and history as whole objects in a blob store.
// Two backends exist: S3-compatible object storage and a local SQLite table.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key holds no object
var ErrNotFound = errors.New("object not found")

// ContentTypeJSON is the content type of every object this package writes
const ContentTypeJSON = "application/json"

// BlobStore reads and replaces whole objects by key
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Object is one keyed payload in a batch write
type Object struct {
	Key         string
	Data        []byte
	ContentType string
}

// BatchWriter replaces several objects atomically
type BatchWriter interface {
	PutMany(ctx context.Context, objects []Object) error
}

// Presigner produces time-limited download URLs for stored objects
type Presigner interface {
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
