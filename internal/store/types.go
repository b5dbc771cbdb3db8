package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested object does not exist in the bucket.
var ErrNotFound = errors.New("object not found in object storage")

// ObjectStorage defines the object store operations the gallery needs.
// All keys are bucket-relative. Implementations add no retries or timeouts
// of their own beyond the underlying client's defaults.
type ObjectStorage interface {

	// PutObject writes data to the given key, unconditionally overwriting
	// any existing object at that key.
	PutObject(ctx context.Context, key string, data []byte, contentType string) error

	// GetObject reads the full object at the given key.
	// Returns an error wrapping ErrNotFound if the key does not exist.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// ListKeys returns all object keys under the given prefix.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// DeleteObject removes the object at the given key.
	DeleteObject(ctx context.Context, key string) error

	// DeletePrefix removes every object under the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// ObjectExists checks whether an object exists at the given key.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// PresignGet generates a time-limited URL granting read access to the
	// object at the given key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
