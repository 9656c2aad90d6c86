package domain

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound   = errors.New("storage key not found")
	ErrPersistFailed = errors.New("failed to persist prayer records")
)

// KeyValueStore is the persistence port used by the tracker. Values are opaque strings.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key owned by the store.
	Clear(ctx context.Context) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error

	Close() error
}
