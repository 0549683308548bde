// Package storage provides the key-value backend abstraction.
package storage

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	// ErrKeyNotFound indicates the key does not exist or has expired.
	ErrKeyNotFound = errors.New("storage: key not found")

	// ErrClosed indicates the backend has been closed.
	ErrClosed = errors.New("storage: backend closed")
)

// Backend is the minimal command surface the store requires of its
// key-value backend.
//
// Implementation requirements:
//   - Each command is individually atomic; no multi-key transactions.
//   - Set must apply the TTL in the same command as the write.
//   - Expired keys behave as absent on Get and are omitted from Keys.
type Backend interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL (millisecond resolution).
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// PExpire resets the TTL of an existing key without touching the
	// value. Resetting an absent key is not an error.
	PExpire(ctx context.Context, key string, ttl time.Duration) error

	// Keys returns the keys matching a glob pattern. The store only
	// issues trailing-star prefix patterns (e.g. "access:u1:*");
	// embedded backends may support nothing more.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
