// Package memory provides an in-process Backend used by tests and
// single-node development setups. Expiry is lazy: entries past their
// deadline behave as absent and are dropped on next touch.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/pkg/cmap"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store is an in-memory Backend.
type Store struct {
	entries *cmap.Map[entry]
	clock   func() time.Time
}

var _ storage.Backend = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entries: cmap.New[entry](),
		clock:   time.Now,
	}
}

// NewWithClock creates a store with an injectable clock.
func NewWithClock(clock func() time.Time) *Store {
	s := New()
	s.clock = clock
	return s
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	if e.expired(s.clock()) {
		s.entries.Delete(key)
		return "", storage.ErrKeyNotFound
	}
	return e.value, nil
}

// Set stores a value with a TTL. A non-positive TTL stores without expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.clock().Add(ttl)
	}
	s.entries.Set(key, e)
	return nil
}

// Delete removes a key. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// PExpire resets the TTL of an existing key. Absent or expired keys
// are a no-op.
func (s *Store) PExpire(ctx context.Context, key string, ttl time.Duration) error {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil
	}
	now := s.clock()
	if e.expired(now) {
		s.entries.Delete(key)
		return nil
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	} else {
		e.expiresAt = time.Time{}
	}
	s.entries.Set(key, e)
	return nil
}

// Keys returns the live keys matching a trailing-star prefix pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if !strings.HasSuffix(pattern, "*") {
		return nil, fmt.Errorf("memory: unsupported pattern %q (trailing-star prefixes only)", pattern)
	}
	prefix := pattern[:len(pattern)-1]
	if strings.ContainsAny(prefix, "*?[") {
		return nil, fmt.Errorf("memory: unsupported pattern %q (trailing-star prefixes only)", pattern)
	}

	now := s.clock()
	var keys, stale []string
	s.entries.Range(func(key string, e entry) bool {
		if !strings.HasPrefix(key, prefix) {
			return true
		}
		if e.expired(now) {
			stale = append(stale, key)
			return true
		}
		keys = append(keys, key)
		return true
	})
	for _, key := range stale {
		s.entries.Delete(key)
	}
	return keys, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close clears the store.
func (s *Store) Close() error {
	s.entries.Clear()
	return nil
}

// Len reports the number of stored entries, including not yet
// collected expired ones.
func (s *Store) Len() int {
	return s.entries.Count()
}
