package memory

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/augejs/tokenstore-go/internal/storage"
)

func TestStoreSetGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Fatalf("Get = %q, want %q", got, "v")
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get after delete = %v, want ErrKeyNotFound", err)
	}
}

func TestStoreLazyExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(500 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get after expiry = %v, want ErrKeyNotFound", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len after lazy collection = %d, want 0", s.Len())
	}
}

func TestStorePExpire(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.PExpire(ctx, "k", time.Hour); err != nil {
		t.Fatalf("PExpire: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}

	// absent key is a no-op
	if err := s.PExpire(ctx, "nope", time.Minute); err != nil {
		t.Fatalf("PExpire absent: %v", err)
	}

	// already-expired key is collected, not refreshed
	if err := s.Set(ctx, "gone", "v", time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(2 * time.Second)
	if err := s.PExpire(ctx, "gone", time.Hour); err != nil {
		t.Fatalf("PExpire expired: %v", err)
	}
	if _, err := s.Get(ctx, "gone"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get expired after PExpire = %v, want ErrKeyNotFound", err)
	}
}

func TestStoreKeysPrefixScan(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	s.Set(ctx, "access:u1:a", "1", time.Minute)
	s.Set(ctx, "access:u1:b", "2", time.Second)
	s.Set(ctx, "access:u2:c", "3", time.Minute)
	s.Set(ctx, "other", "4", time.Minute)

	// expire one of the matching keys
	now = now.Add(2 * time.Second)

	keys, err := s.Keys(ctx, "access:u1:*")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 1 || keys[0] != "access:u1:a" {
		t.Fatalf("Keys = %v, want [access:u1:a]", keys)
	}
}

func TestStoreKeysRejectsNonPrefixPattern(t *testing.T) {
	s := New()

	if _, err := s.Keys(context.Background(), "a*b*"); err == nil {
		t.Fatal("Keys with mid-pattern star should fail")
	}
	if _, err := s.Keys(context.Background(), "abc"); err == nil {
		t.Fatal("Keys without trailing star should fail")
	}
}
