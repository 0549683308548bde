package service

import (
	"context"
	"errors"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
)

// persistable is the slice of the record API the shared persistence
// helpers need. All three record kinds satisfy it.
type persistable interface {
	Key() string
	MaxAgeDuration() time.Duration
	Dirty() bool
	Deleted() bool
	Commit()
	MarkSaved()
	MarkDeleted()
	MarshalPayload() ([]byte, error)
}

// saveRecord writes the full payload with a fresh TTL.
//
// A clean record is a no-op unless force is set; this is what keeps
// read-only requests from rewriting payloads. Deleted records fail
// fast instead of resurrecting the backend key.
func saveRecord(ctx context.Context, backend storage.Backend, rec persistable, force bool, metrics *metric.Metrics, kind string) error {
	if rec.Deleted() {
		return domain.ErrRecordDeleted
	}
	if !rec.Dirty() && !force {
		return nil
	}

	rec.Commit()

	payload, err := rec.MarshalPayload()
	if err != nil {
		return domain.ErrInternalServer.WithCause(err)
	}

	start := time.Now()
	err = backend.Set(ctx, rec.Key(), string(payload), rec.MaxAgeDuration())
	metrics.BackendOp("set", err, time.Since(start))
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	rec.MarkSaved()
	metrics.RecordSaved(kind)
	return nil
}

// touchRecord refreshes the TTL without rewriting the payload.
// Absent keys are a no-op at the backend, matching PEXPIRE semantics.
func touchRecord(ctx context.Context, backend storage.Backend, rec persistable, metrics *metric.Metrics, kind string) error {
	if rec.Deleted() {
		return domain.ErrRecordDeleted
	}

	start := time.Now()
	err := backend.PExpire(ctx, rec.Key(), rec.MaxAgeDuration())
	metrics.BackendOp("pexpire", err, time.Since(start))
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	metrics.RecordTouched(kind)
	return nil
}

// deleteRecord removes the backend key unconditionally and moves the
// record to its terminal deleted state.
func deleteRecord(ctx context.Context, backend storage.Backend, rec persistable, metrics *metric.Metrics, kind string) error {
	start := time.Now()
	err := backend.Delete(ctx, rec.Key())
	metrics.BackendOp("del", err, time.Since(start))
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	rec.MarkDeleted()
	metrics.RecordDeleted(kind)
	return nil
}

// fetchPayload reads a raw payload, mapping a backend miss to the
// domain not-found error.
func fetchPayload(ctx context.Context, backend storage.Backend, key string, metrics *metric.Metrics) ([]byte, error) {
	start := time.Now()
	raw, err := backend.Get(ctx, key)
	metrics.BackendOp("get", err, time.Since(start))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return []byte(raw), nil
}
