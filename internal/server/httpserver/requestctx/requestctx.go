// Package requestctx carries resolved token records through a request.
//
// A guard resolves a record, attaches it to the request context in a
// Holder, and settles the outcome after the handler returns. Handlers
// read the record through the From functions and steer the settlement
// with Clear and Replace.
package requestctx

import (
	"context"
	"sync"

	"github.com/augejs/tokenstore-go/internal/core/domain"
)

// Holder carries one resolved record through a request.
type Holder[T any] struct {
	mu       sync.Mutex
	record   *T
	cleared  bool
	replaced bool
}

// NewHolder wraps a resolved record.
func NewHolder[T any](rec *T) *Holder[T] {
	return &Holder[T]{record: rec}
}

// Get returns the record unless it has been cleared.
func (h *Holder[T]) Get() (*T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.record == nil || h.cleared {
		return nil, false
	}
	return h.record, true
}

// Clear marks the record for deletion at settlement.
func (h *Holder[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleared = true
}

// Replace swaps in a freshly issued record. The guard retires the one
// the request arrived with.
func (h *Holder[T]) Replace(rec *T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record = rec
	h.replaced = true
}

// State reports the settlement inputs: the current record and whether
// the handler cleared or replaced it.
func (h *Holder[T]) State() (rec *T, cleared, replaced bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.record, h.cleared, h.replaced
}

type holderKey int

const (
	accessHolderKey holderKey = iota
	sessionHolderKey
	stepHolderKey
)

// WithAccess attaches an access record holder to the context.
func WithAccess(ctx context.Context, h *Holder[domain.AccessRecord]) context.Context {
	return context.WithValue(ctx, accessHolderKey, h)
}

// WithSession attaches a session record holder to the context.
func WithSession(ctx context.Context, h *Holder[domain.SessionRecord]) context.Context {
	return context.WithValue(ctx, sessionHolderKey, h)
}

// WithStep attaches a step record holder to the context.
func WithStep(ctx context.Context, h *Holder[domain.StepRecord]) context.Context {
	return context.WithValue(ctx, stepHolderKey, h)
}

// AccessRecord returns the access record attached to this request.
func AccessRecord(ctx context.Context) (*domain.AccessRecord, bool) {
	h, ok := ctx.Value(accessHolderKey).(*Holder[domain.AccessRecord])
	if !ok {
		return nil, false
	}
	return h.Get()
}

// ClearAccessRecord deletes the request's access record at settlement.
// Logout is a handler calling this.
func ClearAccessRecord(ctx context.Context) {
	if h, ok := ctx.Value(accessHolderKey).(*Holder[domain.AccessRecord]); ok {
		h.Clear()
	}
}

// SessionRecord returns the session record attached to this request.
func SessionRecord(ctx context.Context) (*domain.SessionRecord, bool) {
	h, ok := ctx.Value(sessionHolderKey).(*Holder[domain.SessionRecord])
	if !ok {
		return nil, false
	}
	return h.Get()
}

// ClearSessionRecord deletes the request's session record at
// settlement.
func ClearSessionRecord(ctx context.Context) {
	if h, ok := ctx.Value(sessionHolderKey).(*Holder[domain.SessionRecord]); ok {
		h.Clear()
	}
}

// StepRecord returns the step record attached to this request.
func StepRecord(ctx context.Context) (*domain.StepRecord, bool) {
	h, ok := ctx.Value(stepHolderKey).(*Holder[domain.StepRecord])
	if !ok {
		return nil, false
	}
	return h.Get()
}

// ClearStepRecord deletes the request's step record at settlement.
func ClearStepRecord(ctx context.Context) {
	if h, ok := ctx.Value(stepHolderKey).(*Holder[domain.StepRecord]); ok {
		h.Clear()
	}
}

// ReplaceStepRecord swaps a freshly issued step record into the
// request. The guard retires the record the request arrived with.
func ReplaceStepRecord(ctx context.Context, rec *domain.StepRecord) {
	if h, ok := ctx.Value(stepHolderKey).(*Holder[domain.StepRecord]); ok {
		h.Replace(rec)
	}
}
