// Package domain defines the core record models for the token store.
package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"
)

// Reserved wire keys managed by the record itself. Custom fields set via
// Set never override these on serialization.
const (
	wireKeyToken       = "token"
	wireKeyNonce       = "nonce"
	wireKeyCreateAt    = "createAt"
	wireKeyUpdateAt    = "updateAt"
	wireKeyMaxAge      = "maxAge"
	wireKeyUserID      = "userId"
	wireKeyIP          = "ip"
	wireKeyFingerprint = "fingerprint"
	wireKeyDeadNext    = "deadNextTime"
	wireKeyFlash       = "flashMessage"
	wireKeySessionName = "sessionName"
	wireKeySteps       = "steps"
)

// Record is the generic ephemeral, TTL-bound record.
//
// A record tracks its own dirtiness: any field mutation (including a TTL
// change) marks it dirty; a successful save or construction from a loaded
// payload leaves it clean. UpdatedAt only advances at Commit time.
//
// The persisted payload is a flat JSON object mixing the reserved keys
// with the caller's custom field bag. Annotations are a transient
// side-table that never appears in the serialized form.
type Record struct {
	token     string
	nonce     string
	createdAt int64 // Unix milliseconds
	updatedAt int64 // Unix milliseconds
	maxAge    int64 // TTL in milliseconds

	values      map[string]any
	annotations map[string]any

	dirty     bool
	persisted bool // a save wrote this in-memory object at least once
	deleted   bool // terminal; save/touch must fail fast
}

// newRecord constructs a fresh, not-yet-persisted record.
// Fresh records start dirty so the first save always writes.
func newRecord(token, nonce string, maxAgeMs, nowMs int64) Record {
	return Record{
		token:     token,
		nonce:     nonce,
		createdAt: nowMs,
		updatedAt: nowMs,
		maxAge:    maxAgeMs,
		values:    make(map[string]any),
		dirty:     true,
	}
}

// Token returns the opaque record identifier. Immutable after construction.
func (r *Record) Token() string { return r.token }

// Nonce returns the random nonce mixed into the token derivation.
func (r *Record) Nonce() string { return r.nonce }

// CreatedAt returns the creation timestamp in Unix milliseconds.
func (r *Record) CreatedAt() int64 { return r.createdAt }

// UpdatedAt returns the last commit timestamp in Unix milliseconds.
func (r *Record) UpdatedAt() int64 { return r.updatedAt }

// MaxAge returns the TTL in milliseconds.
func (r *Record) MaxAge() int64 { return r.maxAge }

// MaxAgeDuration returns the TTL as a time.Duration.
func (r *Record) MaxAgeDuration() time.Duration {
	return time.Duration(r.maxAge) * time.Millisecond
}

// SetMaxAge updates the TTL in milliseconds and marks the record dirty.
func (r *Record) SetMaxAge(maxAgeMs int64) {
	if r.maxAge == maxAgeMs {
		return
	}
	r.maxAge = maxAgeMs
	r.dirty = true
}

// SetMaxAgeDuration updates the TTL from a duration.
func (r *Record) SetMaxAgeDuration(d time.Duration) {
	r.SetMaxAge(d.Milliseconds())
}

// Set stores a custom field. Setting a key to its current value is a
// no-op; setting nil deletes the key. Reserved wire keys are not
// settable through the field bag.
func (r *Record) Set(key string, value any) {
	if isReservedKey(key) {
		return
	}

	current, exists := r.values[key]

	if value == nil {
		if !exists {
			return
		}
		delete(r.values, key)
		r.dirty = true
		return
	}

	if exists && reflect.DeepEqual(current, value) {
		return
	}

	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
	r.dirty = true
}

// Get retrieves a custom field.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// GetString retrieves a custom string field, returning fallback when the
// key is absent or not a string.
func (r *Record) GetString(key, fallback string) string {
	if v, ok := r.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// GetBool retrieves a custom bool field, returning fallback when the key
// is absent or not a bool.
func (r *Record) GetBool(key string, fallback bool) bool {
	if v, ok := r.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// GetInt64 retrieves a custom numeric field, returning fallback when the
// key is absent or not numeric. Loaded payloads carry numbers as
// json.Number.
func (r *Record) GetInt64(key string, fallback int64) int64 {
	v, ok := r.values[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	return fallback
}

// Annotate stores a transient, request-scoped annotation. Annotations
// never appear in the serialized payload and do not affect dirtiness.
func (r *Record) Annotate(key string, value any) {
	if value == nil {
		delete(r.annotations, key)
		return
	}
	if r.annotations == nil {
		r.annotations = make(map[string]any)
	}
	r.annotations[key] = value
}

// Annotation retrieves a transient annotation.
func (r *Record) Annotation(key string) (any, bool) {
	v, ok := r.annotations[key]
	return v, ok
}

// Dirty reports whether any field was mutated since the last save.
func (r *Record) Dirty() bool { return r.dirty }

// Persisted reports whether a save has written this in-memory object.
// The pipeline uses this to skip a redundant TTL refresh right after a
// fresh save (SET with PX already reset the TTL).
func (r *Record) Persisted() bool { return r.persisted }

// Deleted reports whether the record has been deleted. Deleted records
// are terminal: further saves or TTL refreshes fail instead of
// resurrecting the backend key.
func (r *Record) Deleted() bool { return r.deleted }

// Commit advances UpdatedAt to now, only if the record is dirty.
// Callers that want the timestamp refreshed must commit before saving;
// save never commits implicitly.
func (r *Record) Commit() {
	if r.dirty {
		r.updatedAt = time.Now().UnixMilli()
	}
}

// MarkSaved clears dirtiness after a successful backend write.
// Called by the service layer only.
func (r *Record) MarkSaved() {
	r.dirty = false
	r.persisted = true
}

// MarkDeleted moves the record to its terminal deleted state.
// Called by the service layer only.
func (r *Record) MarkDeleted() {
	r.deleted = true
}

// basePayload assembles the reserved base keys plus the custom field bag.
func (r *Record) basePayload() map[string]any {
	payload := make(map[string]any, len(r.values)+5)
	for k, v := range r.values {
		if isReservedKey(k) {
			continue
		}
		payload[k] = v
	}
	payload[wireKeyToken] = r.token
	payload[wireKeyNonce] = r.nonce
	payload[wireKeyCreateAt] = r.createdAt
	payload[wireKeyUpdateAt] = r.updatedAt
	payload[wireKeyMaxAge] = r.maxAge
	return payload
}

// loadBase reconstructs the base record from a decoded payload map,
// consuming the reserved base keys and leaving the rest as the custom
// field bag. Loaded records are clean.
func loadBase(payload map[string]any) Record {
	r := Record{
		token:     takeString(payload, wireKeyToken),
		nonce:     takeString(payload, wireKeyNonce),
		createdAt: takeInt64(payload, wireKeyCreateAt),
		updatedAt: takeInt64(payload, wireKeyUpdateAt),
		maxAge:    takeInt64(payload, wireKeyMaxAge),
		values:    payload,
	}
	return r
}

// decodePayload decodes a raw JSON payload preserving integer precision.
func decodePayload(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = make(map[string]any)
	}
	return payload, nil
}

func isReservedKey(key string) bool {
	switch key {
	case wireKeyToken, wireKeyNonce, wireKeyCreateAt, wireKeyUpdateAt,
		wireKeyMaxAge, wireKeyUserID, wireKeyIP, wireKeyFingerprint,
		wireKeyDeadNext, wireKeyFlash, wireKeySessionName, wireKeySteps:
		return true
	}
	return false
}

func takeString(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	delete(payload, key)
	s, _ := v.(string)
	return s
}

func takeBool(payload map[string]any, key string) bool {
	v, ok := payload[key]
	if !ok {
		return false
	}
	delete(payload, key)
	b, _ := v.(bool)
	return b
}

func takeInt64(payload map[string]any, key string) int64 {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	delete(payload, key)
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
	case float64:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func takeStringSlice(payload map[string]any, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	delete(payload, key)

	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
