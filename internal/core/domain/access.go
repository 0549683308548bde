// Package domain defines the core record models for the token store.
package domain

import (
	"encoding/json"
	"time"

	"github.com/augejs/tokenstore-go/pkg/token"
)

// AccessRecord is an authenticated user session record.
//
// Its backend storage key is namespaced under the owning user
// (access:{userId}:{hash}); the public token is a reversible hex encoding
// of that key, so the key is recoverable from the token without a lookup
// table and sibling records are enumerable by prefix scan.
type AccessRecord struct {
	Record

	key         string
	userID      string
	ip          string
	fingerprint string

	// Soft invalidation: when deadNextTime is set, the next request
	// bearing this token is rejected with flashMessage and the record is
	// deleted. Both fields persist so one device can revoke another.
	deadNextTime bool
	flashMessage string
}

// NewAccessRecord creates a fresh, not-yet-persisted access record.
func NewAccessRecord(userID, ip string, maxAgeMs int64) (*AccessRecord, error) {
	if userID == "" {
		return nil, ErrInvalidArgument.WithDetails("user id is required")
	}

	nonce, err := token.Nonce()
	if err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}

	now := time.Now().UnixMilli()
	key := token.DeriveAccessKey(userID, ip, nonce, now)

	return &AccessRecord{
		Record: newRecord(token.EncodeAccessToken(key), nonce, maxAgeMs, now),
		key:    key,
		userID: userID,
		ip:     ip,
	}, nil
}

// LoadAccessRecord reconstructs an access record from a stored payload.
// The returned record is clean. Errors indicate a corrupt payload and
// must be treated as "not found" by callers.
func LoadAccessRecord(data []byte) (*AccessRecord, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, ErrRecordNotFound.WithCause(err)
	}

	r := &AccessRecord{
		userID:       takeString(payload, wireKeyUserID),
		ip:           takeString(payload, wireKeyIP),
		fingerprint:  takeString(payload, wireKeyFingerprint),
		deadNextTime: takeBool(payload, wireKeyDeadNext),
		flashMessage: takeString(payload, wireKeyFlash),
	}
	r.Record = loadBase(payload)

	key, err := token.DecodeAccessToken(r.Token())
	if err != nil {
		return nil, ErrRecordNotFound.WithCause(err)
	}
	r.key = key

	return r, nil
}

// Key returns the backend storage key.
func (r *AccessRecord) Key() string { return r.key }

// UserID returns the owning user. Immutable.
func (r *AccessRecord) UserID() string { return r.userID }

// IP returns the client IP bound at creation. Immutable.
func (r *AccessRecord) IP() string { return r.ip }

// Fingerprint returns the bound client fingerprint.
func (r *AccessRecord) Fingerprint() string { return r.fingerprint }

// SetFingerprint binds a client fingerprint to the record.
func (r *AccessRecord) SetFingerprint(fp string) {
	if r.fingerprint == fp {
		return
	}
	r.fingerprint = fp
	r.dirty = true
}

// DeadNextTime reports whether the record is flagged dead on next use.
func (r *AccessRecord) DeadNextTime() bool { return r.deadNextTime }

// MarkDeadNextTime flags the record dead on next use with a reason the
// bearer will see. The record is not deleted here; the pipeline deletes
// it when the flag is observed.
func (r *AccessRecord) MarkDeadNextTime(message string) {
	if r.deadNextTime && r.flashMessage == message {
		return
	}
	r.deadNextTime = true
	r.flashMessage = message
	r.dirty = true
}

// FlashMessage returns the pending flash message, if any.
func (r *AccessRecord) FlashMessage() string { return r.flashMessage }

// ClearFlashMessage clears the pending flash message.
func (r *AccessRecord) ClearFlashMessage() {
	if r.flashMessage == "" {
		return
	}
	r.flashMessage = ""
	r.dirty = true
}

// MarshalPayload serializes the record into its wire form.
func (r *AccessRecord) MarshalPayload() ([]byte, error) {
	payload := r.basePayload()
	payload[wireKeyUserID] = r.userID
	payload[wireKeyIP] = r.ip
	if r.fingerprint != "" {
		payload[wireKeyFingerprint] = r.fingerprint
	}
	if r.deadNextTime {
		payload[wireKeyDeadNext] = true
	}
	if r.flashMessage != "" {
		payload[wireKeyFlash] = r.flashMessage
	}
	return json.Marshal(payload)
}
