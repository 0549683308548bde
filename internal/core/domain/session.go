// Package domain defines the core record models for the token store.
package domain

import (
	"encoding/json"
	"time"

	"github.com/augejs/tokenstore-go/pkg/token"
)

// SessionRecord is a named short-lived session record.
//
// Its token doubles directly as the backend storage key.
type SessionRecord struct {
	Record

	sessionName string
}

// NewSessionRecord creates a fresh, not-yet-persisted session record.
// props seeds the custom field bag.
func NewSessionRecord(sessionName string, maxAgeMs int64, props map[string]any) (*SessionRecord, error) {
	if sessionName == "" {
		return nil, ErrInvalidArgument.WithDetails("session name is required")
	}

	nonce, err := token.Nonce()
	if err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}

	now := time.Now().UnixMilli()
	r := &SessionRecord{
		Record:      newRecord(token.DeriveSessionToken(nonce, now), nonce, maxAgeMs, now),
		sessionName: sessionName,
	}
	for k, v := range props {
		r.Set(k, v)
	}
	return r, nil
}

// LoadSessionRecord reconstructs a session record from a stored payload.
// The returned record is clean.
func LoadSessionRecord(data []byte) (*SessionRecord, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, ErrRecordNotFound.WithCause(err)
	}

	r := &SessionRecord{
		sessionName: takeString(payload, wireKeySessionName),
	}
	r.Record = loadBase(payload)
	return r, nil
}

// Key returns the backend storage key (the token itself).
func (r *SessionRecord) Key() string { return r.Token() }

// SessionName returns the flow this record belongs to. Immutable.
func (r *SessionRecord) SessionName() string { return r.sessionName }

// MarshalPayload serializes the record into its wire form.
func (r *SessionRecord) MarshalPayload() ([]byte, error) {
	payload := r.basePayload()
	payload[wireKeySessionName] = r.sessionName
	return json.Marshal(payload)
}
