// Package domain defines the core record models for the token store.
package domain

import (
	"encoding/json"
	"time"

	"github.com/augejs/tokenstore-go/pkg/token"
)

// StepRecord is an ordered multi-step workflow record.
//
// Steps form a stack with the current step at the front. A flow like
// "verify-email" then "set-password" starts with both steps pushed;
// completing a step pops it, and the pipeline retires the record once the
// stack drains or the handler issues a replacement token.
type StepRecord struct {
	Record

	sessionName string
	steps       []string
}

// NewStepRecord creates a fresh, not-yet-persisted step record.
// steps lists the workflow in order, first step at index 0; it may be
// empty but the stack is never nil after creation.
func NewStepRecord(sessionName string, maxAgeMs int64, steps []string, props map[string]any) (*StepRecord, error) {
	if sessionName == "" {
		return nil, ErrInvalidArgument.WithDetails("session name is required")
	}

	nonce, err := token.Nonce()
	if err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}

	now := time.Now().UnixMilli()
	r := &StepRecord{
		Record:      newRecord(token.DeriveSessionToken(nonce, now), nonce, maxAgeMs, now),
		sessionName: sessionName,
		steps:       append([]string(nil), steps...),
	}
	if r.steps == nil {
		r.steps = []string{}
	}
	for k, v := range props {
		r.Set(k, v)
	}
	return r, nil
}

// LoadStepRecord reconstructs a step record from a stored payload.
// The returned record is clean.
func LoadStepRecord(data []byte) (*StepRecord, error) {
	payload, err := decodePayload(data)
	if err != nil {
		return nil, ErrRecordNotFound.WithCause(err)
	}

	r := &StepRecord{
		sessionName: takeString(payload, wireKeySessionName),
		steps:       takeStringSlice(payload, wireKeySteps),
	}
	if r.steps == nil {
		r.steps = []string{}
	}
	r.Record = loadBase(payload)
	return r, nil
}

// Key returns the backend storage key (the token itself).
func (r *StepRecord) Key() string { return r.Token() }

// SessionName returns the flow this record belongs to. Immutable.
func (r *StepRecord) SessionName() string { return r.sessionName }

// Steps returns a copy of the step stack, current step first.
func (r *StepRecord) Steps() []string {
	return append([]string(nil), r.steps...)
}

// PushStep prepends a step, making it the current one.
func (r *StepRecord) PushStep(step string) {
	r.steps = append([]string{step}, r.steps...)
	r.dirty = true
}

// PopStep removes and returns the current step.
// Returns "" and false when the stack is empty.
func (r *StepRecord) PopStep() (string, bool) {
	if len(r.steps) == 0 {
		return "", false
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	r.dirty = true
	return step, true
}

// CurrentStep peeks the current step without removing it.
// Returns "" and false when the stack is empty.
func (r *StepRecord) CurrentStep() (string, bool) {
	if len(r.steps) == 0 {
		return "", false
	}
	return r.steps[0], true
}

// HasNextStep reports whether any step remains.
func (r *StepRecord) HasNextStep() bool {
	return len(r.steps) > 0
}

// MarshalPayload serializes the record into its wire form.
func (r *StepRecord) MarshalPayload() ([]byte, error) {
	payload := r.basePayload()
	payload[wireKeySessionName] = r.sessionName
	payload[wireKeySteps] = r.steps
	return json.Marshal(payload)
}
