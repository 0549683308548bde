// Package handler implements the HTTP API endpoints of the token store.
package handler

import (
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
)

// Response is the standard API response envelope.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// CreateAccessTokenRequest is the request body for POST /v1/access-tokens.
type CreateAccessTokenRequest struct {
	UserID string         `json:"user_id"`
	MaxAge string         `json:"max_age,omitempty"`
	Props  map[string]any `json:"props,omitempty"`
}

// RevokeAccessTokenRequest is the request body for
// POST /v1/access-tokens/revoke.
type RevokeAccessTokenRequest struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// CreateSessionTokenRequest is the request body for POST /v1/session-tokens.
type CreateSessionTokenRequest struct {
	SessionName string         `json:"session_name"`
	MaxAge      string         `json:"max_age,omitempty"`
	Props       map[string]any `json:"props,omitempty"`
}

// CreateStepTokenRequest is the request body for POST /v1/step-tokens.
type CreateStepTokenRequest struct {
	SessionName string         `json:"session_name"`
	Steps       []string       `json:"steps"`
	MaxAge      string         `json:"max_age,omitempty"`
	Props       map[string]any `json:"props,omitempty"`
}

// AccessTokenView is the wire representation of an access record.
type AccessTokenView struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	IP        string `json:"ip,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	MaxAge    int64  `json:"max_age"`
	Current   bool   `json:"current,omitempty"`
}

func accessView(rec *domain.AccessRecord, current bool) AccessTokenView {
	return AccessTokenView{
		Token:     rec.Token(),
		UserID:    rec.UserID(),
		IP:        rec.IP(),
		CreatedAt: rec.CreatedAt(),
		UpdatedAt: rec.UpdatedAt(),
		MaxAge:    rec.MaxAge(),
		Current:   current,
	}
}

// SessionTokenView is the wire representation of a session record.
type SessionTokenView struct {
	Token       string `json:"token"`
	SessionName string `json:"session_name"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	MaxAge      int64  `json:"max_age"`
}

func sessionView(rec *domain.SessionRecord) SessionTokenView {
	return SessionTokenView{
		Token:       rec.Token(),
		SessionName: rec.SessionName(),
		CreatedAt:   rec.CreatedAt(),
		UpdatedAt:   rec.UpdatedAt(),
		MaxAge:      rec.MaxAge(),
	}
}

// StepTokenView is the wire representation of a step record.
type StepTokenView struct {
	Token       string   `json:"token"`
	SessionName string   `json:"session_name"`
	Steps       []string `json:"steps"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
	MaxAge      int64    `json:"max_age"`
}

func stepView(rec *domain.StepRecord) StepTokenView {
	return StepTokenView{
		Token:       rec.Token(),
		SessionName: rec.SessionName(),
		Steps:       rec.Steps(),
		CreatedAt:   rec.CreatedAt(),
		UpdatedAt:   rec.UpdatedAt(),
		MaxAge:      rec.MaxAge(),
	}
}
