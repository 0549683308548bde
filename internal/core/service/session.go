package service

import (
	"context"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
)

// SessionTokenService handles the session record lifecycle.
//
// Session records back short-lived pre-auth flows (login, captcha,
// password reset). Their token is the backend key, so resolution is a
// single GET with no decoding step.
type SessionTokenService struct {
	backend       storage.Backend
	logger        logger.Logger
	metrics       *metric.Metrics
	defaultMaxAge time.Duration
}

// NewSessionTokenService creates a SessionTokenService.
func NewSessionTokenService(backend storage.Backend, log logger.Logger, metrics *metric.Metrics, defaultMaxAge time.Duration) *SessionTokenService {
	if log == nil {
		log = logger.Default()
	}
	return &SessionTokenService{
		backend:       backend,
		logger:        log,
		metrics:       metrics,
		defaultMaxAge: defaultMaxAge,
	}
}

// CreateSessionTokenRequest contains parameters for session record
// creation.
type CreateSessionTokenRequest struct {
	SessionName string         // Required flow name
	MaxAge      time.Duration  // Optional, defaults to the service default
	Props       map[string]any // Optional custom fields
}

// Create creates and immediately persists a new session record.
func (s *SessionTokenService) Create(ctx context.Context, req *CreateSessionTokenRequest) (*domain.SessionRecord, error) {
	maxAge := req.MaxAge
	if maxAge <= 0 {
		maxAge = s.defaultMaxAge
	}

	rec, err := domain.NewSessionRecord(req.SessionName, maxAge.Milliseconds(), req.Props)
	if err != nil {
		return nil, err
	}

	if err := saveRecord(ctx, s.backend, rec, false, s.metrics, metric.KindSession); err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(metric.KindSession)
	s.logger.WithContext(ctx).Info("session record created",
		"session_name", req.SessionName, "session_token", rec.Token())
	return rec, nil
}

// Resolve loads the session record a token points at. Misses and
// corrupt payloads come back as record-not-found.
func (s *SessionTokenService) Resolve(ctx context.Context, tok string) (*domain.SessionRecord, error) {
	raw, err := fetchPayload(ctx, s.backend, tok, s.metrics)
	if err != nil {
		return nil, err
	}

	rec, err := domain.LoadSessionRecord(raw)
	if err != nil {
		s.logger.WithContext(ctx).Warn("discarding corrupt session payload", "session_token", tok)
		return nil, domain.ErrRecordNotFound.WithCause(err)
	}
	return rec, nil
}

// Save persists the record if dirty, or unconditionally when force is
// set.
func (s *SessionTokenService) Save(ctx context.Context, rec *domain.SessionRecord, force bool) error {
	return saveRecord(ctx, s.backend, rec, force, s.metrics, metric.KindSession)
}

// Touch refreshes the TTL without rewriting the payload.
func (s *SessionTokenService) Touch(ctx context.Context, rec *domain.SessionRecord) error {
	return touchRecord(ctx, s.backend, rec, s.metrics, metric.KindSession)
}

// Delete removes the record unconditionally.
func (s *SessionTokenService) Delete(ctx context.Context, rec *domain.SessionRecord) error {
	return deleteRecord(ctx, s.backend, rec, s.metrics, metric.KindSession)
}
