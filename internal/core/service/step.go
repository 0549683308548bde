package service

import (
	"context"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
)

// StepTokenService handles the step record lifecycle.
//
// Step records carry an ordered workflow (e.g. verify-email then
// set-password) through a chain of requests under one token.
type StepTokenService struct {
	backend       storage.Backend
	logger        logger.Logger
	metrics       *metric.Metrics
	defaultMaxAge time.Duration
}

// NewStepTokenService creates a StepTokenService.
func NewStepTokenService(backend storage.Backend, log logger.Logger, metrics *metric.Metrics, defaultMaxAge time.Duration) *StepTokenService {
	if log == nil {
		log = logger.Default()
	}
	return &StepTokenService{
		backend:       backend,
		logger:        log,
		metrics:       metrics,
		defaultMaxAge: defaultMaxAge,
	}
}

// CreateStepTokenRequest contains parameters for step record creation.
type CreateStepTokenRequest struct {
	SessionName string         // Required flow name
	Steps       []string       // Workflow in order, first step at index 0
	MaxAge      time.Duration  // Optional, defaults to the service default
	Props       map[string]any // Optional custom fields
}

// Create creates and immediately persists a new step record.
func (s *StepTokenService) Create(ctx context.Context, req *CreateStepTokenRequest) (*domain.StepRecord, error) {
	maxAge := req.MaxAge
	if maxAge <= 0 {
		maxAge = s.defaultMaxAge
	}

	rec, err := domain.NewStepRecord(req.SessionName, maxAge.Milliseconds(), req.Steps, req.Props)
	if err != nil {
		return nil, err
	}

	if err := saveRecord(ctx, s.backend, rec, false, s.metrics, metric.KindStep); err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(metric.KindStep)
	s.logger.WithContext(ctx).Info("step record created",
		"session_name", req.SessionName, "steps", req.Steps, "step_token", rec.Token())
	return rec, nil
}

// Resolve loads the step record a token points at. Misses and corrupt
// payloads come back as record-not-found.
func (s *StepTokenService) Resolve(ctx context.Context, tok string) (*domain.StepRecord, error) {
	raw, err := fetchPayload(ctx, s.backend, tok, s.metrics)
	if err != nil {
		return nil, err
	}

	rec, err := domain.LoadStepRecord(raw)
	if err != nil {
		s.logger.WithContext(ctx).Warn("discarding corrupt step payload", "step_token", tok)
		return nil, domain.ErrRecordNotFound.WithCause(err)
	}
	return rec, nil
}

// Save persists the record if dirty, or unconditionally when force is
// set.
func (s *StepTokenService) Save(ctx context.Context, rec *domain.StepRecord, force bool) error {
	return saveRecord(ctx, s.backend, rec, force, s.metrics, metric.KindStep)
}

// Touch refreshes the TTL without rewriting the payload.
func (s *StepTokenService) Touch(ctx context.Context, rec *domain.StepRecord) error {
	return touchRecord(ctx, s.backend, rec, s.metrics, metric.KindStep)
}

// Delete removes the record unconditionally.
func (s *StepTokenService) Delete(ctx context.Context, rec *domain.StepRecord) error {
	return deleteRecord(ctx, s.backend, rec, s.metrics, metric.KindStep)
}
