package service

import (
	"context"
	"sort"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
	"github.com/augejs/tokenstore-go/pkg/token"
)

// AccessTokenService handles the access record lifecycle.
type AccessTokenService struct {
	backend       storage.Backend
	logger        logger.Logger
	metrics       *metric.Metrics
	defaultMaxAge time.Duration
}

// NewAccessTokenService creates an AccessTokenService.
func NewAccessTokenService(backend storage.Backend, log logger.Logger, metrics *metric.Metrics, defaultMaxAge time.Duration) *AccessTokenService {
	if log == nil {
		log = logger.Default()
	}
	return &AccessTokenService{
		backend:       backend,
		logger:        log,
		metrics:       metrics,
		defaultMaxAge: defaultMaxAge,
	}
}

// CreateAccessTokenRequest contains parameters for access record
// creation.
type CreateAccessTokenRequest struct {
	UserID      string         // Required
	IP          string         // Client IP bound at creation
	Fingerprint string         // Client fingerprint bound at creation
	MaxAge      time.Duration  // Optional, defaults to the service default
	Props       map[string]any // Optional custom fields
}

// Create creates and immediately persists a new access record.
func (s *AccessTokenService) Create(ctx context.Context, req *CreateAccessTokenRequest) (*domain.AccessRecord, error) {
	maxAge := req.MaxAge
	if maxAge <= 0 {
		maxAge = s.defaultMaxAge
	}

	rec, err := domain.NewAccessRecord(req.UserID, req.IP, maxAge.Milliseconds())
	if err != nil {
		return nil, err
	}
	if req.Fingerprint != "" {
		rec.SetFingerprint(req.Fingerprint)
	}
	for k, v := range req.Props {
		rec.Set(k, v)
	}

	if err := saveRecord(ctx, s.backend, rec, false, s.metrics, metric.KindAccess); err != nil {
		return nil, err
	}

	s.metrics.RecordCreated(metric.KindAccess)
	s.logger.WithContext(ctx).Info("access record created",
		"user_id", req.UserID, "access_token", rec.Token())
	return rec, nil
}

// Resolve loads the access record a public token points at.
//
// Resolution fails softly: a malformed token, a missing key and a
// corrupt payload all come back as record-not-found, so callers cannot
// distinguish a forged token from an expired one.
func (s *AccessTokenService) Resolve(ctx context.Context, publicToken string) (*domain.AccessRecord, error) {
	key, err := token.DecodeAccessToken(publicToken)
	if err != nil {
		return nil, domain.ErrRecordNotFound.WithCause(err)
	}

	raw, err := fetchPayload(ctx, s.backend, key, s.metrics)
	if err != nil {
		return nil, err
	}

	rec, err := domain.LoadAccessRecord(raw)
	if err != nil {
		s.logger.WithContext(ctx).Warn("discarding corrupt access payload", "key", key, "error", err)
		return nil, domain.ErrRecordNotFound.WithCause(err)
	}
	return rec, nil
}

// Save persists the record if dirty, or unconditionally when force is
// set. Either way a write resets the TTL.
func (s *AccessTokenService) Save(ctx context.Context, rec *domain.AccessRecord, force bool) error {
	return saveRecord(ctx, s.backend, rec, force, s.metrics, metric.KindAccess)
}

// Touch refreshes the TTL without rewriting the payload.
func (s *AccessTokenService) Touch(ctx context.Context, rec *domain.AccessRecord) error {
	return touchRecord(ctx, s.backend, rec, s.metrics, metric.KindAccess)
}

// Delete removes the record unconditionally.
func (s *AccessTokenService) Delete(ctx context.Context, rec *domain.AccessRecord) error {
	if err := deleteRecord(ctx, s.backend, rec, s.metrics, metric.KindAccess); err != nil {
		return err
	}
	s.logger.WithContext(ctx).Info("access record deleted",
		"user_id", rec.UserID(), "access_token", rec.Token())
	return nil
}

// ListAccessTokensRequest contains parameters for the per-user record
// directory.
type ListAccessTokensRequest struct {
	UserID string // Required

	// ExcludeToken drops the caller's own record from the result
	// unless IncludeCurrent is set.
	ExcludeToken   string
	IncludeCurrent bool

	// Skip/Limit page through the sorted result. Limit 0 means all.
	Skip  int
	Limit int
}

// ListByUser enumerates a user's live access records, newest first.
//
// Records that fail to resolve during the scan (expired between scan
// and fetch, or corrupt) are skipped rather than failing the listing.
func (s *AccessTokenService) ListByUser(ctx context.Context, req *ListAccessTokensRequest) ([]*domain.AccessRecord, error) {
	if req.UserID == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("user id is required")
	}

	start := time.Now()
	keys, err := s.backend.Keys(ctx, token.AccessKeyPattern(req.UserID))
	s.metrics.BackendOp("keys", err, time.Since(start))
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	records := make([]*domain.AccessRecord, 0, len(keys))
	for _, key := range keys {
		raw, err := fetchPayload(ctx, s.backend, key, s.metrics)
		if err != nil {
			continue
		}
		rec, err := domain.LoadAccessRecord(raw)
		if err != nil {
			s.logger.WithContext(ctx).Warn("skipping corrupt access payload in listing", "key", key)
			continue
		}
		if !req.IncludeCurrent && req.ExcludeToken != "" && rec.Token() == req.ExcludeToken {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt() > records[j].CreatedAt()
	})

	if req.Skip > 0 {
		if req.Skip >= len(records) {
			return []*domain.AccessRecord{}, nil
		}
		records = records[req.Skip:]
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return records, nil
}

// Revoke flags the record held by another device dead on next use.
//
// The record is not deleted here; the bearing device sees the flash
// message on its next request and only then loses the record. The
// write is forced so the flag lands even on an otherwise clean record.
func (s *AccessTokenService) Revoke(ctx context.Context, publicToken, message string) error {
	rec, err := s.Resolve(ctx, publicToken)
	if err != nil {
		return err
	}

	rec.MarkDeadNextTime(message)
	if err := saveRecord(ctx, s.backend, rec, true, s.metrics, metric.KindAccess); err != nil {
		return err
	}

	s.logger.WithContext(ctx).Info("access record flagged dead",
		"user_id", rec.UserID(), "access_token", rec.Token())
	return nil
}
