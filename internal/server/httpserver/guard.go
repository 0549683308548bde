package httpserver

import (
	"net/http"
	"slices"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/core/service"
	"github.com/augejs/tokenstore-go/internal/server/httpserver/requestctx"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
)

// GuardConfig wires the token guards to the record services.
type GuardConfig struct {
	Access  *service.AccessTokenService
	Session *service.SessionTokenService
	Step    *service.StepTokenService

	Logger  logger.Logger
	Metrics *metric.Metrics

	// CheckFingerprint enables fingerprint verification on access
	// token requests.
	CheckFingerprint bool

	// Fingerprint overrides the default fingerprint derivation.
	Fingerprint FingerprintFunc
}

// Guards builds the per-record-kind middlewares.
type Guards struct {
	access  *service.AccessTokenService
	session *service.SessionTokenService
	step    *service.StepTokenService

	logger           logger.Logger
	metrics          *metric.Metrics
	checkFingerprint bool
	fingerprint      FingerprintFunc
}

// NewGuards creates the guard set.
func NewGuards(cfg *GuardConfig) *Guards {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	fp := cfg.Fingerprint
	if fp == nil {
		fp = DefaultFingerprint
	}
	return &Guards{
		access:           cfg.Access,
		session:          cfg.Session,
		step:             cfg.Step,
		logger:           log,
		metrics:          cfg.Metrics,
		checkFingerprint: cfg.CheckFingerprint,
		fingerprint:      fp,
	}
}

// AccessGuardOptions tunes the access token guard per route.
type AccessGuardOptions struct {
	// Optional lets unauthenticated requests through with no record
	// attached instead of rejecting them.
	Optional bool

	// AutoSave persists the record after the handler when it is dirty.
	AutoSave bool

	// AutoActive refreshes the record TTL after the handler when no
	// save already did (a save rewrites the TTL anyway).
	AutoActive bool
}

// DefaultAccessGuardOptions returns the standard access guard
// behavior: required token, auto-save, auto-refresh.
func DefaultAccessGuardOptions() AccessGuardOptions {
	return AccessGuardOptions{
		AutoSave:   true,
		AutoActive: true,
	}
}

// AccessToken guards a route with access token authentication.
//
// The request flow: extract the token, resolve its record, reject dead
// or fingerprint-divergent records, attach the record, run the
// handler, then settle (delete on clear, save if dirty, refresh TTL).
func (g *Guards) AccessToken(opts AccessGuardOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tok := extractAccessToken(r)
			if tok == "" {
				if opts.Optional {
					next.ServeHTTP(w, r)
					return
				}
				g.reject(w, r, metric.KindAccess, domain.ErrTokenRequired)
				return
			}

			rec, err := g.access.Resolve(ctx, tok)
			if err != nil {
				if opts.Optional {
					next.ServeHTTP(w, r)
					return
				}
				g.reject(w, r, metric.KindAccess, domain.ErrTokenInvalid)
				return
			}

			// A record flagged dead serves exactly one more purpose:
			// telling its bearer why it is gone.
			if rec.DeadNextTime() {
				message := rec.FlashMessage()
				if message == "" {
					message = domain.ErrTokenRevoked.Message
				}
				if err := g.access.Delete(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("failed to delete dead access record", "error", err)
				}
				g.reject(w, r, metric.KindAccess, domain.ErrTokenRevoked.WithMessage(message))
				return
			}

			// The fingerprint was bound when the record was issued.
			// Exact equality is required; any drift reads as a stolen
			// token replayed from another environment.
			if g.checkFingerprint {
				if fp := g.fingerprint(r); rec.Fingerprint() != fp {
					if err := g.access.Delete(ctx, rec); err != nil {
						g.logger.WithContext(ctx).Error("failed to delete hijacked access record", "error", err)
					}
					g.reject(w, r, metric.KindAccess, domain.ErrFingerprintMismatch)
					return
				}
			}

			h := requestctx.NewHolder(rec)
			next.ServeHTTP(w, r.WithContext(requestctx.WithAccess(ctx, h)))

			_, cleared, _ := h.State()
			if cleared {
				if err := g.access.Delete(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("failed to delete cleared access record", "error", err)
				}
				return
			}

			// a pending flash message that survived to a normal request
			// has been delivered; drop it
			if rec.FlashMessage() != "" && !rec.DeadNextTime() {
				rec.ClearFlashMessage()
			}

			if opts.AutoSave && rec.Dirty() {
				if err := g.access.Save(ctx, rec, false); err != nil {
					g.logger.WithContext(ctx).Error("auto-save failed", "error", err)
				}
			}
			if opts.AutoActive && !rec.Persisted() {
				if err := g.access.Touch(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("ttl refresh failed", "error", err)
				}
			}
		})
	}
}

// SessionToken guards a route with session token authentication.
// When sessionNames is non-empty the record's flow name must be one of
// them; a mismatch rejects the request but keeps the record.
func (g *Guards) SessionToken(sessionNames ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tok := extractSessionToken(r)
			if tok == "" {
				g.reject(w, r, metric.KindSession, domain.ErrSessionTokenRequired)
				return
			}

			rec, err := g.session.Resolve(ctx, tok)
			if err != nil {
				g.reject(w, r, metric.KindSession, domain.ErrSessionTokenInvalid)
				return
			}

			if len(sessionNames) > 0 && !slices.Contains(sessionNames, rec.SessionName()) {
				g.reject(w, r, metric.KindSession, domain.ErrSessionNameInvalid)
				return
			}

			h := requestctx.NewHolder(rec)
			next.ServeHTTP(w, r.WithContext(requestctx.WithSession(ctx, h)))

			_, cleared, _ := h.State()
			if cleared {
				if err := g.session.Delete(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("failed to delete cleared session record", "error", err)
				}
				return
			}

			if rec.Dirty() {
				if err := g.session.Save(ctx, rec, false); err != nil {
					g.logger.WithContext(ctx).Error("auto-save failed", "error", err)
				}
			}
			if !rec.Persisted() {
				if err := g.session.Touch(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("ttl refresh failed", "error", err)
				}
			}
		})
	}
}

// StepToken guards a route that completes one step of a multi-step
// flow. The record's current step must equal step; when sessionNames
// is non-empty the flow name must also match.
//
// After the handler the guard retires the record when its step stack
// has drained or the handler swapped in a replacement record.
func (g *Guards) StepToken(step string, sessionNames ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tok := extractStepToken(r)
			if tok == "" {
				g.reject(w, r, metric.KindStep, domain.ErrStepTokenRequired)
				return
			}

			rec, err := g.step.Resolve(ctx, tok)
			if err != nil {
				g.reject(w, r, metric.KindStep, domain.ErrStepTokenInvalid)
				return
			}

			if len(sessionNames) > 0 && !slices.Contains(sessionNames, rec.SessionName()) {
				g.reject(w, r, metric.KindStep, domain.ErrSessionNameInvalid)
				return
			}
			if current, ok := rec.CurrentStep(); !ok || current != step {
				g.reject(w, r, metric.KindStep, domain.ErrStepInvalid)
				return
			}

			h := requestctx.NewHolder(rec)
			next.ServeHTTP(w, r.WithContext(requestctx.WithStep(ctx, h)))

			_, cleared, replaced := h.State()
			if cleared || replaced || !rec.HasNextStep() {
				// the flow is done with this record
				if err := g.step.Delete(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("failed to retire step record", "error", err)
				}
				return
			}

			if rec.Dirty() {
				if err := g.step.Save(ctx, rec, false); err != nil {
					g.logger.WithContext(ctx).Error("auto-save failed", "error", err)
				}
			}
			if !rec.Persisted() {
				if err := g.step.Touch(ctx, rec); err != nil {
					g.logger.WithContext(ctx).Error("ttl refresh failed", "error", err)
				}
			}
		})
	}
}

// reject records the failure and writes the error response.
func (g *Guards) reject(w http.ResponseWriter, r *http.Request, kind string, err *domain.DomainError) {
	g.metrics.AuthFailure(kind, metric.ReasonFromCode(err.Code))
	g.logger.WithContext(r.Context()).Warn("request rejected",
		"kind", kind,
		"code", err.Code,
		"path", r.URL.Path,
		"client_ip", getClientIP(r),
	)
	writeDomainError(w, err)
}
