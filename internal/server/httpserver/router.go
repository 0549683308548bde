package httpserver

import (
	"net/http"
	"slices"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/augejs/tokenstore-go/internal/core/service"
	"github.com/augejs/tokenstore-go/internal/server/httpserver/handler"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
	"github.com/augejs/tokenstore-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// AccessService handles access token operations.
	AccessService *service.AccessTokenService

	// SessionService handles session token operations.
	SessionService *service.SessionTokenService

	// StepService handles step token operations.
	StepService *service.StepTokenService

	// Backend is pinged by the readiness endpoint.
	Backend storage.Backend

	// Logger for request logging.
	Logger logger.Logger

	// Metrics collects request and record metrics. Nil disables the
	// /metrics endpoint.
	Metrics *metric.Metrics

	// CheckFingerprint enables client fingerprint verification on
	// access token guards. The fingerprint is always bound at
	// issuance; this flag controls whether guards enforce it.
	CheckFingerprint bool

	// Fingerprint overrides the default fingerprint derivation. The
	// same function serves both issuance and verification.
	Fingerprint FingerprintFunc

	// RateLimitRPS is the per-IP request rate (requests/second).
	// Zero disables rate limiting.
	RateLimitRPS float64

	// RateLimitBurst is the per-IP burst size.
	RateLimitBurst int
}

// NewRouter creates and configures the HTTP router with all routes
// and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	fp := cfg.Fingerprint
	if fp == nil {
		fp = DefaultFingerprint
	}

	h := handler.New(cfg.AccessService, cfg.SessionService, cfg.StepService, cfg.Backend, fp, log)

	guards := NewGuards(&GuardConfig{
		Access:           cfg.AccessService,
		Session:          cfg.SessionService,
		Step:             cfg.StepService,
		Logger:           log,
		Metrics:          cfg.Metrics,
		CheckFingerprint: cfg.CheckFingerprint,
		Fingerprint:      fp,
	})

	// Order: Recover -> RequestID -> AccessLog -> RateLimit -> guard.
	base := []Middleware{
		Recover(log),
		RequestID(),
		AccessLog(log, cfg.Metrics),
	}
	if cfg.RateLimitRPS > 0 {
		base = append(base, RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Metrics))
	}

	route := func(fn http.HandlerFunc, extra ...Middleware) http.Handler {
		return Chain(fn, append(slices.Clone(base), extra...)...)
	}

	mux := http.NewServeMux()

	// Operational endpoints skip rate limiting and guards.
	mux.Handle("GET /health", Chain(http.HandlerFunc(h.Health), Recover(log), RequestID()))
	mux.Handle("GET /ready", Chain(http.HandlerFunc(h.Ready), Recover(log), RequestID()))
	mux.Handle("GET /version", Chain(http.HandlerFunc(h.Version), Recover(log), RequestID()))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{}))
	}

	accessGuard := guards.AccessToken(DefaultAccessGuardOptions())

	// Access tokens. Issuance is open; everything else requires the
	// caller's own token.
	mux.Handle("POST /v1/access-tokens", route(h.CreateAccessToken))
	mux.Handle("GET /v1/access-tokens", route(h.ListAccessTokens, accessGuard))
	mux.Handle("GET /v1/access-tokens/current", route(h.GetCurrentAccessToken, accessGuard))
	mux.Handle("POST /v1/access-tokens/revoke", route(h.RevokeAccessToken, accessGuard))
	mux.Handle("DELETE /v1/access-tokens/current", route(h.DeleteCurrentAccessToken, accessGuard))

	// Session tokens. The guard reads the Session-Token header and
	// settles TTL refresh after the response.
	sessionGuard := guards.SessionToken()
	mux.Handle("POST /v1/session-tokens", route(h.CreateSessionToken))
	mux.Handle("GET /v1/session-tokens/current", route(h.GetCurrentSessionToken, sessionGuard))
	mux.Handle("DELETE /v1/session-tokens/current", route(h.DeleteCurrentSessionToken, sessionGuard))

	// Step tokens are managed by token in the path. Embedding
	// applications guard their own step routes with Guards.StepToken.
	mux.Handle("POST /v1/step-tokens", route(h.CreateStepToken))
	mux.Handle("GET /v1/step-tokens/{token}", route(h.GetStepToken))
	mux.Handle("POST /v1/step-tokens/{token}/advance", route(h.AdvanceStepToken))
	mux.Handle("DELETE /v1/step-tokens/{token}", route(h.DeleteStepToken))

	return mux
}
