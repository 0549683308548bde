package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/core/service"
	"github.com/augejs/tokenstore-go/internal/storage"
	"github.com/augejs/tokenstore-go/internal/telemetry/logger"
)

// Handler holds the record services behind the HTTP API.
type Handler struct {
	accessSvc   *service.AccessTokenService
	sessionSvc  *service.SessionTokenService
	stepSvc     *service.StepTokenService
	backend     storage.Backend
	fingerprint func(*http.Request) string
	logger      logger.Logger
}

// New creates a Handler with the given services. The backend is used
// for readiness checks only. fingerprint derives the client
// fingerprint bound to newly issued access records; it must be the
// same derivation the access token guard verifies against. Nil binds
// no fingerprint.
func New(accessSvc *service.AccessTokenService, sessionSvc *service.SessionTokenService, stepSvc *service.StepTokenService, backend storage.Backend, fingerprint func(*http.Request) string, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		accessSvc:   accessSvc,
		sessionSvc:  sessionSvc,
		stepSvc:     stepSvc,
		backend:     backend,
		fingerprint: fingerprint,
		logger:      log,
	}
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(w, r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(w, r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// serviceError converts a service error to an HTTP response. Domain
// errors carry their own status; anything else is a 500.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		var details any
		if de.Details != "" {
			details = de.Details
		}
		h.writeError(w, r, de.HTTPStatus(), de.Code, de.Message, details)
		return
	}

	h.logger.WithContext(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError,
		domain.ErrInternalServer.Code, "internal server error", nil)
}

// decodeBody decodes a JSON request body into target.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "invalid request body", nil)
		return false
	}
	return true
}

// parseMaxAge turns an optional max_age body field into a duration.
// Empty means "use the service default" and returns 0.
func (h *Handler) parseMaxAge(w http.ResponseWriter, r *http.Request, value string) (time.Duration, bool) {
	if value == "" {
		return 0, true
	}
	ms, err := domain.ParseMaxAge(value)
	if err != nil {
		h.serviceError(w, r, err)
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// getRequestID reads the request ID set by the middleware.
func getRequestID(w http.ResponseWriter, r *http.Request) string {
	if id := w.Header().Get("X-Request-ID"); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
