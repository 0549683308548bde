package handler

import (
	"net/http"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/core/service"
	"github.com/augejs/tokenstore-go/internal/server/httpserver/requestctx"
)

// CreateSessionToken handles POST /v1/session-tokens.
//
// Opens a new short-lived flow session, e.g. a login or captcha flow.
func (h *Handler) CreateSessionToken(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionTokenRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.SessionName == "" {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "session_name is required", nil)
		return
	}
	maxAge, ok := h.parseMaxAge(w, r, req.MaxAge)
	if !ok {
		return
	}

	rec, err := h.sessionSvc.Create(r.Context(), &service.CreateSessionTokenRequest{
		SessionName: req.SessionName,
		MaxAge:      maxAge,
		Props:       req.Props,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, sessionView(rec))
}

// GetCurrentSessionToken handles GET /v1/session-tokens/current.
//
// Returns the record attached by the session token guard. Resolving
// the token also refreshes its TTL through guard settlement.
func (h *Handler) GetCurrentSessionToken(w http.ResponseWriter, r *http.Request) {
	rec, ok := requestctx.SessionRecord(r.Context())
	if !ok {
		h.serviceError(w, r, domain.ErrSessionTokenRequired)
		return
	}
	h.writeJSON(w, r, http.StatusOK, sessionView(rec))
}

// DeleteCurrentSessionToken handles DELETE /v1/session-tokens/current.
//
// Ends the flow. The guard settlement deletes the cleared record.
func (h *Handler) DeleteCurrentSessionToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestctx.SessionRecord(r.Context()); !ok {
		h.serviceError(w, r, domain.ErrSessionTokenRequired)
		return
	}
	requestctx.ClearSessionRecord(r.Context())
	h.writeJSON(w, r, http.StatusOK, nil)
}
