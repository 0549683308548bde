package handler

import (
	"net/http"
	"strconv"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/core/service"
	"github.com/augejs/tokenstore-go/internal/server/httpserver/requestctx"
)

// CreateAccessToken handles POST /v1/access-tokens.
//
// Issues a new access token for a user. The client IP and fingerprint
// seen by the server are bound to the record at creation time.
func (h *Handler) CreateAccessToken(w http.ResponseWriter, r *http.Request) {
	var req CreateAccessTokenRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "user_id is required", nil)
		return
	}
	maxAge, ok := h.parseMaxAge(w, r, req.MaxAge)
	if !ok {
		return
	}

	var fp string
	if h.fingerprint != nil {
		fp = h.fingerprint(r)
	}

	rec, err := h.accessSvc.Create(r.Context(), &service.CreateAccessTokenRequest{
		UserID:      req.UserID,
		IP:          getClientIP(r),
		Fingerprint: fp,
		MaxAge:      maxAge,
		Props:       req.Props,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, accessView(rec, false))
}

// GetCurrentAccessToken handles GET /v1/access-tokens/current.
//
// Returns the record attached by the access token guard.
func (h *Handler) GetCurrentAccessToken(w http.ResponseWriter, r *http.Request) {
	rec, ok := requestctx.AccessRecord(r.Context())
	if !ok {
		h.serviceError(w, r, domain.ErrTokenRequired)
		return
	}
	h.writeJSON(w, r, http.StatusOK, accessView(rec, true))
}

// ListAccessTokens handles GET /v1/access-tokens.
//
// Lists the caller's tokens, newest first. The caller's own token is
// excluded unless include_current=true. skip and limit page through
// the result.
func (h *Handler) ListAccessTokens(w http.ResponseWriter, r *http.Request) {
	rec, ok := requestctx.AccessRecord(r.Context())
	if !ok {
		h.serviceError(w, r, domain.ErrTokenRequired)
		return
	}

	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	includeCurrent := q.Get("include_current") == "true"

	records, err := h.accessSvc.ListByUser(r.Context(), &service.ListAccessTokensRequest{
		UserID:         rec.UserID(),
		ExcludeToken:   rec.Token(),
		IncludeCurrent: includeCurrent,
		Skip:           skip,
		Limit:          limit,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	views := make([]AccessTokenView, 0, len(records))
	for _, item := range records {
		views = append(views, accessView(item, item.Token() == rec.Token()))
	}
	h.writeJSON(w, r, http.StatusOK, views)
}

// RevokeAccessToken handles POST /v1/access-tokens/revoke.
//
// Flags another token of the same user as dead on its next use. The
// optional message is delivered verbatim to the revoked bearer.
func (h *Handler) RevokeAccessToken(w http.ResponseWriter, r *http.Request) {
	rec, ok := requestctx.AccessRecord(r.Context())
	if !ok {
		h.serviceError(w, r, domain.ErrTokenRequired)
		return
	}

	var req RevokeAccessTokenRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "token is required", nil)
		return
	}

	// Only the owner may revoke, and never the token in hand. Logout
	// is DELETE /v1/access-tokens/current.
	target, err := h.accessSvc.Resolve(r.Context(), req.Token)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if target.UserID() != rec.UserID() {
		h.serviceError(w, r, domain.ErrRecordNotFound)
		return
	}
	if target.Token() == rec.Token() {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "cannot revoke the current token", nil)
		return
	}

	if err := h.accessSvc.Revoke(r.Context(), req.Token, req.Message); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nil)
}

// DeleteCurrentAccessToken handles DELETE /v1/access-tokens/current.
//
// Logs the caller out. The guard settlement deletes the cleared record
// from storage after the response is written.
func (h *Handler) DeleteCurrentAccessToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestctx.AccessRecord(r.Context()); !ok {
		h.serviceError(w, r, domain.ErrTokenRequired)
		return
	}
	requestctx.ClearAccessRecord(r.Context())
	h.writeJSON(w, r, http.StatusOK, nil)
}
