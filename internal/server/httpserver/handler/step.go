package handler

import (
	"net/http"

	"github.com/augejs/tokenstore-go/internal/core/domain"
	"github.com/augejs/tokenstore-go/internal/core/service"
)

// CreateStepToken handles POST /v1/step-tokens.
//
// Opens a multi-step workflow such as password reset. Steps are
// consumed in order; draining the last step retires the token.
func (h *Handler) CreateStepToken(w http.ResponseWriter, r *http.Request) {
	var req CreateStepTokenRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.SessionName == "" {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "session_name is required", nil)
		return
	}
	if len(req.Steps) == 0 {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "steps is required", nil)
		return
	}
	maxAge, ok := h.parseMaxAge(w, r, req.MaxAge)
	if !ok {
		return
	}

	rec, err := h.stepSvc.Create(r.Context(), &service.CreateStepTokenRequest{
		SessionName: req.SessionName,
		Steps:       req.Steps,
		MaxAge:      maxAge,
		Props:       req.Props,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, stepView(rec))
}

// GetStepToken handles GET /v1/step-tokens/{token}.
func (h *Handler) GetStepToken(w http.ResponseWriter, r *http.Request) {
	rec, err := h.stepSvc.Resolve(r.Context(), r.PathValue("token"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stepView(rec))
}

// AdvanceStepToken handles POST /v1/step-tokens/{token}/advance.
//
// Consumes the current step. When the last step is drained the record
// is deleted and the response carries no remaining steps.
func (h *Handler) AdvanceStepToken(w http.ResponseWriter, r *http.Request) {
	rec, err := h.stepSvc.Resolve(r.Context(), r.PathValue("token"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	if _, ok := rec.PopStep(); !ok {
		h.serviceError(w, r, domain.ErrStepInvalid)
		return
	}

	if rec.HasNextStep() {
		if err := h.stepSvc.Save(r.Context(), rec, false); err != nil {
			h.serviceError(w, r, err)
			return
		}
	} else if err := h.stepSvc.Delete(r.Context(), rec); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, stepView(rec))
}

// DeleteStepToken handles DELETE /v1/step-tokens/{token}.
func (h *Handler) DeleteStepToken(w http.ResponseWriter, r *http.Request) {
	rec, err := h.stepSvc.Resolve(r.Context(), r.PathValue("token"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if err := h.stepSvc.Delete(r.Context(), rec); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nil)
}
