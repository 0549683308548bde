package handler

import (
	"net/http"

	"github.com/augejs/tokenstore-go/internal/infra/buildinfo"
)

// Health handles GET /health. It reports liveness only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready. It reports readiness by pinging the
// storage backend.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		h.logger.WithContext(r.Context()).Warn("readiness check failed", "error", err)
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// Version handles GET /version.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, buildinfo.Get())
}
