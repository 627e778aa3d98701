package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/capitalize-ai/realty-chat/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	backends map[string]store.Pinger
}

// NewHealthHandler creates a new health handler over the named backends.
func NewHealthHandler(backends map[string]store.Pinger) *HealthHandler {
	return &HealthHandler{backends: backends}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.backends))
	for name := range h.backends {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.backends[name].Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": name + " unavailable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
