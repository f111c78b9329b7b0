package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/neo-outreach/internal/httpx/response"
)

// ReadinessChecker reports whether a dependency can serve requests
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks map[string]ReadinessChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checks map[string]ReadinessChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// RegisterRoutes registers probe routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Live())
	r.Get("/readyz", h.Ready())
}

// Live handles GET /healthz
func (h *HealthHandler) Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	}
}

// Ready handles GET /readyz
func (h *HealthHandler) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failed := make(map[string]string)
		for name, check := range h.checks {
			if err := check.Ready(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			response.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"checks": failed,
			})
			return
		}
		response.OK(w, map[string]string{"status": "ready"})
	}
}

// ReadyFunc adapts a plain function to ReadinessChecker
type ReadyFunc func(ctx context.Context) error

// Ready calls f
func (f ReadyFunc) Ready(ctx context.Context) error {
	return f(ctx)
}
