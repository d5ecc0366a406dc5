package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

// ReadinessChecker reports whether backing stores are reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	logger  *observability.Logger
	checker ReadinessChecker
	service string
}

// NewHealthHandler creates a health handler. checker may be nil.
func NewHealthHandler(logger *observability.Logger, checker ReadinessChecker, service string) *HealthHandler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &HealthHandler{logger: logger, checker: checker, service: service}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.service,
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.checker.Ping(ctx); err != nil {
			h.logger.WithContext(r.Context()).Warn().Err(err).Msg("Readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ready"})
}
