package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

const (
	statusOK          = "ok"
	statusReady       = "ready"
	statusNotReady    = "not_ready"
	statusTimeout     = "timeout"
	statusUnavailable = "unavailable"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler reporting on registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. It answers 503 when any store check
// fails. Failed checks report only "timeout" or "unavailable"; the store
// error itself goes to the log since it can name endpoints or accounts.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	results := h.registry.CheckAll(ctx)

	checks := make(map[string]string, len(results))
	healthy := true
	for name, err := range results {
		if err == nil {
			checks[name] = statusOK
			continue
		}
		healthy = false
		checks[name] = checkStatus(err)
		logging.FromContext(ctx).WarnContext(ctx, "readiness check failed",
			slog.String("check", name),
			slog.Any("error", err),
		)
	}

	status := statusReady
	code := http.StatusOK
	if !healthy {
		status = statusNotReady
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func checkStatus(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return statusTimeout
	}
	return statusUnavailable
}
