// Package httptransport assembles the service router from the
// per-domain handler packages. Each handler mounts its own sub-router
// with its own middleware chain; this package only adds the operational
// endpoints every deployment needs.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mintgate/pkg/platform/httputil"
)

// Registrar is implemented by every handler package that mounts routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency for /healthz. Checks must be cheap;
// they run on every probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// NewRouter builds the full router: operational endpoints first, then
// every registrar's routes. Static paths win over the mint handler's
// root mount, so /healthz and /metrics stay reachable.
func NewRouter(logger *slog.Logger, checks []HealthCheck, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth(logger, checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, registrar := range registrars {
		registrar.Register(r)
	}

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func handleHealth(logger *slog.Logger, checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		failed := make(map[string]string)
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				failed[check.Name] = err.Error()
			}
		}

		if len(failed) > 0 {
			logger.WarnContext(ctx, "health check failed", "checks", failed)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status: "unavailable",
				Checks: failed,
			})
			return
		}

		httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
