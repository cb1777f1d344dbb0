package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dossier/internal/platform/middleware"
	"dossier/internal/validation/handler"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig collects everything the router needs beyond the handler.
type RouterConfig struct {
	Validator         middleware.TokenValidator
	OperatorTokenHash string
	Logger            *slog.Logger
	Health            []HealthChecker
}

// NewRouter wires the public evaluation surface, the operator surface,
// and the unauthenticated probes.
func NewRouter(h *handler.Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		h.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		r.Use(middleware.RequireOperatorToken(cfg.OperatorTokenHash, cfg.Logger))
		h.RegisterAdmin(r)
	})

	return r
}

func handleHealth(checks []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for _, c := range checks {
			if c == nil {
				continue
			}
			if err := c.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
