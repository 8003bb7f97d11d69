package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	audithttp "github.com/eventosys/eventosys/internal/audit/http"
	"github.com/eventosys/eventosys/internal/auth"
	"github.com/eventosys/eventosys/internal/events"
	"github.com/eventosys/eventosys/internal/guard"
	"github.com/eventosys/eventosys/internal/profile"
	"github.com/eventosys/eventosys/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Middleware     MiddlewareConfig
	Guard          []guard.Interceptor
	AuthHandler    *auth.Handler
	EventsHandler  *events.Handler
	ProfileHandler *profile.Handler
	AuditHandler   *audithttp.Handler
	JobsHandler    *jobs.Handler
}

// NewRouter constructs the chi.Router with EventoSys defaults. The guard
// pipeline mounts after the base stack so every guarded route sees the
// resolved principal.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Middleware) {
		r.Use(mw)
	}
	r.Use(guard.Chain(params.Guard...))
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/accounts", params.AuthHandler.MountRoutes)
	r.Route("/events", params.EventsHandler.MountRoutes)
	r.Route("/departments", params.EventsHandler.MountDepartmentRoutes)
	if params.ProfileHandler != nil {
		r.Route("/users", params.ProfileHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
