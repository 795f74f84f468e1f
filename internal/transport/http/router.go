// Package httptransport is the thin HTTP layer. Handlers decode, delegate
// to domain services and encode; business rules never live here.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plangate/internal/platform/metrics"
	"plangate/internal/platform/middleware"
	"plangate/pkg/platform/httputil"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Access    *AccessHandler
	Plans     *PlansHandler
	Audit     *AuditHandler
	Admin     *AdminHandler
	Validator middleware.JWTValidator
	Logger    *slog.Logger
}

// NewRouter wires all endpoints. Health and metrics stay public; everything
// else requires a valid bearer token.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(RequestID)
	r.Use(ClientMetadata)
	r.Use(RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))

		deps.Access.Register(r)
		deps.Plans.Register(r)
		deps.Audit.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", deps.Logger))
			deps.Admin.Register(r)
		})
	})

	return r
}
