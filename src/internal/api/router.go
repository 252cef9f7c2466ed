package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maksimkurb/fibctl/src/internal/config"
	"github.com/maksimkurb/fibctl/src/internal/domain"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(cfg *config.Config, engine domain.Engine) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateSubnetOnly) // Restrict access to private subnets
	r.Use(CORS)

	h := NewHandler(cfg, engine)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/routes", h.GetRoutes)
		r.Get("/routes/linux", h.GetLinuxRoutes)
		r.Get("/counters", h.GetCounters)
		r.Get("/validate", h.Validate)
		r.Get("/validate/linux", h.ValidateLinux)
	})

	r.Get("/health", h.CheckHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, r.URL.Path)
	})

	return r
}
