package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zabbixmcp/zabbixmcp/internal/config"
	"github.com/zabbixmcp/zabbixmcp/internal/middleware"
)

// NewRouter creates and configures the API router.
func NewRouter(cfg *config.Config, deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))

	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
			cfg.CORS.MaxAgeSeconds,
		))
	}

	healthHandler := NewHealthHandler(deps)
	systemHandler := NewSystemHandler(deps)

	// Public routes (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoint
		r.Post("/login", systemHandler.Login)

		// Protected routes (require JWT)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(deps.Auth))

			r.Get("/tools", systemHandler.ListTools)
			r.Post("/tools/{name}", systemHandler.InvokeTool)
		})
	})

	return r
}
