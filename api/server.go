/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the browser frontend

ROUTE GROUPS:
  /api/simulations      Projections
  /api/rates/*          Daily rate lookup
  /api/annualize        Rate conversion
  /api/holidays/*       Effective holidays per year
  /api/custom-holidays  Host-managed holidays
  /api/scenarios/*      Canned simulations
  /api/admin/*          Cache operations
  /api/health           Liveness

SECURITY NOTE:
  No authentication middleware. The admin routes only touch caches.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. An empty
// origins list allows any origin.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	r := chi.NewRouter()

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/simulations", h.Simulate)

		r.Get("/rates/{year}", h.GetRate)
		r.Get("/annualize", h.Annualize)

		r.Get("/holidays/{year}", h.GetYearHolidays)

		// Custom holiday routes
		r.Route("/custom-holidays", func(r chi.Router) {
			r.Get("/", h.ListCustomHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/{id}/run", h.RunScenario)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Get("/prefetch", h.PrefetchStatus)
			r.Post("/prefetch", h.Prefetch)
			r.Post("/reset", h.ResetCache)
		})
	})

	return r
}
