/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a frontend
  5. Sessions:   Bearer-token auth on everything except /api/login

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

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Everything else needs a session token.
		r.Group(func(r chi.Router) {
			r.Use(h.Sessions.Middleware)

			r.Route("/workers", func(r chi.Router) {
				r.Get("/", h.ListWorkers)
				r.Post("/", h.CreateWorker)
				r.Put("/{name}", h.UpdateWorker)
				r.Delete("/{name}", h.DeleteWorker)
			})

			r.Get("/crews", h.ListCrews)
			r.Route("/crews/{crew}/attendance", func(r chi.Router) {
				r.Get("/", h.GetAttendanceGrid)
				r.Put("/", h.SaveAttendanceGrid)
			})

			r.Route("/advances", func(r chi.Router) {
				r.Get("/", h.ListAdvances)
				r.Post("/", h.CreateAdvance)
			})

			r.Get("/period", h.GetPeriod)
			r.Get("/payroll", h.GetPayrollReport)
		})
	})

	return r
}
