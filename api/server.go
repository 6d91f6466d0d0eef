/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/scenario/*     Session persistence
  /api/enrollments/*  Revenue entry
  /api/items/*        Merged display list
  /api/expenses/*     Expense entry
  /api/settings, /api/master, /api/config, /api/target
  /api/summary, /api/export.csv, /api/report

SECURITY NOTE:
  No authentication middleware. This is a single-operator local tool.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Scenario persistence
		r.Route("/scenario", func(r chi.Router) {
			r.Get("/", h.GetScenario)
			r.Post("/save", h.SaveScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetScenario)
			r.Get("/slots", h.ListSlots)
		})

		// Revenue entry
		r.Route("/enrollments", func(r chi.Router) {
			r.Post("/", h.AddEnrollment)
			r.Post("/bulk", h.AddBulkEnrollments)
			r.Post("/import", h.ImportEnrollments)
		})

		// Merged display list
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.GetItems)
			r.Delete("/{id}", h.RemoveItem)
		})

		// Expense entry
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/fixed", h.AddFixedExpense)
			r.Put("/fixed", h.SetFixedExpense)
			r.Put("/transport", h.SetTransport)
			r.Put("/group", h.SetGroupPayroll)
		})

		// Configuration
		r.Put("/settings", h.UpdateWageSettings)
		r.Put("/master", h.UpdateMasterData)
		r.Put("/config", h.SetConfig)
		r.Put("/target", h.SetTarget)

		// Reports
		r.Get("/summary", h.GetSummary)
		r.Get("/export.csv", h.ExportCSV)
		r.Get("/report", h.GetReport)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Tuition Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Tuition Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/scenario">/api/scenario</a> - Session snapshot</li>
<li><a href="/api/items">/api/items</a> - Display list</li>
<li><a href="/api/summary">/api/summary</a> - Totals</li>
<li><a href="/api/report">/api/report</a> - Monthly report</li>
</ul>
</body>
</html>`))
	})

	return r
}
