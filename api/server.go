/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/partnerships/*   Partnership, expense, goal, ledger, pot, streak ops
  /api/health           Liveness probe

SECURITY NOTE:
  No authentication middleware. The engine trusts its callers; identity and
  auth live in the surrounding platform.

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

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/partnerships", func(r chi.Router) {
			r.Get("/", h.ListPartnerships)
			r.Post("/", h.CreatePartnership)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPartnership)
				r.Put("/incomes", h.UpdateIncomes)

				r.Route("/expenses", func(r chi.Router) {
					r.Get("/", h.ListExpenses)
					r.Post("/", h.CreateExpense)
					r.Delete("/{expenseID}", h.DeleteExpense)
				})

				r.Route("/goals", func(r chi.Router) {
					r.Get("/", h.ListGoals)
					r.Post("/", h.CreateGoal)
					r.Get("/allocations", h.GetAllocations)
					r.Post("/redistribute", h.Redistribute)
				})

				r.Get("/split", h.GetSplit)
				r.Route("/ledger", func(r chi.Router) {
					r.Get("/", h.ListLedger)
					r.Post("/{month}/pay", h.MarkPaid)
				})

				r.Route("/contributions", func(r chi.Router) {
					r.Get("/", h.ListContributions)
					r.Post("/", h.RecordContribution)
				})

				r.Route("/safety-pot", func(r chi.Router) {
					r.Get("/", h.GetSafetyPot)
					r.Post("/contribute", h.ContributeToPot)
					r.Post("/withdraw", h.WithdrawFromPot)
					r.Get("/report", h.GetPotReport)
				})

				r.Get("/users/{userID}/streaks", h.GetStreaks)
			})
		})
	})

	return r
}
