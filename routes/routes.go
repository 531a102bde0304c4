package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/asaikali/money-mate/app"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Bearer resolution runs on every request; it only binds an
	// identity and never rejects.
	r.Use(deps.Auth.Resolve)

	// Public endpoints
	r.Get("/", deps.Docs.HandleRoot)
	r.Get("/AGENTS.md", deps.Docs.HandleRoot)
	r.Get("/docs/session", deps.Docs.HandleSessionDocs)
	r.Get("/healthz", deps.Health.HandleHealth)
	r.Get("/readyz", deps.Health.HandleReadiness)

	// Session resource: login is public, the rest requires a session.
	r.Post("/session", deps.Sessions.HandleCreate)
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.RequireSession)
		r.Get("/session", deps.Sessions.HandleGet)
		r.Delete("/session", deps.Sessions.HandleDelete)
	})

	// Protected resources
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.RequireSession)

		r.Get("/users/me", deps.Users.HandleMe)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", deps.Accounts.HandleList)
			r.Get("/{accountID}/balance", deps.Accounts.HandleBalance)
			r.Get("/{accountID}/transactions", deps.Transactions.HandleList)
		})

		r.Get("/banks", deps.Banks.HandleList)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
