package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calctree/internal/auth"
	"calctree/internal/calculation"
	"calctree/internal/handlers"
	"calctree/internal/observability"
)

// NewRouter wires the HTTP surface. GET /calculations is intentionally
// unauthenticated: it serves every user's trees as a public feed.
func NewRouter(authSvc *auth.Service, calcSvc *calculation.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.MetricsMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", observability.PrometheusHandler())

	r.Post("/auth/register", auth.RegisterHandler(authSvc))
	r.Post("/auth/login", auth.LoginHandler(authSvc))

	r.Get("/calculations", calculation.TreeHandler(calcSvc))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authSvc))
		r.Post("/calculations/starting", calculation.CreateStartingNumberHandler(calcSvc))
		r.Post("/calculations/operation", calculation.CreateOperationHandler(calcSvc))
	})

	return r
}
