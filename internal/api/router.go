package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/confdesk/confdesk/internal/auth"
	"github.com/confdesk/confdesk/internal/middleware"
	"github.com/confdesk/confdesk/internal/storage"
)

// NewRouter wires all handlers and middleware into a chi router.
func NewRouter(store storage.Store, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	authn := auth.NewPasswordAuthenticator(store)
	authHandler := NewAuthHandler(authn, jwtManager)
	assignments := NewAssignmentHandler(store)
	payments := NewPaymentHandler(store)
	conferences := NewConferenceHandler(store)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/assignment/{id}", assignments.Get)
			r.Put("/assignment/{id}/answers", assignments.PutAnswers)
			r.Put("/assignment/{id}/submitted", assignments.PutSubmitted)

			r.Get("/payment/{id}", payments.Get)
			r.Get("/conference/{id}", conferences.Get)
		})
	})

	return r
}
