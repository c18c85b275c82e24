package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tutorbot/internal/http/handlers"
	"tutorbot/internal/middleware"
)

// NewRouter wires the collaborator-facing API surface.
func NewRouter(app *handlers.App, rateLimitPerMin int) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.RateLimit(rateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/plans", app.Plans)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/start", app.Start)
		r.Post("/messages", app.Messages)
		r.Post("/options", app.Options)
		r.Get("/sessions/{user_id}", app.GetSession)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Post("/plan-upgrade", app.PlanUpgrade)
	})

	return r
}
