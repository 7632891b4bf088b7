package httpapi

import (
	"net/http"
	"time"

	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/platform/metrics"
	"github.com/debeshghorui/Roomsy/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the public API surface. Read endpoints are open,
// every mutation sits behind bearer authentication.
func NewRouter(
	listings *ListingHandler,
	reviews *ReviewHandler,
	users *UserHandler,
	identity *usecase.IdentityUsecase,
	m *metrics.Manager,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(latencyMiddleware(m))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", users.HandleSignup)
		r.Post("/login", users.HandleLogin)
		r.Get("/check-username", users.HandleCheckUsername)

		r.Get("/listings", listings.HandleList)
		r.Get("/listings/{id}", listings.HandleGet)
		r.Get("/listings/{id}/reviews", reviews.HandleListByListing)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(identity, log))

			r.Post("/logout", users.HandleLogout)
			r.Get("/profile", users.HandleProfile)
			r.Patch("/profile", users.HandleUpdateProfile)

			r.Post("/listings", listings.HandleCreate)
			r.Put("/listings/{id}", listings.HandleUpdate)
			r.Delete("/listings/{id}", listings.HandleDelete)

			r.Post("/listings/{id}/reviews", reviews.HandleCreate)
			r.Put("/reviews/{reviewId}", reviews.HandleUpdate)
			r.Delete("/listings/{id}/reviews/{reviewId}", reviews.HandleDelete)
		})
	})

	return r
}

// latencyMiddleware records request latency against the matched route
// pattern, so path parameters do not explode the label space.
func latencyMiddleware(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
