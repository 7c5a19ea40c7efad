package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wonderapp/wonder-api/internal/container"
)

// SetupRouter wires the API routes. Server-wide middleware (request ID,
// logging, recoverer) is applied by the caller before mounting.
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://wonderapp.dev"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/geocode", c.GeocodeHandler.Geocode)
		r.Post("/activities/recommend", c.RecommendationHandler.Recommend)
		if c.ActivityHandler != nil {
			r.Get("/activities/{id}", c.ActivityHandler.GetActivityDetail)
		}
	})

	return r
}
