package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

// routes wires middlewares and endpoints. Adjust CORS via ALLOWED_ORIGINS.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Instrument)
	r.Use(a.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Post("/sessions", a.handleCreateSession)

		api.Route("/catalog", func(cr chi.Router) {
			cr.Get("/blocks", a.handleListBlocks)
			cr.Get("/models", a.handleListModels)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(a.sessionMiddleware)

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Delete("/", a.handleDisposeSession)
				dr.Get("/state", a.handleState)
				dr.Get("/views/{section}", a.handleView)
				dr.Put("/estate", a.handleSelectEstate)
				dr.Put("/scenario", a.handleUpdateScenario)
				dr.Post("/scenario/reset", a.handleResetScenario)
				dr.With(a.rateLimit).Post("/prompt", a.handlePrompt)
				dr.Post("/actions/{action}", a.handleAction)
				dr.Get("/ticker/stream", a.handleTickerStream)
			})
		})
	})

	return r
}
