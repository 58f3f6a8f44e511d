package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parsecv/blueprint/internal/api"
	"github.com/parsecv/blueprint/internal/api/handlers"
	"github.com/parsecv/blueprint/internal/api/middleware"
)

type RouterConfig struct {
	AuthValidator    middleware.AuthValidator
	BlueprintHandler *handlers.BlueprintHandler
	AuthHandler      *handlers.AuthHandler
	MetricsRegistry  prometheus.Gatherer
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.AuthValidator))

		r.Route("/blueprints/{subjectID}", func(r chi.Router) {
			r.Get("/", cfg.BlueprintHandler.Get)
			r.Post("/extractions", cfg.BlueprintHandler.MergeExtraction)
			r.Get("/changes", cfg.BlueprintHandler.ListChanges)
		})
	})

	r.Post("/orgs", cfg.AuthHandler.CreateOrg)
	r.Post("/apikeys", cfg.AuthHandler.CreateAPIKey)

	return r
}
