// Package api provides the HTTP API for the attribute extraction service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/api/handler"
	"github.com/galib9690/camels-attrs/internal/api/middleware"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/results"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Extractor       handler.ExtractionService
	Results         results.Repository
	Registry        *resilience.Registry
	ReadinessChecks map[string]handler.ReadinessCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "camels-attrs-api"
	}
	registry := cfg.Registry
	if registry == nil {
		registry = resilience.GlobalRegistry
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks)
	extractionHandler := handler.NewExtractionHandler(cfg.Extractor, cfg.Results, cfg.Logger)
	providersHandler := handler.NewProvidersHandler(registry)

	extractionRateLimit := middleware.RateLimitByIP(middleware.ExtractionRateLimit) // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)     // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public, unthrottled for probes)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.Route("/extractions", func(r chi.Router) {
			r.With(extractionRateLimit).Post("/", extractionHandler.CreateExtraction)

			r.Route("/{gaugeID}", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", extractionHandler.GetLatestExtraction)
				r.Get("/history", extractionHandler.ListExtractions)
			})
		})

		r.Route("/providers", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/health", providersHandler.GetProvidersHealth)
		})
	})

	return r
}
