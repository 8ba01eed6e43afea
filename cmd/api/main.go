// Package main provides the entrypoint for the attribute extraction API
// server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/api"
	"github.com/galib9690/camels-attrs/internal/api/handler"
	"github.com/galib9690/camels-attrs/internal/api/middleware"
	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/database"
	"github.com/galib9690/camels-attrs/internal/extractor"
	"github.com/galib9690/camels-attrs/internal/results"
	"github.com/galib9690/camels-attrs/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// stackService adapts the production extractor stack to the API's
// extraction interface.
type stackService struct {
	stack  *extractor.Stack
	logger zerolog.Logger
}

func (s *stackService) Extract(ctx context.Context, gaugeID string, climate, hydro attrs.Period) (*attrs.Result, error) {
	orch, err := s.stack.NewOrchestrator(gaugeID, climate, hydro, s.logger, 0)
	if err != nil {
		return nil, err
	}
	return orch.ExtractAll(ctx)
}

func main() {
	const serviceName = "camels-attrs-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting attribute extraction API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Results persistence: Postgres when configured, in-memory otherwise.
	var (
		repo results.Repository
		pool *pgxpool.Pool
	)
	readiness := map[string]handler.ReadinessCheck{}
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		pgRepo := results.NewPostgresRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure results schema")
		}
		repo = pgRepo
		readiness["database"] = pool.Ping
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	} else {
		repo = results.NewInMemoryRepository()
		log.Warn().Msg("DB_HOST not set, storing results in memory")
	}

	stack := extractor.NewStack(ctx, extractor.StackConfig{Logger: log})
	log.Info().Msg("extraction stack initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		Extractor:       &stackService{stack: stack, logger: log},
		Results:         repo,
		ReadinessChecks: readiness,
	})

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
		// Extraction requests fan out to slow upstream services.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
