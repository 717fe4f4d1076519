package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/tally/pkg/api"
	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/config"
	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage"
	"github.com/platinummonkey/tally/pkg/storage/postgres"
	"github.com/platinummonkey/tally/pkg/storage/sqlite"
)

func main() {
	// A missing .env file is fine; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(map[string]interface{}{
		"addr":   cfg.Server.Addr(),
		"driver": cfg.Storage.Driver,
	}).Info("Starting tally")

	store, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}

	var otelMetrics *observability.OTelMetrics
	if providers != nil {
		otelMetrics, err = observability.NewOTelMetrics()
		if err != nil {
			store.Close()
			log.Fatalf("Failed to create OpenTelemetry metrics: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewDBStatsCollector(store.DB(), "tally"))
	metrics := observability.NewMetrics(registry)

	tokens, err := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to create token service: %v", err)
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	server := api.NewServer(store, tokens, hasher, logger, metrics)

	var apiHandler http.Handler = server.Handler(cfg.Server.CORSOrigins, otelMetrics)
	if providers != nil {
		apiHandler = otelhttp.NewHandler(apiHandler, "tally-api")
	}

	opsMux := http.NewServeMux()
	checker := observability.NewHealthChecker(store.DB(), cfg.Observability.OTelServiceVersion)
	observability.RegisterHealthRoutes(opsMux, checker)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(opsMux, registry)
	}

	group := observability.NewServerGroup(logger, cfg.Server.ShutdownTimeout)
	group.Add("api", &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      apiHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})
	group.Add("ops", &http.Server{
		Addr:         cfg.Server.HealthAddr(),
		Handler:      opsMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})
	group.RegisterShutdownFunc(func(context.Context) error {
		return store.Close()
	})
	if providers != nil {
		group.RegisterShutdownFunc(func(ctx context.Context) error {
			return observability.ShutdownOTel(ctx, providers, logger)
		})
	}

	if err := group.Run(ctx); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *observability.Logger {
	if cfg.Observability.LogFormat == "text" {
		return observability.NewTextLogger(cfg.Observability.LogLevel, os.Stdout)
	}
	return observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
}

func openStore(cfg storage.Config) (storage.Store, error) {
	switch cfg.Driver {
	case "sqlite", "sqlite3":
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		return postgres.New(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
