// Package observability provides structured logging, Prometheus metrics,
// health checks, OpenTelemetry tracing and coordinated server lifecycle.
//
// # Structured Logging
//
// Create a logger and attach fields:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("addr", addr).Info("Server started")
//	logger.WithError(err).Error("Request failed")
//
// Request-scoped loggers travel through the context (keys shared via
// pkg/contextkeys):
//
//	log := observability.FromContext(r.Context()) // request_id attached
//
// # Prometheus Metrics
//
// Initialize metrics on a private registry:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.LoginsTotal.WithLabelValues(observability.ResultSuccess).Inc()
//
// HTTP traffic is instrumented by HTTPMetricsMiddleware; the registry is
// served by RegisterMetricsEndpoint on the ops listener.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(store.DB(), version)
//	observability.RegisterHealthRoutes(opsMux, checker)
//	// GET /health, /health/live, /health/ready
//
// # OpenTelemetry
//
// InitOTel wires OTLP/gRPC trace and metric exporters and installs the
// global providers:
//
//	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Server Lifecycle
//
// ServerGroup runs the API and ops listeners together and handles
// signal-driven graceful shutdown:
//
//	group := observability.NewServerGroup(logger, cfg.Server.ShutdownTimeout)
//	group.Add("api", apiServer)
//	group.Add("ops", opsServer)
//	group.RegisterShutdownFunc(func(ctx context.Context) error { return store.Close() })
//	err := group.Run(ctx)
//
// # Related Packages
//
//   - pkg/config: observability configuration
//   - pkg/httputil: request logging and request ID middleware
package observability
