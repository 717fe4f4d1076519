// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from TALLY_* environment
// variables with sensible defaults for everything except the token signing
// secret, which must be supplied explicitly.
//
// # Configuration Structure
//
// Server settings:
//
//	TALLY_HOST="0.0.0.0"
//	TALLY_PORT="8080"
//	TALLY_HEALTH_PORT="8081"
//	TALLY_READ_TIMEOUT="15s"
//	TALLY_WRITE_TIMEOUT="15s"
//	TALLY_IDLE_TIMEOUT="60s"
//	TALLY_SHUTDOWN_TIMEOUT="30s"
//	TALLY_CORS_ORIGINS="https://app.example.com,https://admin.example.com"
//
// Storage settings:
//
//	TALLY_STORAGE_DRIVER="sqlite"  # sqlite (default) or postgres
//	TALLY_SQLITE_PATH="tally.db"
//	TALLY_POSTGRES_URL="postgres://localhost/tally?sslmode=disable"
//	TALLY_POSTGRES_MAX_CONNS="20"
//	TALLY_POSTGRES_MIN_CONNS="2"
//
// Auth settings:
//
//	TALLY_TOKEN_SECRET="..."   # required, no default
//	TALLY_TOKEN_ISSUER="tally"
//	TALLY_TOKEN_TTL="1h"
//	TALLY_BCRYPT_COST="10"
//
// Observability settings:
//
//	TALLY_LOG_LEVEL="info"  # debug, info, warn, error
//	TALLY_LOG_FORMAT="json" # json or text
//	TALLY_METRICS_ENABLED="true"
//	TALLY_TRACING_ENABLED="false"
//	TALLY_OTLP_ENDPOINT="otel-collector:4317"
//	TALLY_SERVICE_NAME="tally"
//	TALLY_SERVICE_VERSION="1.0.0"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s\n", cfg.Server.Addr())
//	fmt.Printf("Storage: %s\n", cfg.Storage.Driver)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/auth: Uses auth configuration
//   - pkg/observability: Uses observability configuration
package config
