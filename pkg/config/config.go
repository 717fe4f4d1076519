package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Auth configuration (token signing, password hashing)
	Auth AuthConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// Origins allowed by the CORS middleware. "*" allows everyone.
	CORSOrigins []string
}

// Addr returns the API listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// HealthAddr returns the ops (health + metrics) listen address.
func (c ServerConfig) HealthAddr() string {
	return net.JoinHostPort(c.Host, c.HealthPort)
}

// AuthConfig holds token and password-hashing settings. TokenSecret has
// no default on purpose: a process must never start with a guessable
// signing key.
type AuthConfig struct {
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
	BcryptCost  int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  observability.LogLevel
	LogFormat string // "json" or "text"

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// OTel bundles the OpenTelemetry settings for observability.InitOTel.
func (c ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        c.OTelEnabled,
		Endpoint:       c.OTelEndpoint,
		ServiceName:    c.OTelServiceName,
		ServiceVersion: c.OTelServiceVersion,
		Insecure:       c.OTelInsecure,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("TALLY_HOST", "0.0.0.0"),
		Port:            getEnv("TALLY_PORT", "8080"),
		ReadTimeout:     getEnvDuration("TALLY_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("TALLY_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("TALLY_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("TALLY_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("TALLY_HEALTH_PORT", "8081"),
		CORSOrigins:     getEnvList("TALLY_CORS_ORIGINS", []string{"*"}),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if driver := getEnv("TALLY_STORAGE_DRIVER", ""); driver != "" {
		cfg.Driver = driver
	}
	if path := getEnv("TALLY_SQLITE_PATH", ""); path != "" {
		cfg.SQLitePath = path
	}
	if pgURL := getEnv("TALLY_POSTGRES_URL", ""); pgURL != "" {
		cfg.PostgresURL = pgURL
	}
	if maxConns := getEnvInt("TALLY_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		cfg.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("TALLY_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		cfg.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("TALLY_POSTGRES_TIMEOUT", 0); timeout > 0 {
		cfg.PostgresTimeout = timeout
	}

	return cfg
}

// loadAuthConfig loads auth configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		TokenSecret: getEnv("TALLY_TOKEN_SECRET", ""),
		TokenIssuer: getEnv("TALLY_TOKEN_ISSUER", "tally"),
		TokenTTL:    getEnvDuration("TALLY_TOKEN_TTL", time.Hour),
		BcryptCost:  getEnvInt("TALLY_BCRYPT_COST", bcrypt.DefaultCost),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLevel(getEnv("TALLY_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("TALLY_LOG_FORMAT", "json")),
		MetricsEnabled:     getEnvBool("TALLY_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("TALLY_TRACING_ENABLED", false),
		OTelEndpoint:       getEnv("TALLY_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("TALLY_SERVICE_NAME", "tally"),
		OTelServiceVersion: getEnv("TALLY_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("TALLY_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// Validate storage config based on driver
	switch c.Storage.Driver {
	case "sqlite", "sqlite3":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be sqlite or postgres)", c.Storage.Driver)
	}

	// Validate auth config. There is deliberately no default secret.
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("TALLY_TOKEN_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	// Validate log format
	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Observability.LogFormat)
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when tracing is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("service name is required when tracing is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a slice,
// trimming whitespace around each element.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
