package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/seed"
	"github.com/platinummonkey/tally/pkg/storage"
	"github.com/platinummonkey/tally/pkg/storage/postgres"
	"github.com/platinummonkey/tally/pkg/storage/sqlite"
)

// Config holds the CLI configuration for tally-init.
type Config struct {
	Driver        string
	DSN           string
	AdminName     string
	AdminEmail    string
	AdminPassword string
	SeedFile      string
	BcryptCost    int
	LogLevel      string
}

func main() {
	_ = godotenv.Load()

	config := parseFlags()
	logger := setupLogger(config.LogLevel)

	store, err := openStore(config)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}
	logger.WithField("driver", config.Driver).Info("Schema is up to date")

	hasher := auth.NewPasswordHasher(config.BcryptCost)

	if config.AdminEmail != "" {
		if err := bootstrapAdmin(ctx, store, hasher, config, logger); err != nil {
			logger.Fatalf("Failed to bootstrap admin: %v", err)
		}
	}

	if config.SeedFile != "" {
		if err := applySeed(ctx, store, hasher, config.SeedFile, logger); err != nil {
			logger.Fatalf("Failed to apply seed: %v", err)
		}
	}

	logger.Info("Done")
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.Driver, "driver", getEnv("TALLY_STORAGE_DRIVER", "sqlite"), "Storage driver (sqlite or postgres)")
	flag.StringVar(&config.DSN, "dsn", "", "SQLite file path or postgres URL (defaults to TALLY_SQLITE_PATH / TALLY_POSTGRES_URL)")
	flag.StringVar(&config.AdminName, "admin-name", getEnv("TALLY_ADMIN_NAME", "Admin"), "Display name for the bootstrap admin")
	flag.StringVar(&config.AdminEmail, "admin-email", getEnv("TALLY_ADMIN_EMAIL", ""), "Email for the bootstrap admin (requires -admin-password)")
	flag.StringVar(&config.AdminPassword, "admin-password", getEnv("TALLY_ADMIN_PASSWORD", ""), "Password for the bootstrap admin")
	flag.StringVar(&config.SeedFile, "seed", "", "YAML seed manifest to apply")
	flag.IntVar(&config.BcryptCost, "bcrypt-cost", bcrypt.DefaultCost, "Bcrypt cost for seeded passwords")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	return config
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func openStore(config *Config) (storage.Store, error) {
	switch config.Driver {
	case "sqlite", "sqlite3":
		path := config.DSN
		if path == "" {
			path = getEnv("TALLY_SQLITE_PATH", "tally.db")
		}
		return sqlite.New(path)
	case "postgres":
		cfg := storage.DefaultConfig()
		cfg.Driver = "postgres"
		cfg.PostgresURL = config.DSN
		if cfg.PostgresURL == "" {
			cfg.PostgresURL = getEnv("TALLY_POSTGRES_URL", "")
		}
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres URL is required (use -dsn or TALLY_POSTGRES_URL)")
		}
		return postgres.New(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", config.Driver)
	}
}

// bootstrapAdmin creates the admin account once; reruns are no-ops.
func bootstrapAdmin(ctx context.Context, store storage.Store, hasher *auth.PasswordHasher, config *Config, logger *logrus.Logger) error {
	if config.AdminPassword == "" {
		return fmt.Errorf("-admin-password is required with -admin-email")
	}

	existing, err := store.GetUserByEmail(ctx, config.AdminEmail)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if existing != nil {
		logger.WithField("email", config.AdminEmail).Info("Admin already exists, skipping")
		return nil
	}

	hash, err := hasher.Hash(config.AdminPassword)
	if err != nil {
		return err
	}

	user := &storage.User{
		Name:         config.AdminName,
		Email:        config.AdminEmail,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"email": config.AdminEmail,
		"id":    user.ID,
	}).Info("Created admin user")
	return nil
}

func applySeed(ctx context.Context, store storage.Store, hasher *auth.PasswordHasher, path string, logger *logrus.Logger) error {
	manifest, err := seed.LoadManifest(path)
	if err != nil {
		return err
	}

	if errs := seed.ValidateManifest(manifest); len(errs) > 0 {
		for _, e := range errs {
			logger.Errorf("%s: %s", e.Field, e.Message)
		}
		return fmt.Errorf("seed manifest has %d problems", len(errs))
	}

	result, err := seed.NewSeeder(store, hasher, logger).Apply(ctx, manifest)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"users_created":   result.UsersCreated,
		"users_skipped":   result.UsersSkipped,
		"records_created": result.RecordsCreated,
	}).Info("Seed applied")
	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
