package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/platinummonkey/tally/pkg/auth"
)

// Sentinel errors shared by every backend. Handlers translate these
// into HTTP responses; anything else is a 500.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user insert collides with an
	// existing email address.
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is an account holder. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// FinancialRecord is one month's financial entry for a user. Month is a
// free-form label ("Jan", "January"); the API treats it as opaque text.
type FinancialRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Month     string    `json:"month"`
	Year      int       `json:"year"`
	PaidIn    float64   `json:"paid_in"`
	Balance   float64   `json:"balance"`
	Loaned    float64   `json:"loaned"`
	Repaid    float64   `json:"repaid"`
	Shares    float64   `json:"shares"`
	Interest  float64   `json:"interest"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a user and fills in ID and CreatedAt. Returns
	// ErrDuplicateEmail if the email is already taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns ErrNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns ErrNotFound when no user has that ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]*User, error)
}

// RecordStore persists financial records.
type RecordStore interface {
	// CreateRecord inserts a record and fills in ID and CreatedAt. The
	// referenced user must exist.
	CreateRecord(ctx context.Context, record *FinancialRecord) error

	// ListRecordsByUser returns the user's records in insertion order.
	ListRecordsByUser(ctx context.Context, userID int64) ([]*FinancialRecord, error)

	// DeleteRecord deletes a record only if it belongs to ownerID.
	// Reports whether a row was actually deleted, so a missing record
	// and another user's record are indistinguishable to the caller.
	DeleteRecord(ctx context.Context, id, ownerID int64) (bool, error)
}

// Store is the full persistence surface the API server needs.
type Store interface {
	UserStore
	RecordStore

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// DB exposes the underlying pool for health checks and metrics.
	DB() *sql.DB

	Close() error
}

// Config for the database backend
type Config struct {
	Driver string // "sqlite" or "postgres"

	// SQLite config
	SQLitePath string

	// PostgreSQL config
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Driver:           "sqlite",
		SQLitePath:       "tally.db",
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
	}
}
