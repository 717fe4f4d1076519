// Package postgres implements storage.Store on PostgreSQL via lib/pq.
// Use it when a deployment outgrows the single-file SQLite backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/platinummonkey/tally/pkg/storage"
)

// uniqueViolation is the PostgreSQL error code raised when an insert
// hits a unique constraint.
const uniqueViolation = "23505"

// Store implements storage.Store backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// New connects to PostgreSQL using the URL and pool limits in cfg and
// verifies the connection before returning.
func New(cfg storage.Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.PostgresMaxConns)
	db.SetMaxIdleConns(cfg.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying pool for health checks and metrics.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a user and fills in ID and CreatedAt.
func (s *Store) CreateUser(ctx context.Context, user *storage.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		now,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	return nil
}

// GetUserByEmail looks a user up by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var user storage.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID looks a user up by ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*storage.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user storage.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]*storage.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*storage.User
	for rows.Next() {
		var user storage.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// CreateRecord inserts a financial record and fills in ID and CreatedAt.
func (s *Store) CreateRecord(ctx context.Context, record *storage.FinancialRecord) error {
	query := `
		INSERT INTO financial_records
			(user_id, month, year, paid_in, balance, loaned, repaid, shares, interest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, query,
		record.UserID,
		record.Month,
		record.Year,
		record.PaidIn,
		record.Balance,
		record.Loaned,
		record.Repaid,
		record.Shares,
		record.Interest,
		now,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	record.CreatedAt = now
	return nil
}

// ListRecordsByUser returns the user's records in insertion order.
func (s *Store) ListRecordsByUser(ctx context.Context, userID int64) ([]*storage.FinancialRecord, error) {
	query := `
		SELECT id, user_id, month, year, paid_in, balance, loaned, repaid, shares, interest, created_at
		FROM financial_records
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*storage.FinancialRecord
	for rows.Next() {
		var record storage.FinancialRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Month,
			&record.Year,
			&record.PaidIn,
			&record.Balance,
			&record.Loaned,
			&record.Repaid,
			&record.Shares,
			&record.Interest,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// DeleteRecord deletes a record scoped to its owner. Reports whether a
// row was deleted.
func (s *Store) DeleteRecord(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM financial_records WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
