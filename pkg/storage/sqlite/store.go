// Package sqlite implements storage.Store on a local SQLite database.
// It is the default backend: zero external dependencies, one file on
// disk, good enough for a single-node deployment.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/platinummonkey/tally/pkg/storage"
)

// Store implements storage.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// New opens the SQLite database at path, creating it if missing.
// Use ":memory:" for an ephemeral database in tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer. Also, an in-memory database exists
	// per connection, so the pool must stay at one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
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

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a user and fills in ID and CreatedAt.
func (s *Store) CreateUser(ctx context.Context, user *storage.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	return nil
}

// GetUserByEmail looks a user up by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = ?
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
		WHERE id = ?
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query,
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
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read record id: %w", err)
	}
	record.ID = id
	record.CreatedAt = now
	return nil
}

// ListRecordsByUser returns the user's records in insertion order.
func (s *Store) ListRecordsByUser(ctx context.Context, userID int64) ([]*storage.FinancialRecord, error) {
	query := `
		SELECT id, user_id, month, year, paid_in, balance, loaned, repaid, shares, interest, created_at
		FROM financial_records
		WHERE user_id = ?
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
		`DELETE FROM financial_records WHERE id = ? AND user_id = ?`,
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
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
