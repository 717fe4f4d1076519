// Package storage defines the persistence boundary for tally: the domain
// types (User, FinancialRecord), the Store interface the API layer
// consumes, and the tagged errors handlers translate into HTTP statuses.
//
// # Overview
//
// Two backends implement the interface:
//
//   - sqlite (pkg/storage/sqlite): the default. One local file, or
//     ":memory:" in tests; no external service required.
//   - postgres (pkg/storage/postgres): lib/pq-backed, for deployments
//     that outgrow a single file.
//
// Both speak raw SQL through database/sql and apply a versioned
// migration list at startup via Migrate.
//
// # Contract
//
// All methods accept context.Context as the first parameter, enabling
// cancellation and timeout propagation from HTTP handlers. Lookups that
// miss return ErrNotFound. A user insert that collides on email returns
// ErrDuplicateEmail: the unique index on users.email is what serializes
// concurrent registrations, so the losing writer always observes the
// error rather than a second row. DeleteRecord scopes the delete to the
// owning user inside the query itself and reports whether a row was
// removed; callers cannot distinguish a missing record from another
// user's record, and handlers surface both as not found.
//
// # Usage
//
//	store, err := sqlite.New(cfg.Storage.SQLitePath)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//	if err := store.Migrate(ctx); err != nil {
//		return err
//	}
//
//	user := &storage.User{Name: "Ada", Email: "ada@example.com"}
//	err = store.CreateUser(ctx, user) // user.ID populated on success
//	if errors.Is(err, storage.ErrDuplicateEmail) {
//		// email already registered
//	}
//
// # Related Packages
//
//   - pkg/api: HTTP handlers that consume storage.Store
//   - pkg/seed: bulk loading of users and records from manifests
package storage
