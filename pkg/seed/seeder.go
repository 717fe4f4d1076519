package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/storage"
)

// Seeder applies seed manifests to a store.
type Seeder struct {
	store  storage.Store
	hasher *auth.PasswordHasher
	logger *logrus.Logger
}

// Result reports what one Apply run changed.
type Result struct {
	UsersCreated   int
	UsersSkipped   int
	RecordsCreated int
}

// NewSeeder creates a seeder. The hasher's cost applies to every seeded
// password.
func NewSeeder(store storage.Store, hasher *auth.PasswordHasher, logger *logrus.Logger) *Seeder {
	return &Seeder{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// Apply inserts the manifest's users and records. Callers should run
// ValidateManifest first; Apply stops at the first storage or hashing
// failure and returns the counts accumulated up to that point.
func (s *Seeder) Apply(ctx context.Context, manifest *Manifest) (*Result, error) {
	result := &Result{}

	for _, spec := range manifest.Users {
		existing, err := s.store.GetUserByEmail(ctx, spec.Email)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return result, fmt.Errorf("failed to look up %s: %w", spec.Email, err)
		}
		if existing != nil {
			s.logger.WithFields(logrus.Fields{
				"email": spec.Email,
			}).Info("User already exists, skipping")
			result.UsersSkipped++
			continue
		}

		role := auth.DefaultRole
		if spec.Role != "" {
			role, err = auth.ParseRole(spec.Role)
			if err != nil {
				return result, fmt.Errorf("invalid role for %s: %w", spec.Email, err)
			}
		}

		hash, err := s.hasher.Hash(spec.Password)
		if err != nil {
			return result, fmt.Errorf("failed to hash password for %s: %w", spec.Email, err)
		}

		user := &storage.User{
			Name:         spec.Name,
			Email:        spec.Email,
			PasswordHash: hash,
			Role:         role,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			// Another instance may have seeded concurrently; treat the
			// duplicate like the skip above.
			if errors.Is(err, storage.ErrDuplicateEmail) {
				result.UsersSkipped++
				continue
			}
			return result, fmt.Errorf("failed to create %s: %w", spec.Email, err)
		}
		result.UsersCreated++

		for _, rec := range spec.Records {
			record := &storage.FinancialRecord{
				UserID:   user.ID,
				Month:    rec.Month,
				Year:     rec.Year,
				PaidIn:   rec.PaidIn,
				Balance:  rec.Balance,
				Loaned:   rec.Loaned,
				Repaid:   rec.Repaid,
				Shares:   rec.Shares,
				Interest: rec.Interest,
			}
			if err := s.store.CreateRecord(ctx, record); err != nil {
				return result, fmt.Errorf("failed to create record for %s: %w", spec.Email, err)
			}
			result.RecordsCreated++
		}

		s.logger.WithFields(logrus.Fields{
			"email":   spec.Email,
			"role":    role.String(),
			"records": len(spec.Records),
		}).Info("Created user")
	}

	return result, nil
}
