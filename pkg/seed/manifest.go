package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/tally/pkg/auth"
)

// Manifest is the root of a seed document.
type Manifest struct {
	Users []UserSpec `yaml:"users"`
}

// UserSpec declares one account to create, with the plaintext password
// that will be hashed on insert, and the records the account starts with.
type UserSpec struct {
	Name     string       `yaml:"name"`
	Email    string       `yaml:"email"`
	Password string       `yaml:"password"`
	Role     string       `yaml:"role"`
	Records  []RecordSpec `yaml:"records"`
}

// RecordSpec declares one financial record. Amounts default to zero.
type RecordSpec struct {
	Month    string  `yaml:"month"`
	Year     int     `yaml:"year"`
	PaidIn   float64 `yaml:"paid_in"`
	Balance  float64 `yaml:"balance"`
	Loaned   float64 `yaml:"loaned"`
	Repaid   float64 `yaml:"repaid"`
	Shares   float64 `yaml:"shares"`
	Interest float64 `yaml:"interest"`
}

// ValidationError represents one manifest validation error. Field is the
// position in the document, e.g. "users[2].records[0].month".
type ValidationError struct {
	Field   string
	Message string
}

// LoadManifest loads and parses a seed manifest from a file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse seed manifest: %w", err)
	}

	return &manifest, nil
}

// ValidateManifest performs basic validation on a seed manifest
func ValidateManifest(manifest *Manifest) []ValidationError {
	var errors []ValidationError

	seenEmails := make(map[string]bool, len(manifest.Users))
	for i, user := range manifest.Users {
		if user.Name == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("users[%d].name", i),
				Message: "name is required",
			})
		}

		if user.Email == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("users[%d].email", i),
				Message: "email is required",
			})
		} else if seenEmails[user.Email] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("users[%d].email", i),
				Message: fmt.Sprintf("duplicate email: %s", user.Email),
			})
		} else {
			seenEmails[user.Email] = true
		}

		if user.Password == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("users[%d].password", i),
				Message: "password is required",
			})
		} else if len(user.Password) > 72 {
			// bcrypt input limit
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("users[%d].password", i),
				Message: "password must be at most 72 bytes",
			})
		}

		if user.Role != "" {
			if _, err := auth.ParseRole(user.Role); err != nil {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("users[%d].role", i),
					Message: fmt.Sprintf("invalid role: %s", user.Role),
				})
			}
		}

		for j, record := range user.Records {
			if record.Month == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("users[%d].records[%d].month", i, j),
					Message: "month is required",
				})
			}
			if record.Year == 0 {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("users[%d].records[%d].year", i, j),
					Message: "year is required",
				})
			}
		}
	}

	return errors
}
