package auth

import "fmt"

// Role classifies what a caller may do. Exactly two roles exist.
type Role string

const (
	RoleUser  Role = "user"  // Manages only their own financial records
	RoleAdmin Role = "admin" // Additionally lists users and writes records for any user
)

// DefaultRole is assigned to accounts registered without an explicit role.
const DefaultRole = RoleUser

// ParseRole validates a role string from untrusted input. The empty
// string maps to DefaultRole so registration can omit the field.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return DefaultRole, nil
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// Identity is the verified payload of an access token. It is the only
// caller description handlers may trust; everything else in a request
// body is client-controlled.
type Identity struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// IsAdmin reports whether the identity passes admin-only role gates.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
