package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/contextkeys"
	"github.com/platinummonkey/tally/pkg/observability"
)

// AuthMiddleware rejects requests that do not carry a valid bearer token
// and makes the verified identity available to handlers.
type AuthMiddleware struct {
	tokens *auth.TokenService
}

// NewAuthMiddleware creates authentication middleware backed by the given
// token service.
func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handler wraps an HTTP handler with authentication. Failures are always
// 401 with a fixed JSON body; role decisions (admin-only endpoints) stay
// with the handlers and answer 403.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Expected format: "Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorizedResponse(w, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorizedResponse(w, "invalid authorization header format")
			return
		}

		identity, err := m.tokens.Verify(parts[1])
		if err != nil {
			unauthorizedResponse(w, "invalid or expired token")
			return
		}

		ctx := contextkeys.WithAuth(r.Context(), identity)
		logger := observability.GetLogger(ctx).WithFields(map[string]interface{}{
			"user_id": identity.UserID,
			"role":    identity.Role.String(),
		})
		ctx = observability.WithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// GetIdentity extracts the verified identity from the request, or nil when
// the request did not pass through Handler.
func GetIdentity(r *http.Request) *auth.Identity {
	return IdentityFromContext(r.Context())
}

// IdentityFromContext extracts the verified identity from a context.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	val := contextkeys.Auth(ctx)
	if val == nil {
		return nil
	}
	identity, ok := val.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
