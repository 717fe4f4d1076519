// Package contextkeys defines the typed context keys shared across tally
// packages. Centralizing them here keeps middleware, handlers and
// observability agreeing on where request-scoped values live without
// import cycles: this package imports nothing but context, and value
// types stay owned by the packages that produce them.
package contextkeys

import "context"

// Key is the type used for all tally context keys. A dedicated type
// prevents collisions with string keys from other libraries.
type Key string

const (
	// AuthKey carries the verified caller identity (*auth.Identity).
	// Set by the authentication middleware after token verification.
	AuthKey Key = "tally.auth"

	// RequestIDKey carries the per-request ID (string) assigned by the
	// request ID middleware and echoed in the X-Request-ID header.
	RequestIDKey Key = "tally.request_id"

	// LoggerKey carries the request-scoped logger
	// (*observability.Logger) with request fields pre-attached.
	LoggerKey Key = "tally.logger"
)

// WithAuth stores the verified caller identity. The value is kept as an
// interface so this package does not depend on pkg/auth; pkg/middleware
// owns the concrete type and the typed accessor.
func WithAuth(ctx context.Context, identity any) context.Context {
	return context.WithValue(ctx, AuthKey, identity)
}

// Auth returns whatever identity WithAuth stored, or nil.
func Auth(ctx context.Context) any {
	return ctx.Value(AuthKey)
}

// WithRequestID stores the request ID assigned to this request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request ID, or "" when none was assigned.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
