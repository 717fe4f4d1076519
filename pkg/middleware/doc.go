// Package middleware provides HTTP middleware for token authentication.
//
// # Overview
//
// AuthMiddleware guards protected routes. It extracts the bearer token
// from the Authorization header, verifies it, and stores the resulting
// identity in the request context. Authentication failures answer 401
// with one of three fixed bodies:
//
//	{"error":"missing authorization header"}
//	{"error":"invalid authorization header format"}
//	{"error":"invalid or expired token"}
//
// Authorization is deliberately NOT handled here. Handlers that require
// the admin role check the identity themselves and answer 403, so a
// caller can always tell "who are you" failures from "you may not do
// that" failures.
//
// # Usage
//
//	authn := middleware.NewAuthMiddleware(tokenService)
//	router.Handle("/records", authn.Handler(recordsHandler)).Methods("GET")
//
// Inside a protected handler:
//
//	identity := middleware.GetIdentity(r)
//	if !identity.IsAdmin() {
//		httputil.WriteForbidden(w, "access denied")
//		return
//	}
//
// # Related Packages
//
//   - pkg/auth: Token issuing and verification
//   - pkg/contextkeys: Context keys shared across packages
package middleware
