// Package auth provides credential handling for tally: bcrypt password
// hashing and signed, expiring access tokens.
//
// # Passwords
//
// PasswordHasher wraps bcrypt with a configurable cost:
//
//	hasher := auth.NewPasswordHasher(0) // 0 selects bcrypt.DefaultCost
//	digest, err := hasher.Hash("s3cret")
//	ok := hasher.Verify("s3cret", digest) // true
//
// Hashing the same password twice yields different digests (bcrypt salts
// internally) and both verify. Verify never returns an error: any
// mismatch, including a malformed or empty digest, is simply false.
//
// # Tokens
//
// TokenService issues HS256-signed JWTs carrying the authenticated user's
// ID and role, and verifies presented tokens back into an Identity:
//
//	tokens, err := auth.NewTokenService(cfg.Auth.TokenSecret, "tally", time.Hour)
//	token, err := tokens.Issue(user.ID, user.Role)
//	identity, err := tokens.Verify(token) // {UserID, Role}
//
// The signing secret, issuer and lifetime are fixed at construction from
// startup configuration; nothing in this package reads the process
// environment or holds package-level mutable state. Verification rejects
// expired, tampered, wrongly-signed and malformed tokens alike with
// ErrInvalidToken, so callers cannot tell why a token failed.
//
// # Identity
//
// Identity{UserID, Role} is the only trusted description of a caller.
// Handlers receive it through the request context (see pkg/middleware)
// and must not re-derive user ID or role from request data.
//
// # Related Packages
//
//   - pkg/middleware: HTTP authentication middleware built on TokenService
//   - pkg/config: source of the token secret, issuer, TTL and bcrypt cost
package auth
