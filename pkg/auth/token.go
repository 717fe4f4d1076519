package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when configuration does not
// override it.
const DefaultTokenTTL = time.Hour

// ErrInvalidToken covers every verification failure: bad signature,
// wrong algorithm, wrong issuer, expired, malformed. Callers get no
// finer-grained cause.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies signed access tokens. The HMAC secret
// is fixed at construction and never read from globals, so two services
// with different secrets reject each other's tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a token service. The secret is mandatory; an
// empty issuer defaults to "tally" and a non-positive ttl defaults to
// DefaultTokenTTL.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if issuer == "" {
		issuer = "tally"
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user and role, valid from now until
// now plus the configured TTL.
func (s *TokenService) Issue(userID int64, role Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("invalid role: %q", role)
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a presented token and returns the identity
// it carries. Signature method is pinned to HS256 so a crafted "none" or
// RS256 token cannot pass.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	roleClaim, _ := claims["role"].(string)
	role := Role(roleClaim)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, Role: role}, nil
}
