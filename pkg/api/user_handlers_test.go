package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/tally/pkg/auth"
)

func TestNewUserHandlers(t *testing.T) {
	ts := newTestServer(t)

	handlers := NewUserHandlers(ts.store, ts.Server.authn)
	require.NotNil(t, handlers)
	assert.NotNil(t, handlers.store)
	assert.NotNil(t, handlers.authn)
}

func TestUserDetails(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		ts := newTestServer(t)
		created := ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodGet, "/api/user/details", token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var details userDetails
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &details))
		assert.Equal(t, created.ID, details.ID)
		assert.Equal(t, "Alice", details.Name)
		assert.Equal(t, "alice@example.com", details.Email)
		assert.Equal(t, "user", details.Role)

		createdAt, err := time.Parse(createdAtLayout, details.CreatedAt)
		require.NoError(t, err, "created_at %q should match %q", details.CreatedAt, createdAtLayout)
		assert.WithinDuration(t, time.Now().UTC(), createdAt, time.Minute)

		// The stored hash never leaves the server.
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("404 when the account behind the token is gone", func(t *testing.T) {
		ts := newTestServer(t)

		// A token verifies on its signature alone, so one minted for a
		// deleted or never-created user still reaches the handler.
		token, err := ts.tokens.Issue(4242, auth.RoleUser)
		require.NoError(t, err)

		rr := ts.doRequest(t, http.MethodGet, "/api/user/details", token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"user not found"}`, rr.Body.String())
	})

	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.doRequest(t, http.MethodGet, "/api/user/details", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"missing authorization header"}`, rr.Body.String())
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodGet, "/api/user/details", token+"x", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, rr.Body.String())
	})
}
