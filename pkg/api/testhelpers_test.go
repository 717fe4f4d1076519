package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage/sqlite"
)

// testServer bundles a Server with the dependencies tests need to reach
// around the HTTP surface, such as minting tokens for users that do not
// exist or inspecting the store directly.
type testServer struct {
	*Server
	store  *sqlite.Store
	tokens *auth.TokenService
}

// newTestServer builds a fully wired Server over an in-memory SQLite
// store. Metrics go to a private registry and logs are discarded, so
// parallel tests cannot collide.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	tokens, err := auth.NewTokenService("test-signing-secret", "tally-test", time.Hour)
	require.NoError(t, err)

	server := NewServer(
		store,
		tokens,
		auth.NewPasswordHasher(bcrypt.MinCost),
		observability.NewLogger(observability.ErrorLevel, io.Discard),
		observability.NewMetrics(prometheus.NewRegistry()),
	)

	return &testServer{Server: server, store: store, tokens: tokens}
}

// doRequest runs one request through the bare router. body is marshalled
// as JSON when non-nil; token, when non-empty, is sent as a bearer
// credential.
func (ts *testServer) doRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

// registerUser creates an account through the API, failing the test on
// anything but a 201. An empty role leaves the server default in place.
func (ts *testServer) registerUser(t *testing.T, name, email, password, role string) userSummary {
	t.Helper()

	payload := map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": password,
	}
	if role != "" {
		payload["role"] = role
	}

	rr := ts.doRequest(t, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusCreated, rr.Code, "register %s: %s", email, rr.Body.String())

	var created userSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	return created
}

// loginUser exchanges credentials for a token through the API.
func (ts *testServer) loginUser(t *testing.T, email, password string) string {
	t.Helper()

	rr := ts.doRequest(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, "login %s: %s", email, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// addRecord inserts a record through the API as the token's owner and
// returns the created record's public view.
func (ts *testServer) addRecord(t *testing.T, token, month string, year int, paidIn float64) recordResponse {
	t.Helper()

	rr := ts.doRequest(t, http.MethodPost, "/api/records", token, map[string]interface{}{
		"month":   month,
		"year":    year,
		"paid_in": paidIn,
	})
	require.Equal(t, http.StatusCreated, rr.Code, "add record: %s", rr.Body.String())

	var created recordResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	return created
}
