package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/tally/pkg/storage"
)

func TestNewRecordHandlers(t *testing.T) {
	ts := newTestServer(t)

	handlers := NewRecordHandlers(ts.store, ts.Server.authn, ts.Server.metrics)
	require.NotNil(t, handlers)
	assert.NotNil(t, handlers.store)
	assert.NotNil(t, handlers.authn)
	assert.NotNil(t, handlers.metrics)
}

func TestListRecords(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.doRequest(t, http.MethodGet, "/api/records", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"missing authorization header"}`, rr.Body.String())
	})

	t.Run("returns an empty array for a new user", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodGet, "/api/records", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		// [] and never null, so chart frontends can iterate blindly.
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("returns only the caller's records", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		ts.registerUser(t, "Bob", "bob@example.com", "secret456", "")
		aliceToken := ts.loginUser(t, "alice@example.com", "secret123")
		bobToken := ts.loginUser(t, "bob@example.com", "secret456")

		ts.addRecord(t, aliceToken, "Jan", 2024, 100)
		ts.addRecord(t, aliceToken, "Feb", 2024, 200)
		ts.addRecord(t, bobToken, "Jan", 2024, 999)

		rr := ts.doRequest(t, http.MethodGet, "/api/records", aliceToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var records []recordResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "Jan", records[0].Month)
		assert.Equal(t, 100.0, records[0].PaidIn)
		assert.Equal(t, "Feb", records[1].Month)

		rr = ts.doRequest(t, http.MethodGet, "/api/records", bobToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, 999.0, records[0].PaidIn)
	})
}

func TestAddRecord(t *testing.T) {
	t.Run("creates a record owned by the caller", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodPost, "/api/records", token, map[string]interface{}{
			"month":    "Jan",
			"year":     2024,
			"paid_in":  150.5,
			"balance":  1000,
			"loaned":   50,
			"repaid":   25,
			"shares":   10,
			"interest": 1.25,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Greater(t, body["id"].(float64), 0.0)
		assert.Equal(t, "Jan", body["month"])
		assert.Equal(t, 2024.0, body["year"])
		assert.Equal(t, 150.5, body["paid_in"])
		assert.Equal(t, 1000.0, body["balance"])
		assert.Equal(t, 1.25, body["interest"])

		// Internal columns stay internal.
		assert.NotContains(t, body, "user_id")
		assert.NotContains(t, body, "created_at")
	})

	t.Run("validates required fields", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodPost, "/api/records", token, map[string]interface{}{
			"paid_in": 100,
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "validation failed", resp.Error)
		assert.Contains(t, resp.Fields, "month")
		assert.Contains(t, resp.Fields, "year")
	})

	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.doRequest(t, http.MethodPost, "/api/records", "", map[string]interface{}{
			"month": "Jan",
			"year":  2024,
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestDeleteRecord(t *testing.T) {
	t.Run("deletes an owned record", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")
		created := ts.addRecord(t, token, "Jan", 2024, 100)

		rr := ts.doRequest(t, http.MethodDelete, "/api/records/"+itoa(created.ID), token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"status":"deleted"}`, rr.Body.String())

		rr = ts.doRequest(t, http.MethodGet, "/api/records", token, nil)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("404 for a record that does not exist", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodDelete, "/api/records/99999", token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"record not found"}`, rr.Body.String())
	})

	t.Run("404 for another user's record and the row survives", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		ts.registerUser(t, "Bob", "bob@example.com", "secret456", "")
		aliceToken := ts.loginUser(t, "alice@example.com", "secret123")
		bobToken := ts.loginUser(t, "bob@example.com", "secret456")
		created := ts.addRecord(t, aliceToken, "Jan", 2024, 100)

		rr := ts.doRequest(t, http.MethodDelete, "/api/records/"+itoa(created.ID), bobToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		// Same body as a missing record: existence is not disclosed.
		assert.JSONEq(t, `{"error":"record not found"}`, rr.Body.String())

		var records []recordResponse
		rr = ts.doRequest(t, http.MethodGet, "/api/records", aliceToken, nil)
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
		assert.Len(t, records, 1)
	})

	t.Run("400 for a non-numeric id", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodDelete, "/api/records/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGraphData(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.doRequest(t, http.MethodGet, "/api/graph-data", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("returns empty series for a new user", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		rr := ts.doRequest(t, http.MethodGet, "/api/graph-data", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"labels":[],"values":[]}`, rr.Body.String())
	})

	t.Run("keeps the first value per month label", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerUser(t, "Alice", "alice@example.com", "secret123", "")
		token := ts.loginUser(t, "alice@example.com", "secret123")

		ts.addRecord(t, token, "Jan", 2024, 100)
		ts.addRecord(t, token, "Feb", 2024, 30)
		ts.addRecord(t, token, "Jan", 2024, 50)

		rr := ts.doRequest(t, http.MethodGet, "/api/graph-data", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"labels":["Jan 2024","Feb 2024"],"values":[100,30]}`, rr.Body.String())
	})
}

func TestBuildGraphData(t *testing.T) {
	tests := []struct {
		name       string
		records    []*storage.FinancialRecord
		wantLabels []string
		wantValues []float64
	}{
		{
			name:       "no records",
			records:    nil,
			wantLabels: []string{},
			wantValues: []float64{},
		},
		{
			name: "same month in different years stays distinct",
			records: []*storage.FinancialRecord{
				{Month: "Jan", Year: 2023, PaidIn: 10},
				{Month: "Jan", Year: 2024, PaidIn: 20},
			},
			wantLabels: []string{"Jan 2023", "Jan 2024"},
			wantValues: []float64{10, 20},
		},
		{
			name: "duplicates keep the first value in insertion order",
			records: []*storage.FinancialRecord{
				{Month: "Mar", Year: 2024, PaidIn: 5},
				{Month: "Apr", Year: 2024, PaidIn: 7},
				{Month: "Mar", Year: 2024, PaidIn: 90},
			},
			wantLabels: []string{"Mar 2024", "Apr 2024"},
			wantValues: []float64{5, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildGraphData(tt.records)
			assert.Equal(t, tt.wantLabels, data.Labels)
			assert.Equal(t, tt.wantValues, data.Values)
			assert.NotNil(t, data.Labels)
			assert.NotNil(t, data.Values)
		})
	}
}

// itoa keeps URL building in tests terse.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
