package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestHealthChecker_Liveness(t *testing.T) {
	checker := NewHealthChecker(nil, "test")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	checker.Liveness(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Liveness status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != StatusHealthy {
		t.Errorf("status = %v, want %q", body["status"], StatusHealthy)
	}
}

func TestHealthChecker_Check_NoDatabase(t *testing.T) {
	checker := NewHealthChecker(nil, "test")

	status := checker.Check(context.Background())
	if status.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", status.Status, StatusHealthy)
	}
	if len(status.Dependencies) != 0 {
		t.Errorf("dependencies = %v, want none", status.Dependencies)
	}
	if status.Version != "test" {
		t.Errorf("version = %q, want %q", status.Version, "test")
	}
}

func TestHealthChecker_Check_HealthyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	checker := NewHealthChecker(db, "test")
	status := checker.Check(context.Background())

	if status.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", status.Status, StatusHealthy)
	}
	dep, ok := status.Dependencies["database"]
	if !ok {
		t.Fatal("expected a database dependency entry")
	}
	if dep.Status != StatusHealthy {
		t.Errorf("database status = %q, want %q", dep.Status, StatusHealthy)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHealthChecker_Check_UnreachableDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	checker := NewHealthChecker(db, "test")
	status := checker.Check(context.Background())

	if status.Status != StatusUnhealthy {
		t.Errorf("status = %q, want %q", status.Status, StatusUnhealthy)
	}
	dep := status.Dependencies["database"]
	if dep.Status != StatusUnhealthy {
		t.Errorf("database status = %q, want %q", dep.Status, StatusUnhealthy)
	}
	if dep.Message == "" {
		t.Error("expected an error message on the database dependency")
	}
}

func TestHealthChecker_Readiness_Unhealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	checker := NewHealthChecker(db, "test")

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	checker.Readiness(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Readiness status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if status.Status != StatusUnhealthy {
		t.Errorf("status = %q, want %q", status.Status, StatusUnhealthy)
	}
}

func TestRegisterHealthRoutes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	// Readiness is mounted twice, so both /health and /health/ready ping.
	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	mux := http.NewServeMux()
	RegisterHealthRoutes(mux, NewHealthChecker(db, "test"))

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
