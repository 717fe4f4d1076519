package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/tally/pkg/httputil"
	"github.com/platinummonkey/tally/pkg/middleware"
	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage"
)

// AdminHandlers serves the admin-only endpoints. Authentication happens
// in the middleware (401); the role gate lives in each handler (403), so
// a valid non-admin token is always refused with 403, never 401.
type AdminHandlers struct {
	store   storage.Store
	authn   *middleware.AuthMiddleware
	metrics *observability.Metrics
}

// NewAdminHandlers creates a new admin handlers instance
func NewAdminHandlers(store storage.Store, authn *middleware.AuthMiddleware, metrics *observability.Metrics) *AdminHandlers {
	return &AdminHandlers{
		store:   store,
		authn:   authn,
		metrics: metrics,
	}
}

// RegisterRoutes registers admin routes
func (h *AdminHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/admin/users", h.authn.Handler(http.HandlerFunc(h.listUsers))).Methods("GET")
	router.Handle("/admin/records", h.authn.Handler(http.HandlerFunc(h.addRecord))).Methods("POST")
}

// requireAdmin enforces the role gate. Reports false after writing the
// 403 when the caller is not an admin.
func (h *AdminHandlers) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return false
	}
	if !identity.IsAdmin() {
		httputil.WriteForbidden(w, "access denied")
		return false
	}
	return true
}

// listUsers handles GET /api/admin/users
func (h *AdminHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "user not found")
		return
	}

	summaries := make([]userSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, newUserSummary(user))
	}
	httputil.WriteSuccess(w, summaries)
}

// addRecord handles POST /api/admin/records
func (h *AdminHandlers) addRecord(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req struct {
		UserID   int64   `json:"user_id"`
		Month    string  `json:"month"`
		Year     int     `json:"year"`
		PaidIn   float64 `json:"paid_in"`
		Balance  float64 `json:"balance"`
		Loaned   float64 `json:"loaned"`
		Repaid   float64 `json:"repaid"`
		Shares   float64 `json:"shares"`
		Interest float64 `json:"interest"`
	}

	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.UserID <= 0 {
		fields["user_id"] = "user_id is required"
	}
	if req.Month == "" {
		fields["month"] = "month is required"
	}
	if req.Year == 0 {
		fields["year"] = "year is required"
	}
	if len(fields) > 0 {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	// An unknown target is a client error, not a storage failure.
	if _, err := h.store.GetUserByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteBadRequest(w, "target user does not exist")
			return
		}
		writeStoreError(w, r, err, "user not found")
		return
	}

	record := &storage.FinancialRecord{
		UserID:   req.UserID,
		Month:    req.Month,
		Year:     req.Year,
		PaidIn:   req.PaidIn,
		Balance:  req.Balance,
		Loaned:   req.Loaned,
		Repaid:   req.Repaid,
		Shares:   req.Shares,
		Interest: req.Interest,
	}
	if err := h.store.CreateRecord(r.Context(), record); err != nil {
		writeStoreError(w, r, err, "record not found")
		return
	}

	h.metrics.RecordsCreatedTotal.WithLabelValues("admin").Inc()
	httputil.WriteCreated(w, newRecordResponse(record))
}
