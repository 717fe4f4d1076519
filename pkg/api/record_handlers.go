package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/tally/pkg/httputil"
	"github.com/platinummonkey/tally/pkg/middleware"
	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage"
)

// RecordHandlers handles the caller's own financial records. Every
// route is owner-scoped through the verified identity; user IDs never
// come from the request.
type RecordHandlers struct {
	store   storage.RecordStore
	authn   *middleware.AuthMiddleware
	metrics *observability.Metrics
}

// NewRecordHandlers creates a new record handlers instance
func NewRecordHandlers(store storage.RecordStore, authn *middleware.AuthMiddleware, metrics *observability.Metrics) *RecordHandlers {
	return &RecordHandlers{
		store:   store,
		authn:   authn,
		metrics: metrics,
	}
}

// RegisterRoutes registers record routes, each wrapped in the
// authentication middleware.
func (h *RecordHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/records", h.authn.Handler(http.HandlerFunc(h.listRecords))).Methods("GET")
	router.Handle("/records", h.authn.Handler(http.HandlerFunc(h.addRecord))).Methods("POST")
	router.Handle("/records/{id}", h.authn.Handler(http.HandlerFunc(h.deleteRecord))).Methods("DELETE")
	router.Handle("/graph-data", h.authn.Handler(http.HandlerFunc(h.graphData))).Methods("GET")
}

// listRecords handles GET /api/records
func (h *RecordHandlers) listRecords(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	records, err := h.store.ListRecordsByUser(r.Context(), identity.UserID)
	if err != nil {
		writeStoreError(w, r, err, "record not found")
		return
	}

	httputil.WriteSuccess(w, newRecordResponses(records))
}

// addRecord handles POST /api/records
func (h *RecordHandlers) addRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
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

	record := &storage.FinancialRecord{
		UserID:   identity.UserID,
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

	h.metrics.RecordsCreatedTotal.WithLabelValues("user").Inc()
	httputil.WriteCreated(w, newRecordResponse(record))
}

// deleteRecord handles DELETE /api/records/{id}
func (h *RecordHandlers) deleteRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteRecord(r.Context(), id, identity.UserID)
	if err != nil {
		writeStoreError(w, r, err, "record not found")
		return
	}
	if !deleted {
		// Missing and not-owned are deliberately indistinguishable.
		httputil.WriteNotFoundError(w, "record not found")
		return
	}

	h.metrics.RecordsDeletedTotal.Inc()
	httputil.WriteSuccess(w, map[string]string{"status": "deleted"})
}

// graphData handles GET /api/graph-data
func (h *RecordHandlers) graphData(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	records, err := h.store.ListRecordsByUser(r.Context(), identity.UserID)
	if err != nil {
		writeStoreError(w, r, err, "record not found")
		return
	}

	httputil.WriteSuccess(w, buildGraphData(records))
}

// buildGraphData folds records into a chart-ready series. Labels are
// "<Month> <Year>" in insertion order; the first record for a label
// contributes its paid_in as the value and later duplicates are skipped.
func buildGraphData(records []*storage.FinancialRecord) graphData {
	data := graphData{
		Labels: make([]string, 0, len(records)),
		Values: make([]float64, 0, len(records)),
	}

	seen := make(map[string]bool, len(records))
	for _, record := range records {
		label := fmt.Sprintf("%s %d", record.Month, record.Year)
		if seen[label] {
			continue
		}
		seen[label] = true
		data.Labels = append(data.Labels, label)
		data.Values = append(data.Values, record.PaidIn)
	}
	return data
}
