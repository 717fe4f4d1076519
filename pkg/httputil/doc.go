// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding, error responses,
// parameter parsing, validation, and common HTTP middleware patterns. Every error
// response in the API shares one shape, {"error": "..."}, so clients parse a single
// format regardless of which handler failed.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteSuccess(w, records)
//	httputil.WriteCreated(w, user)
//
// Error responses:
//
//	httputil.WriteBadRequest(w, "month is required")
//	httputil.WriteUnauthorized(w, "invalid or expired token")
//	httputil.WriteForbidden(w, "access denied")
//	httputil.WriteConflict(w, "email already registered")
//	httputil.WriteInternalError(w) // generic body, log the real error
//
// Validation failures that name individual fields:
//
//	httputil.WriteFieldErrors(w, map[string]string{
//		"email":    "email is required",
//		"password": "password is required",
//	})
//
// # Request Parsing
//
// JSON parsing:
//
//	var req CreateRecordRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
// Path parameters:
//
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
//	if !ok {
//		return
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.CORSMiddleware(origins),
//		httputil.ContentTypeMiddleware,
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/middleware: Token authentication middleware
//   - pkg/observability: Structured logging used by the middleware here
package httputil
