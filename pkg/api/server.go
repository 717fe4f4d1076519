package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/httputil"
	"github.com/platinummonkey/tally/pkg/middleware"
	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage"
)

// Server represents our API server
type Server struct {
	store   storage.Store
	tokens  *auth.TokenService
	hasher  *auth.PasswordHasher
	logger  *observability.Logger
	metrics *observability.Metrics
	authn   *middleware.AuthMiddleware
	router  *mux.Router
}

// NewServer creates a new API server with all routes registered under
// the /api prefix.
func NewServer(store storage.Store, tokens *auth.TokenService, hasher *auth.PasswordHasher, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:   store,
		tokens:  tokens,
		hasher:  hasher,
		logger:  logger,
		metrics: metrics,
		authn:   middleware.NewAuthMiddleware(tokens),
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	authHandlers := NewAuthHandlers(s.store, s.hasher, s.tokens, s.metrics)
	authHandlers.RegisterRoutes(api)

	recordHandlers := NewRecordHandlers(s.store, s.authn, s.metrics)
	recordHandlers.RegisterRoutes(api)

	userHandlers := NewUserHandlers(s.store, s.authn)
	userHandlers.RegisterRoutes(api)

	adminHandlers := NewAdminHandlers(s.store, s.authn, s.metrics)
	adminHandlers.RegisterRoutes(api)
}

// ServeHTTP implements http.Handler, serving the bare router. Use
// Handler for the fully instrumented chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router wrapped in the standard middleware chain,
// outermost first: request ID, logging, panic recovery, CORS, metrics,
// content-type and body-size guards. otelMetrics may be nil when
// tracing is disabled.
func (s *Server) Handler(corsOrigins []string, otelMetrics *observability.OTelMetrics) http.Handler {
	chain := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware(s.logger),
		httputil.CORSMiddleware(corsOrigins),
		observability.HTTPMetricsMiddleware(s.metrics, otelMetrics),
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(1 << 20),
	)
	return chain(s.router)
}

// Router exposes the underlying mux router for additional registrations.
func (s *Server) Router() *mux.Router {
	return s.router
}

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// RegisterRoutes registers routes from a RouteRegistrar
func (s *Server) RegisterRoutes(registrar RouteRegistrar) {
	registrar.RegisterRoutes(s.router)
}

// callerIdentity returns the verified identity or answers 401. Protected
// routes are registered through the auth middleware, so a miss here means
// a route wiring bug rather than a client mistake.
func callerIdentity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return nil, false
	}
	return identity, true
}

// writeStoreError maps storage failures onto HTTP responses. notFoundMsg
// names the missing resource for the 404 body; anything unrecognized is
// logged request-scoped and answered with a generic 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, storage.ErrDuplicateEmail):
		httputil.WriteConflict(w, "email already registered")
	case errors.Is(err, storage.ErrNotFound):
		httputil.WriteNotFoundError(w, notFoundMsg)
	default:
		observability.FromContext(r.Context()).WithError(err).Error("storage operation failed")
		httputil.WriteInternalError(w)
	}
}
