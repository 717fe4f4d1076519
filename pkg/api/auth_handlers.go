package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/tally/pkg/auth"
	"github.com/platinummonkey/tally/pkg/httputil"
	"github.com/platinummonkey/tally/pkg/observability"
	"github.com/platinummonkey/tally/pkg/storage"
)

// AuthHandlers handles account registration and login, the only two
// endpoints that run without a token.
type AuthHandlers struct {
	store   storage.UserStore
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenService
	metrics *observability.Metrics
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(store storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenService, metrics *observability.Metrics) *AuthHandlers {
	return &AuthHandlers{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		metrics: metrics,
	}
}

// RegisterRoutes registers the public authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.register).Methods("POST")
	router.HandleFunc("/login", h.login).Methods("POST")
}

// register handles POST /api/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	} else if len(req.Password) > 72 {
		// bcrypt input limit
		fields["password"] = "password must be at most 72 bytes"
	}
	if len(fields) > 0 {
		h.metrics.RegistrationsTotal.WithLabelValues(observability.ResultFailure).Inc()
		httputil.WriteFieldErrors(w, fields)
		return
	}

	role := auth.DefaultRole
	if req.Role != "" {
		parsed, err := auth.ParseRole(req.Role)
		if err != nil {
			h.metrics.RegistrationsTotal.WithLabelValues(observability.ResultFailure).Inc()
			httputil.WriteBadRequest(w, "invalid role")
			return
		}
		role = parsed
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(observability.ResultFailure).Inc()
		observability.FromContext(r.Context()).WithError(err).Error("failed to hash password")
		httputil.WriteInternalError(w)
		return
	}

	user := &storage.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(observability.ResultFailure).Inc()
		writeStoreError(w, r, err, "user not found")
		return
	}

	h.metrics.RegistrationsTotal.WithLabelValues(observability.ResultSuccess).Inc()
	httputil.WriteCreated(w, newUserSummary(user))
}

// login handles POST /api/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		h.metrics.LoginsTotal.WithLabelValues(observability.ResultFailure).Inc()
		httputil.WriteFieldErrors(w, fields)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.invalidCredentials(w)
			return
		}
		h.metrics.LoginsTotal.WithLabelValues(observability.ResultFailure).Inc()
		observability.FromContext(r.Context()).WithError(err).Error("failed to look up user")
		httputil.WriteInternalError(w)
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		h.invalidCredentials(w)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.metrics.LoginsTotal.WithLabelValues(observability.ResultFailure).Inc()
		observability.FromContext(r.Context()).WithError(err).Error("failed to issue token")
		httputil.WriteInternalError(w)
		return
	}

	h.metrics.LoginsTotal.WithLabelValues(observability.ResultSuccess).Inc()
	httputil.WriteSuccess(w, map[string]string{
		"token": token,
		"role":  user.Role.String(),
	})
}

// invalidCredentials answers every login failure identically so callers
// cannot probe which emails exist.
func (h *AuthHandlers) invalidCredentials(w http.ResponseWriter) {
	h.metrics.LoginsTotal.WithLabelValues(observability.ResultFailure).Inc()
	httputil.WriteUnauthorized(w, "invalid credentials")
}
