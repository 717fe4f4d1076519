package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/tally/pkg/httputil"
	"github.com/platinummonkey/tally/pkg/middleware"
	"github.com/platinummonkey/tally/pkg/storage"
)

// UserHandlers serves the caller's own profile.
type UserHandlers struct {
	store storage.UserStore
	authn *middleware.AuthMiddleware
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(store storage.UserStore, authn *middleware.AuthMiddleware) *UserHandlers {
	return &UserHandlers{
		store: store,
		authn: authn,
	}
}

// RegisterRoutes registers user profile routes
func (h *UserHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/user/details", h.authn.Handler(http.HandlerFunc(h.userDetails))).Methods("GET")
}

// userDetails handles GET /api/user/details
func (h *UserHandlers) userDetails(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	// A token can outlive its user row; that surfaces here as a 404.
	user, err := h.store.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		writeStoreError(w, r, err, "user not found")
		return
	}

	httputil.WriteSuccess(w, newUserDetails(user))
}
