// Package api provides the HTTP REST API server for tally.
//
// # Overview
//
// This package implements the HTTP layer: a gorilla/mux router under the
// /api prefix, handler groups per resource, and the uniform mapping from
// domain failures to HTTP statuses. Handlers never reach into the token;
// they consume the verified identity the authentication middleware
// placed in the request context.
//
// # Architecture
//
// Routes are organized into handler groups, each implementing
// RegisterRoutes(*mux.Router):
//
//   - AuthHandlers: registration and login (the only unauthenticated routes)
//   - RecordHandlers: the caller's own financial records plus the
//     graph-data aggregation
//   - UserHandlers: the caller's profile
//   - AdminHandlers: user listing and record insertion for arbitrary
//     users, both behind the admin role gate
//
// Protected routes are wrapped route-by-route in
// middleware.AuthMiddleware, which answers 401 for missing, malformed,
// invalid or expired tokens. Role decisions stay inside the admin
// handlers and answer 403, so a valid non-admin token is never mistaken
// for an unauthenticated request.
//
// # API Endpoints
//
//	POST   /api/register       create an account            201, 400, 409
//	POST   /api/login          exchange credentials for JWT 200, 400, 401
//	GET    /api/records        list caller's records        200, 401
//	POST   /api/records        add a record for the caller  201, 400, 401
//	DELETE /api/records/{id}   delete caller's record       200, 400, 401, 404
//	GET    /api/user/details   caller's profile             200, 401, 404
//	GET    /api/graph-data     chart series of paid_in      200, 401
//	GET    /api/admin/users    list all users               200, 401, 403
//	POST   /api/admin/records  add a record for any user    201, 400, 401, 403
//
// Error bodies are always {"error": "<message>"}; validation failures may
// add a "fields" object naming each offending field. Storage errors that
// have no mapped status are logged request-scoped and surface as a
// generic 500.
//
// # Usage
//
//	server := api.NewServer(store, tokens, hasher, logger, metrics)
//	http.ListenAndServe(":8080", server.Handler(corsOrigins, nil))
//
// ServeHTTP on the Server serves the bare router, which keeps tests free
// of logging noise; Handler assembles the full middleware chain for
// production use.
package api
