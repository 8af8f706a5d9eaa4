// Package client is the client's gateway to the document-processing REST API
// and the bootstrap for its local SQLite database.
//
// # Overview
//
//  1. Client is the backend contract used by the stores: token and legacy
//     login, registration, the current user, document listing, detail,
//     upload, processing, extracted-field updates and stats.
//  2. HTTPClient implements it over net/http. Every request carries a fresh
//     X-Request-ID and, when the TokenSource has one, an
//     "Authorization: Bearer <token>" header. The token is read at call time,
//     so a login or logout is visible to the very next request.
//  3. InitDatabase and RunMigrations open the SQLite file and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the decoded body and
// the most useful message in it ("detail", then "message", then "error",
// then the first field error). APIError matches ErrUnauthorized (401/403),
// ErrNotFound (404), ErrValidation (400) and ErrUnavailable (502/503/504)
// through errors.Is. Transport failures wrap ErrUnavailable.
//
// Requests are never retried and tokens are never refreshed here; callers
// decide what a failure means.
package client
