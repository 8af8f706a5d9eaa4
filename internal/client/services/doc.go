// Package services holds the client's state stores.
//
// SessionStore owns the access/refresh tokens and the current user. Its
// initial state is read from durable storage without touching the network,
// and IsAuthenticated is true exactly when an access token is held.
//
// DocumentStore owns the document list, the document being viewed and the
// latest stats. Every action is tracked per request, so Loading stays true
// while any request is in flight and one action finishing never clears
// another's state. Only the newest FetchDocument may set the current
// document.
//
// FieldEdit runs the edit cycle of one extracted field on top of
// DocumentStore.SaveField.
//
// Stores notify subscribers with immutable snapshots after every change.
// Failures are recorded as a display message (the backend's, or a fixed
// per-action fallback) and returned wrapped to the caller.
package services
