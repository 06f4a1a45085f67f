// Package client is the network boundary of the DocAssist client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract split by concern (AuthAPI,
//     DocumentAPI, ChatAPI, combined in Client).
//  2. HTTPClient, a JSON-over-HTTP implementation that unwraps the
//     {success, message, data} envelope, builds multipart uploads and
//     attaches the bearer token read fresh from a TokenSource on every call.
//
// # Error Handling
//
// Failures are returned as *APIError whose Kind is one of the sentinel
// errors ErrNetwork, ErrUnauthorized, ErrValidation, ErrNotFound,
// ErrConflict, ErrSizeLimitExceeded and ErrUnknown; match them with
// errors.Is. No call is retried.
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
