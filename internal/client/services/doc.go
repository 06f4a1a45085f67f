// Package services holds the client's long-lived state owners.
//
// AuthService owns the credential pair and the signed-in identity,
// DocumentService owns the tracked document set and ChatService owns the
// session list and the active transcript. Each is safe for concurrent use:
// state changes happen under one mutex per service, network calls are made
// outside it, and every response is checked against the request tag it was
// issued with before it is applied. Changes are announced on an events.Hub.
package services
