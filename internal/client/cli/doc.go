// Package cli provides the interactive DocAssist command-line client.
//
// It wires configuration, the local credential database, the API client and
// the client services, and runs a REPL on top of them. The REPL plays the
// part of the view layer: it keeps a current route, resolved through the
// route guard, and renders documents, sessions and transcripts.
//
// Typical flow: restore the stored session (or register/login), list and
// upload documents while a background poller follows their processing, then
// ask questions about them.
//
// The REPL is started via App.Run, which blocks until the user exits.
package cli
