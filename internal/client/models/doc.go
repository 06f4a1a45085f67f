// Package models defines the client-side data model of the DocAssist client:
// the credential pair, the user identity, documents and their processing
// status, chat sessions and chat messages with their source citations.
//
// Field names follow the JSON payloads of the DocAssist API so values can be
// decoded straight out of the response envelope.
package models
