package client

import (
	"context"

	"github.com/dmitrijs2005/docassist/internal/client/models"
)

// AuthAPI is the authentication part of the backend.
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.CredentialPair, error)
	Login(ctx context.Context, req models.LoginRequest) (models.CredentialPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.CredentialPair, error)
	CurrentUser(ctx context.Context) (models.User, error)
}

// DocumentAPI is the document part of the backend.
type DocumentAPI interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	GetDocument(ctx context.Context, id string) (models.Document, error)
	DocumentStatus(ctx context.Context, id string) (models.DocumentStatusInfo, error)
	UploadDocument(ctx context.Context, req models.UploadRequest) (models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// ChatAPI is the AI assistant part of the backend.
type ChatAPI interface {
	Chat(ctx context.Context, req models.ChatRequest) (models.ChatReply, error)
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	SessionMessages(ctx context.Context, id string) ([]models.ChatMessage, error)
	DeleteSession(ctx context.Context, id string) error
}

// Client is the full backend API.
type Client interface {
	AuthAPI
	DocumentAPI
	ChatAPI
}

// TokenSource yields the access token to attach to a request. It is
// consulted on every request so a token cleared by logout is never reused.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}
