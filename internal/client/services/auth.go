package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docassist/internal/client/client"
	"github.com/dmitrijs2005/docassist/internal/client/credentials"
	"github.com/dmitrijs2005/docassist/internal/client/events"
	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/logging"
)

// LoginPath is where logout sends the router.
const LoginPath = "/login"

// AuthService owns the credential pair and the signed-in user.
//
// IsAuthenticated depends only on whether an access token is stored. It
// does not wait for the identity to load, so an expired token still counts
// until the next LoadCurrentUser fails.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (models.CredentialPair, error)
	Login(ctx context.Context, email, password string) (models.CredentialPair, error)
	Refresh(ctx context.Context) (models.CredentialPair, error)

	// LoadCurrentUser fetches the identity when a token is present. Any
	// failure, network or authorization, logs the user out; the fetch error
	// is returned after that.
	LoadCurrentUser(ctx context.Context) error

	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool

	// User returns the loaded identity. ok is false when it has not been
	// loaded yet, which is not the same as being signed out.
	User() (u models.User, ok bool)
}

type authService struct {
	api   client.AuthAPI
	store credentials.Store
	hub   *events.Hub
	log   logging.Logger

	mu    sync.Mutex
	epoch uint64
	user  *models.User
}

func NewAuthService(api client.AuthAPI, store credentials.Store, hub *events.Hub, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &authService{api: api, store: store, hub: hub, log: log.With("component", "auth")}
}

func (a *authService) Register(ctx context.Context, fullName, email, password string) (models.CredentialPair, error) {
	req := models.RegisterRequest{FullName: fullName, Email: email, Password: password}
	if err := validateRequest(req); err != nil {
		return models.CredentialPair{}, fmt.Errorf("register: %w", err)
	}

	pair, err := a.api.Register(ctx, req)
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("register: %w", err)
	}
	if err := a.storePair(ctx, pair); err != nil {
		return models.CredentialPair{}, fmt.Errorf("register: %w", err)
	}

	a.log.Info(ctx, "registered", "email", email)
	return pair, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (models.CredentialPair, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := validateRequest(req); err != nil {
		return models.CredentialPair{}, fmt.Errorf("login: %w", err)
	}

	pair, err := a.api.Login(ctx, req)
	if errors.Is(err, client.ErrUnauthorized) {
		return models.CredentialPair{}, fmt.Errorf("login: %w", errors.Join(ErrInvalidCredentials, err))
	}
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("login: %w", err)
	}
	if err := a.storePair(ctx, pair); err != nil {
		return models.CredentialPair{}, fmt.Errorf("login: %w", err)
	}

	a.log.Info(ctx, "logged in", "email", email)
	return pair, nil
}

func (a *authService) Refresh(ctx context.Context) (models.CredentialPair, error) {
	a.mu.Lock()
	epoch := a.epoch
	a.mu.Unlock()

	current, err := a.store.Get(ctx)
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("refresh: %w", err)
	}
	if current.RefreshToken == "" {
		return models.CredentialPair{}, ErrNoRefreshToken
	}

	pair, err := a.api.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("refresh: %w", err)
	}
	if err := a.replacePair(ctx, pair, &epoch); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			a.log.Debug(ctx, "discarding refreshed pair issued before a credential change")
		}
		return models.CredentialPair{}, fmt.Errorf("refresh: %w", err)
	}

	a.log.Debug(ctx, "tokens refreshed")
	return pair, nil
}

// storePair replaces both tokens and forgets the identity.
func (a *authService) storePair(ctx context.Context, pair models.CredentialPair) error {
	return a.replacePair(ctx, pair, nil)
}

// replacePair writes pair and bumps the epoch under one lock, so the pair of
// the call that completes last wins whole. With a non-nil since, the write
// only happens while the epoch still equals *since.
func (a *authService) replacePair(ctx context.Context, pair models.CredentialPair, since *uint64) error {
	if !pair.Complete() {
		return credentials.ErrIncompletePair
	}

	a.mu.Lock()
	if since != nil && *since != a.epoch {
		a.mu.Unlock()
		return ErrStaleResponse
	}
	if err := a.store.Set(ctx, pair); err != nil {
		a.mu.Unlock()
		return err
	}
	a.epoch++
	a.user = nil
	a.mu.Unlock()

	a.hub.Emit(events.AuthChanged)
	a.hub.Emit(events.UserChanged)
	return nil
}

func (a *authService) LoadCurrentUser(ctx context.Context) error {
	a.mu.Lock()
	epoch := a.epoch
	a.mu.Unlock()

	if !a.IsAuthenticated(ctx) {
		return nil
	}

	u, err := a.api.CurrentUser(ctx)

	a.mu.Lock()
	if epoch != a.epoch {
		a.mu.Unlock()
		a.log.Debug(ctx, "discarding identity response issued before a credential change")
		return nil
	}
	if err != nil {
		clearErr := a.clearLocked(ctx)
		a.mu.Unlock()

		a.log.Warn(ctx, "current user fetch failed, logging out", "error", err)
		a.announceLogout()
		return errors.Join(fmt.Errorf("load current user: %w", err), clearErr)
	}
	a.user = &u
	a.mu.Unlock()

	a.hub.Emit(events.UserChanged)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	err := a.clearLocked(ctx)
	a.mu.Unlock()

	a.log.Info(ctx, "logged out")
	a.announceLogout()
	return err
}

// clearLocked drops tokens and identity. Callers hold a.mu.
func (a *authService) clearLocked(ctx context.Context) error {
	a.epoch++
	a.user = nil
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *authService) announceLogout() {
	a.hub.Emit(events.AuthChanged)
	a.hub.Emit(events.UserChanged)
	a.hub.Publish(events.Event{Kind: events.Navigate, Path: LoginPath})
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	pair, err := a.store.Get(ctx)
	if err != nil {
		a.log.Error(ctx, "read credentials", "error", err)
		return false
	}
	return pair.AccessToken != ""
}

func (a *authService) User() (models.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return models.User{}, false
	}
	return *a.user, true
}
