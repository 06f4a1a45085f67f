// Package credentials persists the access/refresh token pair.
//
// The pair is the only state that survives a restart. Both tokens are
// written, read and cleared together; a reader never observes one token
// without the other.
package credentials

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docassist/internal/client/client"
	"github.com/dmitrijs2005/docassist/internal/client/models"
)

// Well-known metadata keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// ErrIncompletePair is returned when either token of a pair is empty. It
// matches client.ErrUnknown.
var ErrIncompletePair = fmt.Errorf("credential pair must carry both tokens: %w", client.ErrUnknown)

// Store is durable storage for one credential pair. Get returns the zero
// pair when nothing is stored.
type Store interface {
	Get(ctx context.Context) (models.CredentialPair, error)
	Set(ctx context.Context, pair models.CredentialPair) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the pair in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	pair models.CredentialPair
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(context.Context) (models.CredentialPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pair, nil
}

func (m *MemoryStore) Set(_ context.Context, pair models.CredentialPair) error {
	if !pair.Complete() {
		return ErrIncompletePair
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = models.CredentialPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = models.CredentialPair{}
	return nil
}

// TokenSource reads the access token from s on every call, so a request
// issued after logout never carries the old token.
func TokenSource(s Store) client.TokenSourceFunc {
	return func(ctx context.Context) (string, error) {
		p, err := s.Get(ctx)
		if err != nil {
			return "", err
		}
		return p.AccessToken, nil
	}
}
