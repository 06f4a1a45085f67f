package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/docassist/internal/dbx"
)

// Sealer encrypts token values before they reach the database.
type Sealer interface {
	Seal(plaintext []byte) []byte
	Open(sealed []byte) ([]byte, error)
}

// SQLiteStore keeps the pair in the metadata table. Every write touches
// both keys inside one transaction.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	sealer Sealer
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore returns a store over db. sealer may be nil, in which case
// tokens are stored as plain text.
func NewSQLiteStore(db *sql.DB, sealer Sealer) *SQLiteStore {
	return &SQLiteStore{db: db, sealer: sealer}
}

func (s *SQLiteStore) Get(ctx context.Context) (models.CredentialPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var access, refresh []byte
	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		var err error
		if access, err = repo.Get(ctx, KeyAccessToken); err != nil {
			return err
		}
		refresh, err = repo.Get(ctx, KeyRefreshToken)
		return err
	})
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("read credentials: %w", err)
	}

	// a half-written pair from an older build is treated as no pair
	if access == nil || refresh == nil {
		return models.CredentialPair{}, nil
	}

	a, err := s.open(access)
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("open access token: %w", err)
	}
	r, err := s.open(refresh)
	if err != nil {
		return models.CredentialPair{}, fmt.Errorf("open refresh token: %w", err)
	}
	return models.CredentialPair{AccessToken: string(a), RefreshToken: string(r)}, nil
}

func (s *SQLiteStore) Set(ctx context.Context, pair models.CredentialPair) error {
	if !pair.Complete() {
		return ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	access := s.seal([]byte(pair.AccessToken))
	refresh := s.seal([]byte(pair.RefreshToken))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, access); err != nil {
			return err
		}
		return repo.Set(ctx, KeyRefreshToken, refresh)
	})
	if err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, KeyAccessToken, KeyRefreshToken)
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) seal(b []byte) []byte {
	if s.sealer == nil {
		return b
	}
	return s.sealer.Seal(b)
}

func (s *SQLiteStore) open(b []byte) ([]byte, error) {
	if s.sealer == nil {
		return b, nil
	}
	return s.sealer.Open(b)
}
