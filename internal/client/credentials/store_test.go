package credentials

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/docassist/internal/client/storage"
	"github.com/dmitrijs2005/docassist/internal/cryptox"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "creds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func pair(a, r string) models.CredentialPair {
	return models.CredentialPair{AccessToken: a, RefreshToken: r}
}

func stores(t *testing.T) map[string]Store {
	sealer, err := cryptox.NewSealer(bytes.Repeat([]byte{3}, cryptox.KeySize))
	require.NoError(t, err)

	return map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite":        NewSQLiteStore(openDB(t), nil),
		"sqlite-sealed": NewSQLiteStore(openDB(t), sealer),
	}
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(ctx)
			require.NoError(t, err)
			assert.True(t, got.IsZero())

			require.NoError(t, s.Set(ctx, pair("a1", "r1")))
			got, err = s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, pair("a1", "r1"), got)

			require.NoError(t, s.Set(ctx, pair("a2", "r2")))
			got, err = s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, pair("a2", "r2"), got)

			require.NoError(t, s.Clear(ctx))
			got, err = s.Get(ctx)
			require.NoError(t, err)
			assert.True(t, got.IsZero())
		})
	}
}

func TestStore_RejectsIncompletePair(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, pair("a1", "r1")))

			assert.ErrorIs(t, s.Set(ctx, pair("a2", "")), ErrIncompletePair)
			assert.ErrorIs(t, s.Set(ctx, pair("", "r2")), ErrIncompletePair)

			got, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, pair("a1", "r1"), got)
		})
	}
}

func TestStore_ConcurrentWritesNeverTear(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_ = s.Set(ctx, pair("a-left", "r-left"))
				}()
				go func() {
					defer wg.Done()
					_ = s.Set(ctx, pair("a-right", "r-right"))
				}()
			}
			wg.Wait()

			got, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Contains(t, []models.CredentialPair{pair("a-left", "r-left"), pair("a-right", "r-right")}, got)
		})
	}
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	require.NoError(t, NewSQLiteStore(db, nil).Set(ctx, pair("a1", "r1")))

	got, err := NewSQLiteStore(db, nil).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair("a1", "r1"), got)
}

func TestSQLiteStore_SealedValuesAreNotPlainText(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	sealer, err := cryptox.NewSealer(bytes.Repeat([]byte{9}, cryptox.KeySize))
	require.NoError(t, err)

	require.NoError(t, NewSQLiteStore(db, sealer).Set(ctx, pair("access-secret", "refresh-secret")))

	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access-secret")
}

func TestSQLiteStore_HalfPairReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, KeyAccessToken, []byte("orphan")))

	got, err := NewSQLiteStore(db, nil).Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSQLiteStore_DropsExtraFields(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(openDB(t), nil)

	in := pair("a", "r")
	in.TokenType = "Bearer"
	require.NoError(t, s.Set(ctx, in))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair("a", "r"), got)
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	s := NewSQLiteStore(db, nil)
	require.NoError(t, db.Close())

	_, err := s.Get(ctx)
	assert.ErrorContains(t, err, "read credentials")
	assert.ErrorContains(t, s.Set(ctx, pair("a", "r")), "store credentials")
	assert.ErrorContains(t, s.Clear(ctx), "clear credentials")
}

func TestTokenSource_ReadsThrough(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ts := TokenSource(s)

	tok, err := ts.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Set(ctx, pair("a1", "r1")))
	tok, err = ts.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", tok)

	require.NoError(t, s.Clear(ctx))
	tok, err = ts.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}
