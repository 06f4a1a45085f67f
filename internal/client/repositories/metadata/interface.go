// Package metadata is a small key/value table in the client's SQLite
// database. The credential store keeps the token pair here.
package metadata

import (
	"context"
)

// Repository reads and writes metadata entries. A missing key reads as
// (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
