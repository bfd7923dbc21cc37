// Package metadata is a small key/value store on top of the local SQLite
// session database. The CLI keeps its tokens and the logged-in email here.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyEmail        = "email"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
