// Package state persists small key-value items outside the record tables:
// the sync watermark and the auth session. Values survive restarts and are
// wiped only by an explicit logout.
package state

import "context"

// Well-known keys.
const (
	// KeyLastPulledAt is the sync watermark: the server timestamp of the
	// last successful pull.
	KeyLastPulledAt = "last_pulled_at"

	// KeyToken is the bearer credential for the sync transport.
	KeyToken = "token"

	// KeyUser is the JSON-encoded user returned by login.
	KeyUser = "user"

	// KeyPermissions is the JSON-encoded permission slugs of the user.
	KeyPermissions = "permissions"
)

// Repository stores opaque values by key.
type Repository interface {
	// Get returns the stored value or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key. Used on logout.
	Clear(ctx context.Context) error
}
