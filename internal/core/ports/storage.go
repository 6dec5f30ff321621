package ports

import "context"

// Durable storage keys for the persisted session.
const (
	TokenKey    = "token"
	IdentityKey = "user"
)

// KeyValueStore is the durable storage the session is persisted to.
// Get reports ok=false when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
