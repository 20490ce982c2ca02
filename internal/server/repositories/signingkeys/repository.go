package signingkeys

import "context"

// Repository is the store for the server's singleton token signing key.
type Repository interface {
	// Get returns the stored signing key, or common.ErrorNotFound when no
	// key has been persisted yet.
	Get(ctx context.Context) ([]byte, error)

	// SetIfAbsent stores the key unless one already exists and returns the
	// key that ended up persisted. Concurrent callers all observe the same
	// winning key.
	SetIfAbsent(ctx context.Context, key []byte) ([]byte, error)
}
