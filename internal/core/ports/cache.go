package ports

import (
	"context"
	"time"
)

// KeyValueCache is the abstract get/set/delete store with expiry backing
// session records and catalog caching. Implementations must keep serving the
// full contract even when a remote backend is unreachable (see
// infrastructure/cache).
type KeyValueCache interface {
	// Set stores value under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value and true when present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Delete removes key, reporting whether it was present. Deleting an
	// absent key is not an error.
	Delete(ctx context.Context, key string) (bool, error)
}
