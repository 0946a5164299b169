// Package store defines the device-local key-value storage consumed by the
// identity manager, the pairing session, and the playlist cache.
package store

import "context"

// Store is a flat key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get retrieves the value for key, returning errors.ErrDataAbsent
	// when no value exists
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value string) error

	// Remove deletes key; removing an absent key is not an error
	Remove(ctx context.Context, key string) error

	// Close releases any underlying resources
	Close() error
}
