// Package store defines the key-value capability the refetch caches persist
// through, together with an in-process implementation backed by ristretto and
// a Redis-backed implementation.
package store

import "context"

// Store is the persistence contract consumed by the caches. Values are opaque
// byte slices; serialization is the caller's concern. Entries never expire on
// their own — presence is decided solely by Set and Remove.
type Store interface {
	// Get retrieves a value by key. The boolean indicates presence.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key, overwriting any previous value.
	Set(ctx context.Context, key string, val []byte) error

	// Remove deletes the entry for key. Removing an absent key is not an
	// error.
	Remove(ctx context.Context, key string) error
}
