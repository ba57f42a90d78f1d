// Package kvstore provides the string-keyed key/value stores that record
// collections are persisted to. Every backend offers the same full-value
// replace semantics: Set overwrites whatever was stored under the key.
package kvstore

import "context"

// Store is the persistence boundary: a get/set-by-key string store.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks connectivity when the store supports it.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
