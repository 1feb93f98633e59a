// Package kvstore provides the key-value persistence boundary used by
// the settings store. Backends are selected at composition time.
package kvstore

import "context"

// Store is a minimal asynchronous key-value store. Get returns ok=false
// when the key is absent; absence is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
