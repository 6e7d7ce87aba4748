package templatestore

import "context"

// NullStore is the ObjectStore used when no template store is configured.
// Every lookup misses, which drives the renderer straight to its built-in
// fallback content instead of failing.
type NullStore struct{}

// Download implements ObjectStore.
func (NullStore) Download(context.Context, string, string) ([]byte, error) {
	return nil, ErrNotFound
}
