// Package templatestore fetches named text blobs (brand templates, subject
// lines, style sheets) from a remote object store, with an in-process cache
// in front of it.
package templatestore

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested object does not exist in the
// store. It is distinguishable from transport and auth failures so callers
// can drive fallback chains off it.
var ErrNotFound = errors.New("templatestore: object not found")

// ObjectStore is the remote blob store collaborator.
type ObjectStore interface {
	// Download returns the raw bytes of an object, or an error wrapping
	// ErrNotFound when the object does not exist.
	Download(ctx context.Context, container, path string) ([]byte, error)
}

// NormalizeContainer strips an optional scheme prefix from a container
// identifier, so "blob://templates" and "templates" address the same
// container.
func NormalizeContainer(container string) string {
	if i := strings.Index(container, "://"); i >= 0 {
		container = container[i+3:]
	}
	return strings.Trim(container, "/")
}
