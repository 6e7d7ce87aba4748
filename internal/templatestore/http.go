package templatestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HTTPStore downloads objects from an HTTP(S) object store laid out as
// <baseURL>/<container>/<path>. A 404 maps to ErrNotFound; every other
// non-2xx status is a transport failure.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates an HTTPStore for the given base URL.
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Download implements ObjectStore.
func (s *HTTPStore) Download(ctx context.Context, container, path string) ([]byte, error) {
	u := s.baseURL + "/" + url.PathEscape(NormalizeContainer(container)) + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", u, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("downloading %q: unexpected status %d", u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %q: %w", u, err)
	}
	return body, nil
}

// DirStore serves objects from a local directory tree, mirroring the remote
// layout <root>/<container>/<path>. Intended for development and fixtures.
type DirStore struct {
	root string
}

// NewDirStore creates a DirStore rooted at the given directory.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Download implements ObjectStore.
func (s *DirStore) Download(_ context.Context, container, path string) ([]byte, error) {
	full := filepath.Join(s.root, NormalizeContainer(container), filepath.FromSlash(path))
	raw, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %q: %w", full, err)
	}
	return raw, nil
}
