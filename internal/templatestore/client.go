package templatestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Client reads text blobs through an ObjectStore with a process-wide cache
// keyed by the fully-qualified object path. The cache TTL is configurable:
// zero keeps entries warm for the process lifetime, a positive TTL trades
// extra remote calls for hot template updates.
type Client struct {
	store     ObjectStore
	container string
	ttl       time.Duration
	now       func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	text      string
	fetchedAt time.Time
}

// NewClient creates a Client over the given store and container. The
// container may carry a scheme prefix; it is normalized before use.
func NewClient(store ObjectStore, container string, ttl time.Duration) *Client {
	return &Client{
		store:     store,
		container: NormalizeContainer(container),
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]cacheEntry),
	}
}

// FetchText returns the text content of an object. Not-found is reported as
// an error wrapping ErrNotFound.
func (c *Client) FetchText(ctx context.Context, path string) (string, error) {
	key := c.container + "/" + path

	if text, ok := c.cached(key); ok {
		return text, nil
	}

	raw, err := c.store.Download(ctx, c.container, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("fetching %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("fetching %q: %w", key, err)
	}

	text := string(raw)
	c.mu.Lock()
	c.entries[key] = cacheEntry{text: text, fetchedAt: c.now()}
	c.mu.Unlock()
	return text, nil
}

// FetchOptionalText returns the text content of an object, or ok=false when
// the object does not exist. Transport and auth failures are still returned
// as errors.
func (c *Client) FetchOptionalText(ctx context.Context, path string) (text string, ok bool, err error) {
	text, err = c.FetchText(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// cached returns a live cache entry. Expired entries are treated as absent;
// they are overwritten by the next successful fetch rather than deleted.
func (c *Client) cached(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl {
		return "", false
	}
	return e.text, true
}
