package suppression

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HTTPRegistry queries a provider suppression API laid out as
// <baseURL>/<region>/suppressed-destinations/<address>. A 404 maps to
// ErrNotFound (not suppressed); every other non-2xx status is a transport
// failure and the gate fails open on it.
type HTTPRegistry struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRegistry creates an HTTPRegistry for the given base URL. The
// per-lookup timeout is enforced by the caller's context, not here.
func NewHTTPRegistry(baseURL string) *HTTPRegistry {
	return &HTTPRegistry{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

type registryResponse struct {
	Suppressed bool   `json:"suppressed"`
	Reason     string `json:"reason"`
}

// Lookup implements Registry.
func (r *HTTPRegistry) Lookup(ctx context.Context, region, address string) (*Status, error) {
	u := fmt.Sprintf("%s/%s/suppressed-destinations/%s",
		r.baseURL, url.PathEscape(region), url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building suppression lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suppression lookup for %q: %w", address, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("suppression lookup for %q: unexpected status %d", address, resp.StatusCode)
	}

	var body registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding suppression lookup response: %w", err)
	}
	if !body.Suppressed {
		return nil, ErrNotFound
	}
	return &Status{Reason: body.Reason}, nil
}
