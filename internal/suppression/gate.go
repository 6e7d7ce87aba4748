// Package suppression gates outgoing email against addresses known to be
// undeliverable. The gate is two-tier: a short-lived local cache, then the
// email provider's authoritative suppression registry. The registry check
// fails open — a payment receipt is never blocked because the suppression
// service was briefly unreachable.
package suppression

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is the registry's way of saying "this address is not on the
// suppression list".
var ErrNotFound = errors.New("suppression: address not found")

// Status is a positive suppression record returned by the registry.
type Status struct {
	Reason string
}

// Registry is the authoritative remote suppression lookup.
type Registry interface {
	// Lookup returns the suppression status of an address within a sending
	// region, or an error wrapping ErrNotFound when the address is not
	// suppressed.
	Lookup(ctx context.Context, region, address string) (*Status, error)
}

// Decision reasons.
const (
	ReasonLocalCache = "local-cache"
	ReasonRegistry   = "registry"
)

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool
	Reason  string
}

// rejectionIndicators are substrings of transport error text that point at
// a recipient-level rejection rather than a transient failure.
var rejectionIndicators = []string{
	"suppress",
	"complaint",
	"blocked",
	"blacklist",
	"address is on the",
}

// Gate is the two-tier suppression check. It is safe for concurrent use;
// the local cache is a plain map guarded by a mutex and entries are evicted
// lazily on lookup once they outlive the TTL.
type Gate struct {
	registry Registry
	ttl      time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	local map[string]time.Time // address -> firstObservedAt
}

// NewGate creates a Gate. ttl bounds the local cache lifetime; timeout
// bounds the authoritative registry lookup so the send path cannot stall on
// an unresponsive suppression service.
func NewGate(registry Registry, ttl, timeout time.Duration, logger *slog.Logger) *Gate {
	return &Gate{
		registry: registry,
		ttl:      ttl,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
		local:    make(map[string]time.Time),
	}
}

// Check decides whether a send to address is permitted. It is invoked once
// per send attempt, before any rendering or transport work.
func (g *Gate) Check(ctx context.Context, region, address string) Decision {
	addr := normalize(address)

	if g.suppressedLocally(addr) {
		return Decision{Allowed: false, Reason: ReasonLocalCache}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	status, err := g.registry.Lookup(lookupCtx, region, addr)
	switch {
	case err == nil:
		reason := ReasonRegistry
		if status != nil && status.Reason != "" {
			reason = status.Reason
		}
		g.Suppress(addr)
		return Decision{Allowed: false, Reason: reason}
	case errors.Is(err, ErrNotFound):
		return Decision{Allowed: true}
	default:
		// Fail open: an unreachable registry must not block the send.
		g.logger.Warn("suppression registry lookup failed, allowing send",
			"address", addr, "error", err)
		return Decision{Allowed: true}
	}
}

// Suppress records an address in the local cache. An existing record keeps
// its original observation time.
func (g *Gate) Suppress(address string) {
	addr := normalize(address)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.local[addr]; !ok {
		g.local[addr] = g.now()
	}
}

// RecordSendFailure inspects a transport send error and, when its text
// indicates a recipient-level rejection, adds the address to the local
// cache. This closes the loop for addresses the authoritative registry had
// not yet learned about.
func (g *Gate) RecordSendFailure(address string, sendErr error) bool {
	if sendErr == nil {
		return false
	}
	text := strings.ToLower(sendErr.Error())
	for _, indicator := range rejectionIndicators {
		if strings.Contains(text, indicator) {
			g.logger.Info("send failure looks like recipient rejection, suppressing locally",
				"address", normalize(address))
			g.Suppress(address)
			return true
		}
	}
	return false
}

// Sweep removes expired local records. Eviction is lazy on lookup anyway;
// the sweep just keeps the map from accumulating dead entries between
// lookups.
func (g *Gate) Sweep() int {
	cutoff := g.now().Add(-g.ttl)
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for addr, observed := range g.local {
		if observed.Before(cutoff) {
			delete(g.local, addr)
			removed++
		}
	}
	return removed
}

// suppressedLocally reports whether a live local record exists, evicting
// the record if it has outlived the TTL.
func (g *Gate) suppressedLocally(addr string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	observed, ok := g.local[addr]
	if !ok {
		return false
	}
	if g.now().Sub(observed) > g.ttl {
		delete(g.local, addr)
		return false
	}
	return true
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
