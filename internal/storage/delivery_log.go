// Package storage holds the in-memory delivery log. Outcomes are kept only
// for the process lifetime; the service deliberately persists nothing
// beyond its in-process caches.
package storage

import (
	"context"
	"sync"
	"time"
)

// Delivery outcome statuses.
const (
	StatusSent       = "sent"
	StatusSuppressed = "suppressed"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
)

// DeliveryEntry records the outcome of one event's mail handling.
type DeliveryEntry struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	Brand     string    `json:"brand"`
	Locale    string    `json:"locale"`
	Recipient string    `json:"recipient,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryStore records and lists delivery outcomes.
type DeliveryStore interface {
	// LogDelivery appends an entry to the log.
	LogDelivery(ctx context.Context, entry DeliveryEntry) error
	// ListDeliveries returns the most recent entries, newest first.
	ListDeliveries(ctx context.Context, limit int) ([]DeliveryEntry, error)
}

// MemoryDeliveryStore is a bounded in-memory DeliveryStore. When the bound
// is reached the oldest entries are discarded.
type MemoryDeliveryStore struct {
	mu      sync.Mutex
	entries []DeliveryEntry
	max     int
}

// NewMemoryDeliveryStore creates a store keeping at most max entries.
// max <= 0 defaults to 1000.
func NewMemoryDeliveryStore(max int) *MemoryDeliveryStore {
	if max <= 0 {
		max = 1000
	}
	return &MemoryDeliveryStore{max: max}
}

// LogDelivery implements DeliveryStore.
func (s *MemoryDeliveryStore) LogDelivery(_ context.Context, entry DeliveryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}
	return nil
}

// ListDeliveries implements DeliveryStore.
func (s *MemoryDeliveryStore) ListDeliveries(_ context.Context, limit int) ([]DeliveryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]DeliveryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}
