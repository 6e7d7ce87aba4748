// Package api holds the REST handlers: the billing webhook endpoint and
// the delivery log listing.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/billingmail/internal/event"
	"github.com/shaharia-lab/billingmail/internal/eventbus"
	"github.com/shaharia-lab/billingmail/internal/storage"
)

// Server holds all dependencies for the REST API handlers.
type Server struct {
	verifier   Verifier
	normalizer *event.KindNormalizer
	bus        eventbus.Bus
	deliveries storage.DeliveryStore
	logger     *slog.Logger
}

// New creates a new API Server.
func New(verifier Verifier, normalizer *event.KindNormalizer, bus eventbus.Bus, deliveries storage.DeliveryStore, logger *slog.Logger) *Server {
	return &Server{
		verifier:   verifier,
		normalizer: normalizer,
		bus:        bus,
		deliveries: deliveries,
		logger:     logger,
	}
}

// Mount registers all API routes on the given router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/webhooks/billing", s.handleBillingWebhook)
	r.Get("/api/deliveries", s.handleListDeliveries)
}

// handleListDeliveries returns the most recent delivery outcomes.
func (s *Server) handleListDeliveries(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.deliveries.ListDeliveries(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing deliveries failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
