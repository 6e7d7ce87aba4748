package api

import (
	"io"
	"net/http"

	"github.com/shaharia-lab/billingmail/internal/event"
)

// maxWebhookBody caps inbound webhook bodies at 1 MiB.
const maxWebhookBody = 1 << 20

// handleBillingWebhook authenticates, normalizes and enqueues one billing
// event. Once the event is accepted it is always acknowledged with 200,
// whatever happens later in the pipeline, so the billing platform never
// retries into a storm.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body failed")
		return
	}

	if !s.verifier.Verify(body, r.Header.Get(SignatureHeader)) {
		s.logger.Warn("webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	evt, err := event.ParseWebhook(body, s.normalizer)
	if err != nil {
		s.logger.Warn("webhook payload rejected", "error", err)
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.bus.Publish(evt)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received", "event_id": evt.ID})
}
