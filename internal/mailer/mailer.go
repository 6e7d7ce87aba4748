// Package mailer orchestrates the notification pipeline for one billing
// event: brand/locale resolution, recipient resolution, the suppression
// gate, rendering, and the transport send. Every failure path degrades to a
// defined outcome; nothing in here takes the process down.
package mailer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaharia-lab/billingmail/internal/brand"
	"github.com/shaharia-lab/billingmail/internal/event"
	"github.com/shaharia-lab/billingmail/internal/metrics"
	"github.com/shaharia-lab/billingmail/internal/render"
	"github.com/shaharia-lab/billingmail/internal/storage"
	"github.com/shaharia-lab/billingmail/internal/suppression"
	"github.com/shaharia-lab/billingmail/internal/transport"
)

// Mailer handles one event end to end.
type Mailer struct {
	brands     *brand.Resolver
	recipients *RecipientResolver
	gate       *suppression.Gate
	renderer   *render.Renderer
	transport  transport.Transport
	deliveries storage.DeliveryStore
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Mailer.
func New(
	brands *brand.Resolver,
	recipients *RecipientResolver,
	gate *suppression.Gate,
	renderer *render.Renderer,
	tr transport.Transport,
	deliveries storage.DeliveryStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Mailer {
	return &Mailer{
		brands:     brands,
		recipients: recipients,
		gate:       gate,
		renderer:   renderer,
		transport:  tr,
		deliveries: deliveries,
		metrics:    m,
		logger:     logger,
	}
}

// Handle processes one normalized event. The event has already been
// acknowledged to the source; whatever happens here is logged and recorded,
// never surfaced back as a webhook failure.
func (m *Mailer) Handle(ctx context.Context, evt *event.Context) {
	m.metrics.EventsReceived.WithLabelValues(string(evt.Kind)).Inc()

	if !evt.Kind.Mailable() {
		m.logger.Debug("event kind produces no mail", "event", evt.ID, "kind", evt.Kind)
		m.metrics.EmailsSkipped.Inc()
		return
	}

	b, locale := m.brands.Resolve(evt)

	to, ok := m.recipients.Resolve(evt)
	if !ok {
		m.logger.Info("no usable recipient, not mailed", "event", evt.ID, "invoice", evt.InvoiceNumber)
		m.metrics.EmailsSkipped.Inc()
		m.record(ctx, evt, b, locale, storage.DeliveryEntry{
			Status: storage.StatusSkipped,
			Detail: "no usable recipient",
		})
		return
	}

	// The gate runs strictly before any rendering or transport work.
	if decision := m.gate.Check(ctx, b.Region, to); !decision.Allowed {
		m.logger.Info("recipient suppressed, not mailed",
			"event", evt.ID, "recipient", to, "reason", decision.Reason)
		m.metrics.EmailsSuppressed.WithLabelValues(decision.Reason).Inc()
		m.record(ctx, evt, b, locale, storage.DeliveryEntry{
			Recipient: to,
			Status:    storage.StatusSuppressed,
			Detail:    decision.Reason,
		})
		return
	}

	note, err := m.renderer.Render(ctx, b.ID, locale, string(evt.Kind), evt.ServiceID, evt)
	if err != nil {
		// Brand configuration truly absent. Fatal for this event only.
		m.logger.Error("rendering failed, event dropped", "event", evt.ID, "error", err)
		m.metrics.EmailsFailed.Inc()
		m.record(ctx, evt, b, locale, storage.DeliveryEntry{
			Recipient: to,
			Status:    storage.StatusFailed,
			Detail:    err.Error(),
		})
		return
	}

	messageID, err := m.transport.Send(ctx, transport.Email{
		Region:  b.Region,
		From:    b.FromAddress,
		ReplyTo: b.ReplyTo,
		To:      to,
		Subject: note.Subject,
		HTML:    note.HTML,
		Text:    note.Text,
	})
	if err != nil {
		m.logger.Error("transport send failed", "event", evt.ID, "recipient", to, "error", err)
		m.metrics.EmailsFailed.Inc()
		// A rejection-flavored failure seeds the local suppression cache so
		// the next event for this address is denied without a send attempt.
		m.gate.RecordSendFailure(to, err)
		m.record(ctx, evt, b, locale, storage.DeliveryEntry{
			Recipient: to,
			Subject:   note.Subject,
			Status:    storage.StatusFailed,
			Detail:    err.Error(),
		})
		return
	}

	m.logger.Info("notification sent",
		"event", evt.ID, "brand", b.ID, "locale", locale, "recipient", to, "message_id", messageID)
	m.metrics.EmailsSent.WithLabelValues(b.ID).Inc()
	m.record(ctx, evt, b, locale, storage.DeliveryEntry{
		Recipient: to,
		Subject:   note.Subject,
		MessageID: messageID,
		Status:    storage.StatusSent,
	})
}

// record writes a delivery log entry, filling the shared event fields.
func (m *Mailer) record(ctx context.Context, evt *event.Context, b brand.Brand, locale brand.Locale, entry storage.DeliveryEntry) {
	entry.ID = uuid.NewString()
	entry.EventID = evt.ID
	entry.Kind = string(evt.Kind)
	entry.Brand = b.ID
	entry.Locale = string(locale)
	entry.CreatedAt = time.Now()

	if err := m.deliveries.LogDelivery(ctx, entry); err != nil {
		m.logger.Warn("failed to record delivery outcome", "event", evt.ID, "error", err)
	}
}
