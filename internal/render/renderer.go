// Package render turns a resolved (brand, locale, kind, service) tuple and
// a normalized billing event into final email content. Every lookup in the
// pipeline has a fallback tier, ending in built-in content, so an event is
// always renderable.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaharia-lab/billingmail/internal/brand"
	"github.com/shaharia-lab/billingmail/internal/event"
	"github.com/shaharia-lab/billingmail/internal/placeholder"
	"github.com/shaharia-lab/billingmail/internal/templatestore"
)

// Notification is the rendered output for one event. It is produced fresh
// per event and never cached; only its template inputs are.
type Notification struct {
	Subject string
	HTML    string
	Text    string
}

// Renderer orchestrates template lookup, stylesheet inlining and
// placeholder substitution.
type Renderer struct {
	templates  *templatestore.Client
	registry   *brand.Registry
	normalizer *event.KindNormalizer
	logger     *slog.Logger
}

// New creates a Renderer.
func New(templates *templatestore.Client, registry *brand.Registry, normalizer *event.KindNormalizer, logger *slog.Logger) *Renderer {
	return &Renderer{
		templates:  templates,
		registry:   registry,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Render produces the notification content for an event. The raw kind is
// normalized through the legacy alias table before any template path is
// constructed. A missing brand configuration is the only fatal condition,
// and it is fatal for this event only.
func (r *Renderer) Render(ctx context.Context, brandID string, locale brand.Locale, rawKind, serviceID string, evt *event.Context) (*Notification, error) {
	kind := r.normalizer.Normalize(rawKind)

	b, ok := r.registry.Get(brandID)
	if !ok {
		return nil, fmt.Errorf("brand %q is not configured", brandID)
	}

	bag := buildBag(b, locale, kind, serviceID, evt)

	html := r.lookupHTML(ctx, b.ID, locale, kind, serviceID)
	subject := r.lookupSubject(ctx, b.ID, locale, kind)

	html = r.inlineStylesheet(ctx, b, html)

	subject = sanitizeSubject(placeholder.Substitute(subject, bag))
	html = placeholder.Substitute(html, bag)

	return &Notification{
		Subject: subject,
		HTML:    html,
		Text:    DeriveText(html),
	}, nil
}

// lookupHTML walks the HTML body fallback chain: kind-level template in the
// requested locale, kind-level in English, then service-level in the same
// two locales, then the built-in document. First hit wins; lookup failures
// of any sort just advance the chain.
func (r *Renderer) lookupHTML(ctx context.Context, brandID string, locale brand.Locale, kind event.Kind, serviceID string) string {
	paths := []string{
		fmt.Sprintf("%s/%s/%s.html", brandID, kind, locale),
		fmt.Sprintf("%s/%s/%s.html", brandID, kind, brand.DefaultLocale),
	}
	if serviceID != "" {
		paths = append(paths,
			fmt.Sprintf("%s/services/%s/%s.html", brandID, serviceID, locale),
			fmt.Sprintf("%s/services/%s/%s.html", brandID, serviceID, brand.DefaultLocale),
		)
	}

	for _, p := range paths {
		text, ok := r.fetch(ctx, p)
		if ok {
			return text
		}
	}
	r.logger.Debug("no HTML template found, using built-in fallback",
		"brand", brandID, "kind", kind, "locale", locale, "service", serviceID)
	return fallbackHTML
}

// lookupSubject walks the subject fallback chain: requested locale, then
// English, then the built-in per-kind subject.
func (r *Renderer) lookupSubject(ctx context.Context, brandID string, locale brand.Locale, kind event.Kind) string {
	paths := []string{
		fmt.Sprintf("%s/%s/%s.subject.txt", brandID, kind, locale),
		fmt.Sprintf("%s/%s/%s.subject.txt", brandID, kind, brand.DefaultLocale),
	}
	for _, p := range paths {
		text, ok := r.fetch(ctx, p)
		if ok {
			return text
		}
	}
	return fallbackSubject(kind)
}

// fetch reads one template path, treating transport failures like misses so
// the fallback chain keeps moving.
func (r *Renderer) fetch(ctx context.Context, path string) (string, bool) {
	text, ok, err := r.templates.FetchOptionalText(ctx, path)
	if err != nil {
		r.logger.Warn("template fetch failed, continuing fallback chain",
			"path", path, "error", err)
		return "", false
	}
	return text, ok
}

// inlineStylesheet fetches the brand's CSS and inlines it into the HTML
// head. On any failure the mail goes out unstyled rather than not at all.
func (r *Renderer) inlineStylesheet(ctx context.Context, b brand.Brand, html string) string {
	if b.StylesheetPath == "" {
		return html
	}
	css, ok, err := r.templates.FetchOptionalText(ctx, b.StylesheetPath)
	if err != nil {
		r.logger.Warn("stylesheet fetch failed, sending unstyled",
			"brand", b.ID, "path", b.StylesheetPath, "error", err)
		return html
	}
	if !ok {
		r.logger.Debug("stylesheet not found, sending unstyled",
			"brand", b.ID, "path", b.StylesheetPath)
		return html
	}

	block := "<style>\n" + css + "\n</style>"
	if i := strings.Index(strings.ToLower(html), "</head>"); i >= 0 {
		return html[:i] + block + "\n" + html[i:]
	}
	return block + "\n" + html
}

// buildBag merges the event-derived fields with the brand record and the
// resolution context into the placeholder data bag.
func buildBag(b brand.Brand, locale brand.Locale, kind event.Kind, serviceID string, evt *event.Context) placeholder.Bag {
	return placeholder.Bag{
		"brand": map[string]any{
			"id":          b.ID,
			"displayName": b.DisplayName,
			"from":        b.FromAddress,
			"replyTo":     b.ReplyTo,
		},
		"invoice": map[string]any{
			"number":      evt.InvoiceNumber,
			"amount":      event.FormatAmount(evt.AmountMinorUnits, evt.CurrencyCode),
			"amountMinor": evt.AmountMinorUnits,
			"currency":    strings.ToUpper(evt.CurrencyCode),
		},
		"customer": map[string]any{
			"name":  evt.CustomerDisplayName,
			"email": evt.CustomerEmail,
			"address": map[string]any{
				"line1":    evt.BillingAddress.Line1,
				"line2":    evt.BillingAddress.Line2,
				"postcode": evt.BillingAddress.Postcode,
				"city":     evt.BillingAddress.City,
				"country":  evt.BillingAddress.Country,
				"taxId":    evt.BillingAddress.TaxID,
			},
		},
		"locale":  string(locale),
		"kind":    string(kind),
		"service": serviceID,
	}
}

// sanitizeSubject reduces a rendered subject to a single trimmed line with
// no embedded control characters.
func sanitizeSubject(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			sb.WriteRune(' ')
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}
