package render

import (
	"regexp"
	"strings"

	"github.com/shaharia-lab/billingmail/internal/event"
)

// fallbackHTML is the last-resort document used when every template lookup
// tier misses. It carries placeholders so the mail still shows the event's
// actual data.
const fallbackHTML = `<!DOCTYPE html>
<html lang="{{ locale }}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
</head>
<body>
  <p>Hello {{ customer.name | Customer }},</p>
  <p>This is a notification from {{ brand.displayName }} regarding order {{ invoice.number }}.</p>
  <p>Amount: {{ invoice.amount }}</p>
  <p>If anything looks wrong, just reply to this email and we will sort it out.</p>
  <p>{{ brand.displayName }}</p>
</body>
</html>
`

// fallbackSubject returns the built-in subject template for a kind. The
// placeholders are filled by the same substitution pass that handles
// store-provided subjects.
func fallbackSubject(kind event.Kind) string {
	switch kind {
	case event.KindPaymentPaid:
		return "{{ brand.displayName }}: Payment received — order {{ invoice.number }}"
	case event.KindPaymentFailed:
		return "{{ brand.displayName }}: Payment failed — order {{ invoice.number }}"
	case event.KindSubscriptionRenewed:
		return "{{ brand.displayName }}: Your subscription has been renewed"
	case event.KindRefundIssued:
		return "{{ brand.displayName }}: Refund issued — order {{ invoice.number }}"
	}
	return "{{ brand.displayName }}: Billing notification"
}

var (
	styleBlockPattern = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagPattern        = regexp.MustCompile(`(?s)<[^>]*>`)
	entityReplacer    = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// DeriveText produces the plain-text alternative from final HTML: style
// blocks and all markup are stripped and whitespace is collapsed. This is a
// best-effort fallback body, not a markup-aware reconstruction.
func DeriveText(html string) string {
	text := styleBlockPattern.ReplaceAllString(html, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
