package mailer

import (
	"strings"

	"github.com/shaharia-lab/billingmail/internal/event"
)

// reservedExampleDomains are the RFC 2606 example domains. Fixture events
// routinely carry addresses on these; mail for them must never reach a real
// inbox.
var reservedExampleDomains = map[string]struct{}{
	"example.com": {},
	"example.net": {},
	"example.org": {},
}

// RecipientResolver picks the single destination address for an event.
type RecipientResolver struct {
	// TestRoutingAddress, when set, receives mail for events that have no
	// usable candidate or whose candidate is on a reserved example domain.
	TestRoutingAddress string
}

// Resolve returns the destination address. Candidate priority: explicit
// invoice-level email, account-level email, then the resolved
// customer-record email. ok is false only when no candidate exists and no
// test-routing override is configured.
func (r *RecipientResolver) Resolve(evt *event.Context) (string, bool) {
	candidate := firstNonEmpty(evt.InvoiceEmail, evt.AccountEmail, evt.CustomerEmail)

	if r.TestRoutingAddress != "" {
		if candidate == "" || isExampleDomain(candidate) {
			return r.TestRoutingAddress, true
		}
	}
	if candidate == "" {
		return "", false
	}
	return candidate, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func isExampleDomain(address string) bool {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(address[at+1:])
	_, ok := reservedExampleDomains[domain]
	return ok
}
