package event

import "strings"

// Kind is the enumerated notification type of a billing event.
type Kind string

const (
	KindPaymentPaid         Kind = "payment-paid"
	KindPaymentFailed       Kind = "payment-failed"
	KindSubscriptionRenewed Kind = "subscription-renewed"
	KindRefundIssued        Kind = "refund-issued"
)

// defaultKindAliases maps deprecated event-kind identifiers to their current
// equivalents. The set of handled kinds varies between billing platform
// versions, so the table is extendable through configuration rather than
// being a closed list.
var defaultKindAliases = map[string]Kind{
	"invoice-paid":                  KindPaymentPaid,
	"invoice.paid":                  KindPaymentPaid,
	"invoice-payment-failed":        KindPaymentFailed,
	"invoice.payment_failed":        KindPaymentFailed,
	"subscription-renew":            KindSubscriptionRenewed,
	"customer.subscription.renewed": KindSubscriptionRenewed,
	"refund":                        KindRefundIssued,
	"charge.refunded":               KindRefundIssued,
}

// KindNormalizer rewrites deprecated kind identifiers to their current
// equivalents. The zero value uses only the built-in alias table.
type KindNormalizer struct {
	aliases map[string]Kind
}

// NewKindNormalizer builds a normalizer from the built-in alias table merged
// with extra aliases, which take precedence over the built-ins.
func NewKindNormalizer(extra map[string]string) *KindNormalizer {
	aliases := make(map[string]Kind, len(defaultKindAliases)+len(extra))
	for k, v := range defaultKindAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[strings.ToLower(strings.TrimSpace(k))] = Kind(strings.ToLower(strings.TrimSpace(v)))
	}
	return &KindNormalizer{aliases: aliases}
}

// Normalize rewrites a raw kind string to its current identifier. The
// mapping is deterministic and idempotent: an already-current kind is
// returned unchanged, so applying Normalize more than once is harmless even
// though the pipeline only applies it at the boundary.
func (n *KindNormalizer) Normalize(raw string) Kind {
	k := strings.ToLower(strings.TrimSpace(raw))
	if n != nil && n.aliases != nil {
		if current, ok := n.aliases[k]; ok {
			return current
		}
	}
	if current, ok := defaultKindAliases[k]; ok {
		return current
	}
	return Kind(k)
}

// Mailable reports whether the kind produces a transactional email. Events
// of other kinds are acknowledged and dropped.
func (k Kind) Mailable() bool {
	switch k {
	case KindPaymentPaid, KindPaymentFailed, KindSubscriptionRenewed, KindRefundIssued:
		return true
	}
	return false
}
