package brand

import (
	"github.com/shaharia-lab/billingmail/internal/event"
)

// Metadata keys inspected on each tier.
const (
	metaKeyBrand  = "brand"
	metaKeyLocale = "locale"
)

// Resolver decides the brand identity and locale of an event by inspecting
// metadata tiers in priority order: event, customer, price, product, then
// the process-wide defaults. Brand and locale resolve independently, and an
// unrecognized value at a tier is treated as absent rather than a match, so
// resolution always terminates with a concrete value.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a Resolver over the given registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns the brand and locale for an event.
func (r *Resolver) Resolve(evt *event.Context) (Brand, Locale) {
	b := r.registry.Default()
	if id, ok := r.firstValid(evt, metaKeyBrand, r.validBrand); ok {
		b, _ = r.registry.Get(id)
	}

	locale := DefaultLocale
	if raw, ok := r.firstValid(evt, metaKeyLocale, r.validLocale); ok {
		locale, _ = ParseLocale(raw)
	}

	return b, locale
}

// firstValid walks the metadata tiers and returns the first value for key
// that passes the validity predicate.
func (r *Resolver) firstValid(evt *event.Context, key string, valid func(string) bool) (string, bool) {
	for _, tier := range event.MetadataTiers {
		m := evt.Metadata(tier)
		if m == nil {
			continue
		}
		if v, ok := m[key]; ok && valid(v) {
			return v, true
		}
	}
	return "", false
}

func (r *Resolver) validBrand(raw string) bool {
	_, ok := r.registry.Get(raw)
	return ok
}

func (r *Resolver) validLocale(raw string) bool {
	_, ok := ParseLocale(raw)
	return ok
}
