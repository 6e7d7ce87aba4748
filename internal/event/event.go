// Package event defines the normalized in-process representation of one
// inbound billing event and the boundary parser that constructs it from the
// raw webhook envelope. Everything downstream of the webhook handler operates
// on Context only, never on the raw payload.
package event

// MetadataTier identifies where a metadata map was attached on the inbound
// payload. Resolution logic walks tiers in priority order.
type MetadataTier int

const (
	TierEvent MetadataTier = iota
	TierCustomer
	TierPrice
	TierProduct
)

// Address is the structured billing address carried on an event.
type Address struct {
	Line1    string
	Line2    string
	Postcode string
	City     string
	Country  string
	TaxID    string
}

// Context is the immutable normalized view of one inbound billing event.
// It is built once per event by ParseWebhook and never mutated afterwards.
type Context struct {
	ID               string
	Kind             Kind
	InvoiceNumber    string
	AmountMinorUnits int64
	CurrencyCode     string

	CustomerDisplayName string
	CustomerEmail       string
	InvoiceEmail        string
	AccountEmail        string

	BillingAddress Address

	// Metadata maps attached at the event, customer, price and product
	// levels of the inbound payload. Nil maps are valid and mean "no
	// metadata at this tier".
	EventMetadata    map[string]string
	CustomerMetadata map[string]string
	PriceMetadata    map[string]string
	ProductMetadata  map[string]string

	// ServiceID is the purchased product/service sub-identifier, used as a
	// secondary template lookup key when kind-level templates are absent.
	ServiceID string
}

// Metadata returns the metadata map for the given tier. Unknown tiers
// return nil.
func (c *Context) Metadata(tier MetadataTier) map[string]string {
	switch tier {
	case TierEvent:
		return c.EventMetadata
	case TierCustomer:
		return c.CustomerMetadata
	case TierPrice:
		return c.PriceMetadata
	case TierProduct:
		return c.ProductMetadata
	}
	return nil
}

// MetadataTiers lists all tiers in resolution priority order.
var MetadataTiers = []MetadataTier{TierEvent, TierCustomer, TierPrice, TierProduct}
