package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/billingmail/internal/event"
)

func TestNormalize_LegacyAliases(t *testing.T) {
	n := event.NewKindNormalizer(nil)

	assert.Equal(t, event.KindPaymentPaid, n.Normalize("invoice-paid"))
	assert.Equal(t, event.KindPaymentPaid, n.Normalize("invoice.paid"))
	assert.Equal(t, event.KindPaymentFailed, n.Normalize("invoice-payment-failed"))
	assert.Equal(t, event.KindSubscriptionRenewed, n.Normalize("subscription-renew"))
	assert.Equal(t, event.KindRefundIssued, n.Normalize("charge.refunded"))
}

func TestNormalize_CurrentKindsPassThrough(t *testing.T) {
	n := event.NewKindNormalizer(nil)
	assert.Equal(t, event.KindPaymentPaid, n.Normalize("payment-paid"))
	assert.Equal(t, event.KindPaymentPaid, n.Normalize("  Payment-Paid  "))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := event.NewKindNormalizer(nil)
	once := n.Normalize("invoice-paid")
	twice := n.Normalize(string(once))
	assert.Equal(t, once, twice)
}

func TestNormalize_ConfiguredAliasesWin(t *testing.T) {
	n := event.NewKindNormalizer(map[string]string{
		"invoice-paid":    "refund-issued", // override a built-in
		"renewal_settled": "subscription-renewed",
	})
	assert.Equal(t, event.KindRefundIssued, n.Normalize("invoice-paid"))
	assert.Equal(t, event.KindSubscriptionRenewed, n.Normalize("renewal_settled"))
}

func TestKindMailable(t *testing.T) {
	assert.True(t, event.KindPaymentPaid.Mailable())
	assert.True(t, event.KindRefundIssued.Mailable())
	assert.False(t, event.Kind("customer-created").Mailable())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "590.00 EUR", event.FormatAmount(59000, "eur"))
	assert.Equal(t, "0.99 USD", event.FormatAmount(99, "USD"))
	assert.Equal(t, "0.00 PLN", event.FormatAmount(0, "pln"))
	assert.Equal(t, "-12.50 GBP", event.FormatAmount(-1250, "gbp"))
}

const sampleWebhook = `{
  "id": "evt_123",
  "type": "invoice-paid",
  "data": {
    "object": {
      "number": "INV-1001",
      "amount_due": 59000,
      "currency": "eur",
      "customer_name": "Ada Lovelace",
      "customer_email": "invoice@corp.example.io",
      "account_email": "account@corp.example.io",
      "customer_address": {
        "line1": "1 Analytical Way",
        "postal_code": "00-001",
        "city": "Warsaw",
        "country": "PL"
      },
      "tax_id": "PL1234567890",
      "metadata": {"brand": "acme", "locale": "pl"},
      "customer": {
        "name": "Ada L.",
        "email": "ada@corp.example.io",
        "metadata": {"locale": "en"}
      },
      "lines": [
        {"price": {"metadata": {"brand": "globex"}, "product": {"id": "svc-vpn", "metadata": {"tier": "pro"}}}}
      ]
    }
  }
}`

func TestParseWebhook(t *testing.T) {
	evt, err := event.ParseWebhook([]byte(sampleWebhook), event.NewKindNormalizer(nil))
	require.NoError(t, err)

	assert.Equal(t, "evt_123", evt.ID)
	assert.Equal(t, event.KindPaymentPaid, evt.Kind)
	assert.Equal(t, "INV-1001", evt.InvoiceNumber)
	assert.Equal(t, int64(59000), evt.AmountMinorUnits)
	assert.Equal(t, "eur", evt.CurrencyCode)
	assert.Equal(t, "Ada Lovelace", evt.CustomerDisplayName)
	assert.Equal(t, "invoice@corp.example.io", evt.InvoiceEmail)
	assert.Equal(t, "account@corp.example.io", evt.AccountEmail)
	assert.Equal(t, "ada@corp.example.io", evt.CustomerEmail)
	assert.Equal(t, "Warsaw", evt.BillingAddress.City)
	assert.Equal(t, "PL1234567890", evt.BillingAddress.TaxID)
	assert.Equal(t, "svc-vpn", evt.ServiceID)
	assert.Equal(t, "acme", evt.EventMetadata["brand"])
	assert.Equal(t, "en", evt.CustomerMetadata["locale"])
	assert.Equal(t, "globex", evt.PriceMetadata["brand"])
	assert.Equal(t, "pro", evt.ProductMetadata["tier"])
}

func TestParseWebhook_GeneratesIDWhenAbsent(t *testing.T) {
	raw := `{"type": "payment-paid", "data": {"object": {"number": "INV-1"}}}`
	evt, err := event.ParseWebhook([]byte(raw), event.NewKindNormalizer(nil))
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
}

func TestParseWebhook_Rejections(t *testing.T) {
	norm := event.NewKindNormalizer(nil)

	_, err := event.ParseWebhook([]byte("not json"), norm)
	assert.Error(t, err)

	_, err = event.ParseWebhook([]byte(`{"data":{"object":{}}}`), norm)
	assert.Error(t, err, "missing event type must be rejected")
}

func TestContextMetadataTiers(t *testing.T) {
	evt := &event.Context{
		EventMetadata:   map[string]string{"k": "event"},
		ProductMetadata: map[string]string{"k": "product"},
	}
	assert.Equal(t, "event", evt.Metadata(event.TierEvent)["k"])
	assert.Nil(t, evt.Metadata(event.TierCustomer))
	assert.Equal(t, "product", evt.Metadata(event.TierProduct)["k"])
}
