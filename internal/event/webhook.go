package event

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Webhook envelope shapes as delivered by the billing platform. Only the
// fields the pipeline consumes are declared; everything else is ignored.

type webhookEnvelope struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data webhookData `json:"data"`
}

type webhookData struct {
	Object webhookInvoice `json:"object"`
}

type webhookInvoice struct {
	Number          string            `json:"number"`
	AmountDue       int64             `json:"amount_due"`
	Currency        string            `json:"currency"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	AccountEmail    string            `json:"account_email"`
	CustomerAddress *webhookAddress   `json:"customer_address"`
	TaxID           string            `json:"tax_id"`
	Metadata        map[string]string `json:"metadata"`
	Customer        *webhookCustomer  `json:"customer"`
	Lines           []webhookLine     `json:"lines"`
}

type webhookAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type webhookCustomer struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata"`
}

type webhookLine struct {
	Price *webhookPrice `json:"price"`
}

type webhookPrice struct {
	Metadata map[string]string `json:"metadata"`
	Product  *webhookProduct   `json:"product"`
}

type webhookProduct struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// ParseWebhook decodes a raw webhook body into a normalized Context. The
// event kind is normalized through the legacy alias table here, exactly
// once, so every downstream consumer sees the current identifier.
func ParseWebhook(raw []byte, norm *KindNormalizer) (*Context, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding webhook envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("webhook envelope has no event type")
	}

	inv := env.Data.Object

	ctx := &Context{
		ID:               env.ID,
		Kind:             norm.Normalize(env.Type),
		InvoiceNumber:    inv.Number,
		AmountMinorUnits: inv.AmountDue,
		CurrencyCode:     inv.Currency,

		CustomerDisplayName: inv.CustomerName,
		InvoiceEmail:        inv.CustomerEmail,
		AccountEmail:        inv.AccountEmail,

		EventMetadata: inv.Metadata,
	}
	if ctx.ID == "" {
		ctx.ID = uuid.NewString()
	}

	if inv.CustomerAddress != nil {
		ctx.BillingAddress = Address{
			Line1:    inv.CustomerAddress.Line1,
			Line2:    inv.CustomerAddress.Line2,
			Postcode: inv.CustomerAddress.PostalCode,
			City:     inv.CustomerAddress.City,
			Country:  inv.CustomerAddress.Country,
			TaxID:    inv.TaxID,
		}
	}

	if inv.Customer != nil {
		ctx.CustomerEmail = inv.Customer.Email
		ctx.CustomerMetadata = inv.Customer.Metadata
		if ctx.CustomerDisplayName == "" {
			ctx.CustomerDisplayName = inv.Customer.Name
		}
	}

	// A representative purchased line item contributes price/product
	// metadata and the service sub-identifier. The first line with a price
	// is representative; multi-line invoices share brand metadata anyway.
	for _, line := range inv.Lines {
		if line.Price == nil {
			continue
		}
		ctx.PriceMetadata = line.Price.Metadata
		if line.Price.Product != nil {
			ctx.ProductMetadata = line.Price.Product.Metadata
			ctx.ServiceID = line.Price.Product.ID
		}
		break
	}

	return ctx, nil
}
