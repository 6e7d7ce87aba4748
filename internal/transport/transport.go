// Package transport delivers rendered notifications. Sends are fire-once:
// the pipeline never retries a failed send, it only logs and, when the
// failure looks recipient-caused, feeds the suppression gate.
package transport

import "context"

// Email is one outgoing single-recipient message.
type Email struct {
	// Region selects the sending region / configuration set of the
	// provider. It comes from the resolved brand.
	Region  string
	From    string
	ReplyTo string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport is the delivery backend.
type Transport interface {
	// Name returns the transport identifier (e.g. "smtp").
	Name() string
	// Send delivers the email and returns the provider message id.
	Send(ctx context.Context, email Email) (string, error)
}
