package transport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds connection parameters for the SMTP transport.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string // "none", "starttls", "ssl_tls"
}

// SMTPTransport delivers email via SMTP using the go-mail library. The
// sending region travels as a configuration-set header so the provider can
// attribute the message to the right sending identity.
type SMTPTransport struct {
	config SMTPConfig
}

// NewSMTPTransport creates a new SMTPTransport with the given configuration.
func NewSMTPTransport(config SMTPConfig) *SMTPTransport {
	return &SMTPTransport{config: config}
}

// Name returns the transport identifier.
func (t *SMTPTransport) Name() string { return "smtp" }

// Send delivers the email using the configured SMTP server.
func (t *SMTPTransport) Send(ctx context.Context, email Email) (string, error) {
	m := mail.NewMsg()
	if err := m.From(email.From); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(email.To); err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	if email.ReplyTo != "" {
		if err := m.ReplyTo(email.ReplyTo); err != nil {
			return "", fmt.Errorf("invalid reply-to address: %w", err)
		}
	}

	messageID := uuid.NewString()
	m.SetMessageIDWithValue(messageID)

	if email.Region != "" {
		m.SetGenHeader("X-Configuration-Set", email.Region)
	}

	m.Subject(email.Subject)

	// Plain-text part first, HTML as the rich alternative.
	m.SetBodyString(mail.TypeTextPlain, email.Text)
	m.AddAlternativeString(mail.TypeTextHTML, email.HTML)

	c, err := mail.NewClient(t.config.Host,
		mail.WithPort(t.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.config.Username),
		mail.WithPassword(t.config.Password),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(t.config.Encryption)),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return "", err
	}
	return messageID, nil
}

// tlsPolicyFromEncryption converts the encryption string to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
