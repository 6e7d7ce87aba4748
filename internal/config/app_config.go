// Package config loads service configuration from environment variables and
// the brands YAML file.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds all application-level configuration loaded from
// environment variables.
type AppConfig struct {
	// Port is the HTTP server port.
	Port int `envconfig:"PORT" default:"8990"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogDir, when set, sends logs to a file under this directory instead
	// of stderr.
	LogDir string `envconfig:"LOG_DIR"`

	// BrandsFile is the YAML file defining the brand identities.
	BrandsFile string `envconfig:"BRANDS_FILE" default:"brands.yaml"`

	// DefaultBrand is the brand used when no metadata tier resolves one.
	DefaultBrand string `envconfig:"DEFAULT_BRAND" required:"true"`

	// TemplateStoreURL is the base URL of the template object store. Empty
	// means no store is configured and every lookup falls through to the
	// built-in content.
	TemplateStoreURL string `envconfig:"TEMPLATE_STORE_URL"`

	// TemplateStoreDir serves templates from a local directory instead of
	// the remote store. Takes precedence over TemplateStoreURL. Intended
	// for development.
	TemplateStoreDir string `envconfig:"TEMPLATE_STORE_DIR"`

	// TemplateContainer is the container holding brand templates. A scheme
	// prefix is tolerated and stripped.
	TemplateContainer string `envconfig:"TEMPLATE_CONTAINER" default:"templates"`

	// TemplateCacheTTL bounds the template cache. Zero keeps entries warm
	// for the process lifetime.
	TemplateCacheTTL time.Duration `envconfig:"TEMPLATE_CACHE_TTL" default:"5m"`

	// SuppressionRegistryURL is the base URL of the authoritative
	// suppression registry. Empty disables the authoritative check; only
	// the local cache gates sends then.
	SuppressionRegistryURL string `envconfig:"SUPPRESSION_REGISTRY_URL"`

	// SuppressionTTL bounds the local suppression cache.
	SuppressionTTL time.Duration `envconfig:"SUPPRESSION_TTL" default:"24h"`

	// SuppressionLookupTimeout bounds the authoritative lookup so the send
	// path fails open promptly instead of stalling.
	SuppressionLookupTimeout time.Duration `envconfig:"SUPPRESSION_LOOKUP_TIMEOUT" default:"3s"`

	// TestRoutingAddress redirects mail for events with no usable recipient
	// or an example-domain recipient, keeping fixtures out of real inboxes.
	TestRoutingAddress string `envconfig:"TEST_ROUTING_ADDRESS"`

	// WebhookSigningSecret verifies inbound webhook signatures. Empty
	// disables verification (development only).
	WebhookSigningSecret string `envconfig:"WEBHOOK_SIGNING_SECRET"`

	// KindAliases extends the built-in legacy kind alias table,
	// e.g. "invoice_settled:payment-paid,renewal:subscription-renewed".
	KindAliases map[string]string `envconfig:"KIND_ALIASES"`

	// Workers is the number of event bus workers.
	Workers int `envconfig:"WORKERS" default:"3"`

	// DeliveryLogSize bounds the in-memory delivery log.
	DeliveryLogSize int `envconfig:"DELIVERY_LOG_SIZE" default:"1000"`

	// SMTP transport settings.
	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"` // "none", "starttls", "ssl_tls"

	// DevMailDir, when set, writes outgoing mail to this directory instead
	// of sending it over SMTP.
	DevMailDir string `envconfig:"DEV_MAIL_DIR"`
}

// Load reads AppConfig from environment variables using envconfig.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("BILLINGMAIL", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DevMailDir == "" && c.SMTPHost == "" {
		return nil, fmt.Errorf("no transport configured: set BILLINGMAIL_SMTP_HOST or BILLINGMAIL_DEV_MAIL_DIR")
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level. Unknown values
// default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
