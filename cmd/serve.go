package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/billingmail/internal/api"
	"github.com/shaharia-lab/billingmail/internal/brand"
	"github.com/shaharia-lab/billingmail/internal/config"
	"github.com/shaharia-lab/billingmail/internal/event"
	"github.com/shaharia-lab/billingmail/internal/eventbus"
	"github.com/shaharia-lab/billingmail/internal/logger"
	"github.com/shaharia-lab/billingmail/internal/mailer"
	"github.com/shaharia-lab/billingmail/internal/metrics"
	"github.com/shaharia-lab/billingmail/internal/render"
	"github.com/shaharia-lab/billingmail/internal/server"
	"github.com/shaharia-lab/billingmail/internal/storage"
	"github.com/shaharia-lab/billingmail/internal/suppression"
	"github.com/shaharia-lab/billingmail/internal/templatestore"
	"github.com/shaharia-lab/billingmail/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the webhook HTTP server and the mail pipeline workers.",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	registry, err := brand.LoadRegistry(cfg.BrandsFile, cfg.DefaultBrand)
	if err != nil {
		return fmt.Errorf("loading brands: %w", err)
	}

	var store templatestore.ObjectStore = templatestore.NullStore{}
	switch {
	case cfg.TemplateStoreDir != "":
		store = templatestore.NewDirStore(cfg.TemplateStoreDir)
	case cfg.TemplateStoreURL != "":
		store = templatestore.NewHTTPStore(cfg.TemplateStoreURL)
	default:
		log.Warn("no template store configured, all mail uses built-in content")
	}
	templates := templatestore.NewClient(store, cfg.TemplateContainer, cfg.TemplateCacheTTL)

	normalizer := event.NewKindNormalizer(cfg.KindAliases)
	renderer := render.New(templates, registry, normalizer, log)

	var suppressionRegistry suppression.Registry = suppression.NullRegistry{}
	if cfg.SuppressionRegistryURL != "" {
		suppressionRegistry = suppression.NewHTTPRegistry(cfg.SuppressionRegistryURL)
	}
	gate := suppression.NewGate(suppressionRegistry, cfg.SuppressionTTL, cfg.SuppressionLookupTimeout, log)

	var tr transport.Transport
	if cfg.DevMailDir != "" {
		tr = transport.NewDevTransport(cfg.DevMailDir)
		log.Info("using dev transport", "dir", cfg.DevMailDir)
	} else {
		tr = transport.NewSMTPTransport(transport.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			Encryption: cfg.SMTPEncryption,
		})
	}

	deliveries := storage.NewMemoryDeliveryStore(cfg.DeliveryLogSize)
	m := metrics.New()

	ml := mailer.New(
		brand.NewResolver(registry),
		&mailer.RecipientResolver{TestRoutingAddress: cfg.TestRoutingAddress},
		gate,
		renderer,
		tr,
		deliveries,
		m,
		log,
	)

	bus := eventbus.New(cfg.Workers, log)
	bus.Subscribe(ml.Handle)
	defer bus.Close()

	var verifier api.Verifier = api.NoopVerifier{}
	if cfg.WebhookSigningSecret != "" {
		verifier = api.NewHMACVerifier(cfg.WebhookSigningSecret)
	} else {
		log.Warn("webhook signature verification disabled")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			if removed := gate.Sweep(); removed > 0 {
				log.Debug("suppression cache sweep", "removed", removed)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("scheduling suppression sweep: %w", err)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	apiSrv := api.New(verifier, normalizer, bus, deliveries, log)
	srv := server.New(apiSrv, m.Registry, cfg.Port, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("billingmail serving", "port", cfg.Port, "brands", registry.IDs())
	return srv.Run(ctx)
}

func buildLogger(cfg *config.AppConfig) (*slog.Logger, error) {
	if cfg.LogDir != "" {
		return logger.NewFileLogger(cfg.LogDir, cfg.SlogLevel())
	}
	return logger.New(cfg.SlogLevel()), nil
}
