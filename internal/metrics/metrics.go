// Package metrics defines the Prometheus instruments for the mail pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the pipeline counters. A fresh registry per instance
// keeps tests isolated from each other.
type Metrics struct {
	Registry *prometheus.Registry

	EventsReceived   *prometheus.CounterVec
	EmailsSent       *prometheus.CounterVec
	EmailsSuppressed *prometheus.CounterVec
	EmailsSkipped    prometheus.Counter
	EmailsFailed     prometheus.Counter
}

// New creates the pipeline metrics on their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		EventsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "billingmail_events_received_total",
			Help: "Inbound billing events accepted by the webhook endpoint.",
		}, []string{"kind"}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "billingmail_emails_sent_total",
			Help: "Emails handed to the transport successfully.",
		}, []string{"brand"}),
		EmailsSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "billingmail_emails_suppressed_total",
			Help: "Sends denied by the suppression gate.",
		}, []string{"reason"}),
		EmailsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "billingmail_emails_skipped_total",
			Help: "Events acknowledged without mail (no usable recipient or non-mailable kind).",
		}),
		EmailsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "billingmail_emails_failed_total",
			Help: "Transport send failures.",
		}),
	}
}
