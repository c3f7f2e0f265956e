// Package metrics exposes prometheus collectors for webhook handling and
// outbound delivery.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	webhookEvents     *prometheus.CounterVec
	deliveryAttempts  *prometheus.CounterVec
	deliveryResults   *prometheus.CounterVec
	deliveryDurations prometheus.Histogram
}

// New registers the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventlive",
			Name:      "webhook_events_total",
			Help:      "Inbound webhook events by path and outcome.",
		}, []string{"path", "outcome"}),
		deliveryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventlive",
			Name:      "delivery_attempts_total",
			Help:      "Outbound ChannelTalk HTTP attempts by status code.",
		}, []string{"status"}),
		deliveryResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventlive",
			Name:      "delivery_results_total",
			Help:      "Final outcome of each outbound delivery.",
		}, []string{"outcome"}),
		deliveryDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eventlive",
			Name:      "delivery_duration_seconds",
			Help:      "Wall time of a delivery including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
	reg.MustRegister(m.webhookEvents, m.deliveryAttempts, m.deliveryResults, m.deliveryDurations)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// All observe methods accept a nil receiver so callers can run without metrics.

func (m *Metrics) WebhookEvent(path, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(path, outcome).Inc()
}

func (m *Metrics) DeliveryAttempt(status string) {
	if m == nil {
		return
	}
	m.deliveryAttempts.WithLabelValues(status).Inc()
}

func (m *Metrics) DeliveryResult(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.deliveryResults.WithLabelValues(outcome).Inc()
	m.deliveryDurations.Observe(elapsed.Seconds())
}
