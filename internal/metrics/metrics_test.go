package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.WebhookEvent("channel", "handled")
	m.WebhookEvent("channel", "handled")
	m.DeliveryAttempt("503")
	m.DeliveryResult("delivered", 1500*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("channel", "handled")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.deliveryAttempts.WithLabelValues("503")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.deliveryResults.WithLabelValues("delivered")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.WebhookEvent("direct", "user")
		m.DeliveryAttempt("200")
		m.DeliveryResult("rejected", time.Second)
	})
}
