package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrderEvent("order.created")
	m.OrderEvent("order.created")
	m.Settlement("stripe", "successful", 20*time.Millisecond)
	m.Settlement("stripe", "failed", time.Millisecond)
	m.AuthAttempt("login", false)
	m.OutboxPublished("payment.settled", true)
	m.OutboxBatch(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.orderEvents.WithLabelValues("order.created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.settlements.WithLabelValues("stripe", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.authAttempts.WithLabelValues("login", "false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outboxPublished.WithLabelValues("payment.settled", "true")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.outboxBacklog))
	assert.Equal(t, 1, testutil.CollectAndCount(m.gatewayDuration))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
