// Package metrics exposes the domain counters of the order and payment flows
// through prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderpay"

// Metrics implements usecase.Recorder and the outbox relay's recorder.
type Metrics struct {
	orderEvents     *prometheus.CounterVec
	settlements     *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	outboxPublished *prometheus.CounterVec
	outboxBacklog   prometheus.Gauge
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		orderEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_total",
			Help:      "Order lifecycle events by type.",
		}, []string{"event"}),
		settlements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlement attempts by gateway and resulting payment status.",
		}, []string{"gateway", "status"}),
		gatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_duration_seconds",
			Help:      "Time spent inside a gateway adapter.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"gateway"}),
		authAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Register and login attempts by outcome.",
		}, []string{"action", "success"}),
		outboxPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox messages handed to the publisher.",
		}, []string{"event", "success"}),
		outboxBacklog: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_batch_size",
			Help:      "Messages claimed by the last relay poll.",
		}),
	}
}

func (m *Metrics) OrderEvent(eventType string) {
	m.orderEvents.WithLabelValues(eventType).Inc()
}

func (m *Metrics) Settlement(gateway, status string, elapsed time.Duration) {
	m.settlements.WithLabelValues(gateway, status).Inc()
	m.gatewayDuration.WithLabelValues(gateway).Observe(elapsed.Seconds())
}

func (m *Metrics) AuthAttempt(action string, ok bool) {
	m.authAttempts.WithLabelValues(action, strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) OutboxPublished(eventType string, ok bool) {
	m.outboxPublished.WithLabelValues(eventType, strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) OutboxBatch(size int) {
	m.outboxBacklog.Set(float64(size))
}
