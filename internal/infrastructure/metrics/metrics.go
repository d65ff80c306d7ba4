// Package metrics contains Prometheus metrics of the notification bot
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery results
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// Broadcast metrics
	Deliveries             *prometheus.CounterVec
	NotificationsPublished *prometheus.CounterVec
	DispatchDuration       prometheus.Histogram

	// Conversation metrics
	ActiveSessions prometheus.Gauge
	SessionsReaped prometheus.Counter

	// Inbound request metrics
	RequestErrors *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics registers all collectors in the default registry.
// Use GetDefaultMetrics outside of tests with a custom registry.
func NewMetrics() *Metrics {
	return newMetrics(promauto.With(prometheus.DefaultRegisterer))
}

// NewMetricsWithRegistry registers all collectors in reg
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	return newMetrics(promauto.With(reg))
}

func newMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		Deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_deliveries_total",
				Help: "Total number of per-recipient delivery attempts by result",
			},
			[]string{"result"},
		),
		NotificationsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_notifications_published_total",
				Help: "Total number of published notifications by source",
			},
			[]string{"source"},
		),
		DispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notifier_dispatch_duration_seconds",
			Help:    "Duration of a whole broadcast in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "notifier_active_sessions",
			Help: "Current number of in-progress post compositions",
		}),
		SessionsReaped: factory.NewCounter(prometheus.CounterOpts{
			Name: "notifier_sessions_reaped_total",
			Help: "Total number of abandoned sessions removed by the reaper",
		}),

		RequestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_request_errors_total",
				Help: "Total number of rejected inbound notification requests by source",
			},
			[]string{"source"},
		),
	}
}

// RecordDelivery records the tally of one broadcast
func (m *Metrics) RecordDelivery(sent, failed int, duration float64) {
	// Only add positive values to prevent counter from going backwards
	if sent > 0 {
		m.Deliveries.WithLabelValues(ResultSent).Add(float64(sent))
	}
	if failed > 0 {
		m.Deliveries.WithLabelValues(ResultFailed).Add(float64(failed))
	}
	m.DispatchDuration.Observe(duration)
}

// RecordPublished records a stored notification
func (m *Metrics) RecordPublished(source string) {
	if source == "" {
		source = "unknown"
	}
	m.NotificationsPublished.WithLabelValues(source).Inc()
}

// RecordRequestError records a rejected publish request
func (m *Metrics) RecordRequestError(source string) {
	if source == "" {
		source = "unknown"
	}
	m.RequestErrors.WithLabelValues(source).Inc()
}

// UpdateActiveSessions updates the active sessions gauge
func (m *Metrics) UpdateActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}

// RecordSessionsReaped records sessions removed by the reaper
func (m *Metrics) RecordSessionsReaped(count int) {
	if count > 0 {
		m.SessionsReaped.Add(float64(count))
	}
}
