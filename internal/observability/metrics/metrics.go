package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics exposes counters/histograms for institute API calls.
type GatewayMetrics struct {
	callsTotal  *prometheus.CounterVec
	callLatency *prometheus.HistogramVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leregard",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total institute API calls",
		}, []string{"path", "method", "status"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leregard",
			Subsystem: "gateway",
			Name:      "call_latency_seconds",
			Help:      "Latency of institute API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.callsTotal, m.callLatency)
	return m
}

func (m *GatewayMetrics) ObserveCall(path, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(path, method, status).Inc()
	m.callLatency.WithLabelValues(path).Observe(elapsed.Seconds())
}

// ConflictMetrics counts live vs. degraded conflict checks.
type ConflictMetrics struct {
	checksTotal *prometheus.CounterVec
}

func NewConflictMetrics(reg prometheus.Registerer) *ConflictMetrics {
	m := &ConflictMetrics{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leregard",
			Subsystem: "conflict",
			Name:      "checks_total",
			Help:      "Total conflict checks by mode and outcome",
		}, []string{"mode", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.checksTotal)
	return m
}

func (m *ConflictMetrics) ObserveCheck(mode, outcome string) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(mode, outcome).Inc()
}
