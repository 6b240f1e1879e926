package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)

	m.ObserveCall("/api/admin/planning", "GET", "200", 120*time.Millisecond)
	m.ObserveCall("/api/admin/planning", "GET", "200", 80*time.Millisecond)
	m.ObserveCall("/api/auth/login", "POST", "401", 10*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["leregard_gateway_calls_total"])
	assert.True(t, names["leregard_gateway_call_latency_seconds"])
}

func TestConflictMetricsNilSafe(t *testing.T) {
	var m *ConflictMetrics
	// Must not panic when metrics are not wired.
	m.ObserveCheck("live", "conflict")

	var g *GatewayMetrics
	g.ObserveCall("/x", "GET", "200", time.Millisecond)
}
