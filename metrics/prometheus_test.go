package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lotscan/lotscan/logger"
	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

func TestCounterIncrement(t *testing.T) {
	m := NewPrometheusMetrics(logger.NewNop(), nil)

	counter := m.Counter("requests_total", map[string]string{"result": "hit"})
	counter.Inc()
	counter.Add(2)

	values := gather(t, m)
	require.Len(t, values, 1)
	require.Equal(t, "lotscan_requests_total", values[0].Name)
	require.Equal(t, float64(3), values[0].Value)
	require.Equal(t, "hit", values[0].Labels["result"])
}

func TestCounterReusedAcrossLabelSets(t *testing.T) {
	m := NewPrometheusMetrics(logger.NewNop(), nil)

	m.Counter("requests_total", map[string]string{"result": "hit"}).Inc()
	m.Counter("requests_total", map[string]string{"result": "error"}).Inc()
	m.Counter("requests_total", map[string]string{"result": "hit"}).Inc()

	values := gather(t, m)
	require.Len(t, values, 2)

	byLabel := make(map[string]float64)
	for _, v := range values {
		byLabel[v.Labels["result"]] = v.Value
	}
	require.Equal(t, float64(2), byLabel["hit"])
	require.Equal(t, float64(1), byLabel["error"])
}

func TestHistogramObserve(t *testing.T) {
	m := NewPrometheusMetrics(logger.NewNop(), nil)

	h := m.Histogram("operation_duration_seconds", []float64{0.1, 1, 10}, map[string]string{"operation": "get"})
	h.Observe(0.5)
	h.Observe(1.5)

	values := gather(t, m)
	require.Len(t, values, 1)
	require.Equal(t, float64(2), values[0].Value) // sample sum
}

func TestCustomNamespace(t *testing.T) {
	m := NewPrometheusMetrics(logger.NewNop(), &types.MetricsConfig{Namespace: "custom"})
	m.Counter("events_total", nil).Inc()

	values := gather(t, m)
	require.Len(t, values, 1)
	require.Equal(t, "custom_events_total", values[0].Name)
}

func gather(t *testing.T, m types.MetricsManager) []metricValue {
	t.Helper()

	data, err := m.Gather()
	require.NoError(t, err)

	var values []metricValue
	require.NoError(t, utils.Unmarshal(data, &values))
	return values
}
