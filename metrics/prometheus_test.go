// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = noopMetrics{}
	assert.Nil(t, m.Handler())

	m.Counter("c").Add(1)
	m.CounterVec("cv", nil).AddWithLabel(1, nil)
	m.Gauge("g").Set(1)
	m.GaugeVec("gv", nil).SetWithLabel(1, nil)
	m.HistogramVec("h", nil, nil).ObserveWithLabels(1, nil)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	InitializePrometheusMetrics()

	lazy := LazyLoadCounter("test_count")
	lazy().Add(2)
	Counter("test_count").Add(3)

	CounterVec("test_count_vec", []string{"outcome"}).AddWithLabel(1, map[string]string{"outcome": "ok"})
	GaugeVec("test_gauge_vec", []string{"kind"}).SetWithLabel(42, map[string]string{"kind": "shares"})
	Gauge("test_gauge").Set(7)
	HistogramVec("test_hist", []string{"name"}, BucketHTTPReqs).ObserveWithLabels(12, map[string]string{"name": "x"})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		found[f.GetName()] = f
	}

	require.Contains(t, found, "stakepool_test_count")
	assert.Equal(t, float64(5), found["stakepool_test_count"].GetMetric()[0].GetCounter().GetValue())

	require.Contains(t, found, "stakepool_test_gauge")
	assert.Equal(t, float64(7), found["stakepool_test_gauge"].GetMetric()[0].GetGauge().GetValue())

	require.Contains(t, found, "stakepool_test_gauge_vec")
	assert.Equal(t, float64(42), found["stakepool_test_gauge_vec"].GetMetric()[0].GetGauge().GetValue())

	require.Contains(t, found, "stakepool_test_hist")
	assert.Equal(t, uint64(1), found["stakepool_test_hist"].GetMetric()[0].GetHistogram().GetSampleCount())

	assert.NotNil(t, HTTPHandler())
}
