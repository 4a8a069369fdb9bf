// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopMetrics struct{}

func (noopMetrics) Counter(string) CountMeter                  { return noop{} }
func (noopMetrics) CounterVec(string, []string) CountVecMeter { return noop{} }
func (noopMetrics) Gauge(string) GaugeMeter                    { return noop{} }
func (noopMetrics) GaugeVec(string, []string) GaugeVecMeter   { return noop{} }
func (noopMetrics) Handler() http.Handler                      { return nil }

func (noopMetrics) HistogramVec(string, []string, []int64) HistogramVecMeter {
	return noop{}
}

type noop struct{}

func (noop) Add(int64)                                  {}
func (noop) Set(int64)                                  {}
func (noop) AddWithLabel(int64, map[string]string)      {}
func (noop) SetWithLabel(int64, map[string]string)      {}
func (noop) ObserveWithLabels(int64, map[string]string) {}
