// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/metrics"
)

var (
	metricActions       = metrics.LazyLoadCounterVec("pool_actions_count", []string{"action", "outcome"})
	metricConfirmations = metrics.LazyLoadCounterVec("pool_confirmations_count", []string{"kind", "outcome"})
	metricTotals        = metrics.LazyLoadGaugeVec("pool_totals", []string{"total"})
	metricPending       = metrics.LazyLoadGauge("pool_pending_requests")
	metricRewardTotal   = metrics.LazyLoadCounter("pool_reward_distributed")
)
