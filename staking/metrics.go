// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/parastake/parastake/metrics"
)

var (
	metricErasStarted     = metrics.LazyLoadCounter("staking_eras_started_count")
	metricCurrentEra      = metrics.LazyLoadGauge("staking_current_era")
	metricSelected        = metrics.LazyLoadGauge("staking_selected_collators")
	metricPayingLedgers   = metrics.LazyLoadGauge("staking_paying_ledgers")
	metricPayouts         = metrics.LazyLoadCounterVec("staking_payouts_count", []string{"result"})
	metricRewardsSkipped  = metrics.LazyLoadCounter("staking_rewards_skipped_count")
	metricGrowthTriggered = metrics.LazyLoadCounter("staking_growth_triggered_count")
	metricGrowthLifts     = metrics.LazyLoadCounterVec("staking_growth_lifts_count", []string{"result"})
	metricRolloverMillis  = metrics.LazyLoadHistogram("staking_rollover_ms", metrics.BucketBlockMillis)
)
