// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "github.com/vechain/lockvault/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("vault_calls_count", []string{"op", "result"})
	metricGasUsed      = metrics.LazyLoadHistogram("vault_call_gas_used", []int64{10_000, 50_000, 100_000, 500_000, 1_000_000, 2_500_000, 5_000_000, 10_000_000})
	metricRegistrySize = metrics.LazyLoadGauge("vault_registry_size")
	metricOpenRounds   = metrics.LazyLoadGaugeVec("vault_open_rounds", []string{"token"})
	metricSlotsWritten = metrics.LazyLoadHistogram("vault_call_slots_written", []int64{1, 5, 10, 50, 100, 500, 1000, 5000})
	metricPayouts      = metrics.LazyLoadCounterVec("vault_payouts_count", []string{"result"})
	metricBatchSize    = metrics.LazyLoadHistogram("vault_batch_members", metrics.BucketBatchSize)
)
