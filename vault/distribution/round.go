// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distribution

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/thor"
)

// Round is the checkpoint record of one distribution. Rounds are never deleted.
type Round struct {
	ID                      uint64
	RewardToken             thor.Address
	TotalRewardsAtStart     *uint256.Int
	MinRewardThreshold      *uint256.Int
	LastProcessedIndex      uint64
	SnapshotTimeIndex       uint64
	RegistrySizeAtStart     uint64
	TotalVotingPowerAtStart *uint256.Int
	Distributed             *uint256.Int
	Recipients              uint64
}

func (r *Round) Exists() bool {
	return r != nil && r.ID != 0
}

// Complete reports whether every member present at round start was visited.
func (r *Round) Complete() bool {
	return r.LastProcessedIndex >= r.RegistrySizeAtStart
}

// Pending returns the part of the pool not paid out yet. It is zero once the round is complete,
// the remainder then being forfeited dust.
func (r *Round) Pending() *uint256.Int {
	if r.Complete() || r.Distributed.Gt(r.TotalRewardsAtStart) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(r.TotalRewardsAtStart, r.Distributed)
}

// NextBatch returns the index range [from, to) of the next batch of at most size members.
func (r *Round) NextBatch(size uint64) (from, to uint64) {
	from = r.LastProcessedIndex
	to = min(r.RegistrySizeAtStart, from+size)
	return from, to
}

func (r *Round) normalize() {
	for _, v := range []**uint256.Int{&r.TotalRewardsAtStart, &r.MinRewardThreshold, &r.TotalVotingPowerAtStart, &r.Distributed} {
		if *v == nil {
			*v = new(uint256.Int)
		}
	}
}
