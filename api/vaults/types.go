// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/api/restutil"

	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault/distribution"
	"github.com/vechain/lockvault/vault/lock"
)

type Summary struct {
	Now            uint64                `json:"now"`
	Owner          thor.Address          `json:"owner"`
	LockAsset      thor.Address          `json:"lockAsset"`
	FeeBeneficiary thor.Address          `json:"feeBeneficiary"`
	TotalSupply    *math.HexOrDecimal256 `json:"totalSupply"`
	TotalLocked    *math.HexOrDecimal256 `json:"totalLocked"`
	RegistrySize   uint64                `json:"registrySize"`
	Capacity       uint64                `json:"capacity"`
	RoundCount     uint64                `json:"roundCount"`
	OpenRounds     []uint64              `json:"openRounds"`
}

type Lock struct {
	Principal        *math.HexOrDecimal256 `json:"principal"`
	VirtualPrincipal *math.HexOrDecimal256 `json:"virtualPrincipal"`
	StartIndex       uint64                `json:"startIndex"`
	EndIndex         uint64                `json:"endIndex"`
}

type Account struct {
	Address     thor.Address          `json:"address"`
	At          uint64                `json:"at"`
	VotingPower *math.HexOrDecimal256 `json:"votingPower"`
	Lock        *Lock                 `json:"lock"`
}

type Round struct {
	ID                      uint64                `json:"id"`
	RewardToken             thor.Address          `json:"rewardToken"`
	TotalRewardsAtStart     *math.HexOrDecimal256 `json:"totalRewardsAtStart"`
	MinRewardThreshold      *math.HexOrDecimal256 `json:"minRewardThreshold"`
	LastProcessedIndex      uint64                `json:"lastProcessedIndex"`
	SnapshotTimeIndex       uint64                `json:"snapshotTimeIndex"`
	RegistrySizeAtStart     uint64                `json:"registrySizeAtStart"`
	TotalVotingPowerAtStart *math.HexOrDecimal256 `json:"totalVotingPowerAtStart"`
	Distributed             *math.HexOrDecimal256 `json:"distributed"`
	Pending                 *math.HexOrDecimal256 `json:"pending"`
	Recipients              uint64                `json:"recipients"`
	Complete                bool                  `json:"complete"`
}

type RewardToken struct {
	Token              thor.Address          `json:"token"`
	Registered         bool                  `json:"registered"`
	AvailableRewards   *math.HexOrDecimal256 `json:"availableRewards"`
	MinRewardThreshold *math.HexOrDecimal256 `json:"minRewardThreshold"`
	Pending            *math.HexOrDecimal256 `json:"pending"`
}

// CallRequest is the body of a write call. Amount and Token are read by the calls that take them.
type CallRequest struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
	Token  *thor.Address         `json:"token,omitempty"`
}

type StartedRound struct {
	ID uint64 `json:"id"`
}

func parseAmount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, restutil.BadRequest(errors.New("amount: required"))
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, restutil.BadRequest(errors.New("amount: negative"))
	}
	a, overflow := uint256.FromBig(b)
	if overflow {
		return nil, restutil.BadRequest(errors.New("amount: overflows uint256"))
	}
	return a, nil
}

func amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(uint256.Int)
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

func convertLock(l *lock.Lock) *Lock {
	if l.IsEmpty() {
		return nil
	}
	return &Lock{
		Principal:        amount(l.Principal),
		VirtualPrincipal: amount(l.VirtualPrincipal),
		StartIndex:       l.StartIndex,
		EndIndex:         l.EndIndex,
	}
}

func convertRound(r *distribution.Round) *Round {
	return &Round{
		ID:                      r.ID,
		RewardToken:             r.RewardToken,
		TotalRewardsAtStart:     amount(r.TotalRewardsAtStart),
		MinRewardThreshold:      amount(r.MinRewardThreshold),
		LastProcessedIndex:      r.LastProcessedIndex,
		SnapshotTimeIndex:       r.SnapshotTimeIndex,
		RegistrySizeAtStart:     r.RegistrySizeAtStart,
		TotalVotingPowerAtStart: amount(r.TotalVotingPowerAtStart),
		Distributed:             amount(r.Distributed),
		Pending:                 amount(r.Pending()),
		Recipients:              r.Recipients,
		Complete:                r.Complete(),
	}
}
