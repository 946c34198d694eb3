// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault/access"
	"github.com/vechain/lockvault/vault/distribution"
	"github.com/vechain/lockvault/vault/lock"
	"github.com/vechain/lockvault/vault/power"
	"github.com/vechain/lockvault/vault/registry"
)

// StartRound opens a distribution of the available rewards of rewardToken and processes its first batch.
func (v *Vault) StartRound(caller, rewardToken thor.Address) (uint64, error) {
	var id uint64
	err := v.call("start-round", func() error {
		asset, err := v.requireInitialized()
		if err != nil {
			return err
		}
		allowed, err := v.access.Has(caller, access.Distribute)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrUnauthorized
		}
		cfg, err := v.rewards.Get(rewardToken)
		if err != nil {
			return err
		}
		if !cfg.Registered {
			return ErrUnknownRewardToken
		}
		if cfg.AvailableRewards.IsZero() {
			return ErrNoRewardsAvailable
		}

		now := v.clock.Now()
		totalPower, err := v.totalAdjustedBalance(now)
		if err != nil {
			return err
		}
		if totalPower.IsZero() {
			return ErrNoVotingPower
		}

		// funds of locks and of open rounds are not part of the pool
		tok, err := v.token(rewardToken)
		if err != nil {
			return err
		}
		free, err := tok.BalanceOf(v.addr)
		if err != nil {
			return err
		}
		reserved, err := v.pendingRewards(rewardToken)
		if err != nil {
			return err
		}
		if rewardToken == asset {
			locked, err := v.totalLocked.Get()
			if err != nil {
				return err
			}
			reserved.Add(reserved, locked)
		}
		if _, underflow := free.SubOverflow(free, reserved); underflow || free.Lt(cfg.AvailableRewards) {
			return ErrInsufficientTokenBalance
		}

		pool, err := v.rewards.Take(rewardToken)
		if err != nil {
			return err
		}
		size, err := v.registry.Size()
		if err != nil {
			return err
		}
		r := &distribution.Round{
			RewardToken:             rewardToken,
			TotalRewardsAtStart:     pool,
			MinRewardThreshold:      cfg.MinRewardThreshold,
			SnapshotTimeIndex:       now,
			RegistrySizeAtStart:     size,
			TotalVotingPowerAtStart: totalPower,
		}
		if id, err = v.rounds.Create(r); err != nil {
			return err
		}
		logger.Debug("round started", "id", id, "token", rewardToken, "pool", pool, "members", size, "power", totalPower)
		return v.processBatch(r)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ContinueRound processes the next batch of an open round.
func (v *Vault) ContinueRound(caller thor.Address, id uint64) error {
	return v.call("continue-round", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		r, err := v.rounds.Get(id)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrUnknownRound
		}
		if r.Complete() {
			return ErrRoundAlreadyComplete
		}
		return v.processBatch(r)
	})
}

// processBatch pays the next batch of r using the round-start registry order,
// snapshot balances and round-start total.
func (v *Vault) processBatch(r *distribution.Round) error {
	from, to := r.NextBatch(v.params.BatchSize)
	tok, err := v.token(r.RewardToken)
	if err != nil {
		return err
	}

	paid, forfeited := 0, 0
	for i := from; i < to; i++ {
		member, err := v.roundMember(r, i)
		if err != nil {
			return err
		}
		balance, err := v.snapshotBalance(r, member)
		if err != nil {
			return err
		}
		share, overflow := new(uint256.Int).MulDivOverflow(balance, r.TotalRewardsAtStart, r.TotalVotingPowerAtStart)
		if overflow {
			return power.ErrOverflow
		}
		if share.IsZero() || share.Lt(r.MinRewardThreshold) {
			forfeited++
			continue
		}
		if err := v.sctx.UseGas(thor.TransferGas); err != nil {
			return err
		}
		if err := tok.Transfer(v.addr, member, share); err != nil {
			return err
		}
		r.Distributed.Add(r.Distributed, share)
		r.Recipients++
		paid++
		v.emit(&Event{Kind: RewardDistributed, Subject: member, Token: r.RewardToken, Amount: share, Round: r.ID})
	}
	r.LastProcessedIndex = to
	if err := v.rounds.Save(r); err != nil {
		return err
	}

	metricBatchSize().Observe(int64(to - from))
	metricPayouts().AddWithLabel(int64(paid), map[string]string{"result": "paid"})
	metricPayouts().AddWithLabel(int64(forfeited), map[string]string{"result": "forfeited"})
	logger.Debug("batch processed", "round", r.ID, "from", from, "to", to, "paid", paid, "forfeited", forfeited, "complete", r.Complete())
	return nil
}

// roundMember returns the member at index as of the start of r.
func (v *Vault) roundMember(r *distribution.Round, index uint64) (thor.Address, error) {
	pinned, ok, err := v.rounds.PinnedSlot(r.ID, index)
	if err != nil || ok {
		return pinned, err
	}
	return v.registry.MemberAt(index)
}

// snapshotBalance returns the voting power of member at the snapshot of r.
func (v *Vault) snapshotBalance(r *distribution.Round, member thor.Address) (*uint256.Int, error) {
	pinned, ok, err := v.rounds.PinnedBalance(r.ID, member)
	if err != nil || ok {
		return pinned, err
	}
	l, err := v.locks.Get(member)
	if err != nil {
		return nil, err
	}
	return v.calc.AdjustedBalance(l, r.SnapshotTimeIndex)
}

// pinBalance freezes the snapshot balance of owner in every open round, before its lock changes.
func (v *Vault) pinBalance(owner thor.Address, current *lock.Lock) error {
	if current.IsEmpty() {
		return nil
	}
	open, err := v.rounds.Open()
	if err != nil {
		return err
	}
	for _, r := range open {
		if ok, err := v.rounds.HasBalancePin(r.ID, owner); err != nil || ok {
			if err != nil {
				return err
			}
			continue
		}
		balance, err := v.calc.AdjustedBalance(current, r.SnapshotTimeIndex)
		if err != nil {
			return err
		}
		if err := v.rounds.PinBalance(r.ID, owner, balance); err != nil {
			return err
		}
	}
	return nil
}

// pinSlots records the round-start occupants of the slots a registry removal touched.
func (v *Vault) pinSlots(swap *registry.Swap) error {
	if swap == nil {
		return nil
	}
	open, err := v.rounds.Open()
	if err != nil {
		return err
	}
	lastOccupant := swap.Moved
	if swap.Index == swap.Last {
		lastOccupant = swap.Removed
	}
	for _, r := range open {
		for _, slot := range []struct {
			index    uint64
			occupant thor.Address
		}{
			{swap.Index, swap.Removed},
			{swap.Last, lastOccupant},
		} {
			if slot.index < r.LastProcessedIndex || slot.index >= r.RegistrySizeAtStart {
				continue
			}
			if err := v.rounds.PinSlot(r.ID, slot.index, slot.occupant); err != nil {
				return err
			}
		}
	}
	return nil
}

// totalAdjustedBalance sums the voting power of every member at the given time index.
func (v *Vault) totalAdjustedBalance(at uint64) (*uint256.Int, error) {
	size, err := v.registry.Size()
	if err != nil {
		return nil, err
	}
	total := new(uint256.Int)
	for i := range size {
		member, err := v.registry.MemberAt(i)
		if err != nil {
			return nil, err
		}
		l, err := v.locks.Get(member)
		if err != nil {
			return nil, err
		}
		balance, err := v.calc.AdjustedBalance(l, at)
		if err != nil {
			return nil, err
		}
		if _, overflow := total.AddOverflow(total, balance); overflow {
			return nil, power.ErrOverflow
		}
	}
	return total, nil
}

// pendingRewards sums what open rounds of rewardToken still owe.
func (v *Vault) pendingRewards(rewardToken thor.Address) (*uint256.Int, error) {
	open, err := v.rounds.Open()
	if err != nil {
		return nil, err
	}
	pending := new(uint256.Int)
	for _, r := range open {
		if r.RewardToken == rewardToken {
			pending.Add(pending, r.Pending())
		}
	}
	return pending, nil
}
