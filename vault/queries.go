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
	"github.com/vechain/lockvault/vault/rewards"
)

// Now returns the current time index.
func (v *Vault) Now() uint64 {
	return v.clock.Now()
}

// BalanceOf returns the current voting power of user.
func (v *Vault) BalanceOf(user thor.Address) (*uint256.Int, error) {
	return v.BalanceOfAt(user, v.clock.Now())
}

// BalanceOfAt returns the voting power of user's current lock at the given time index.
func (v *Vault) BalanceOfAt(user thor.Address, at uint64) (*uint256.Int, error) {
	l, err := v.locks.Get(user)
	if err != nil {
		return nil, err
	}
	return v.calc.AdjustedBalance(l, at)
}

// TotalSupply returns the current total voting power.
func (v *Vault) TotalSupply() (*uint256.Int, error) {
	return v.totalAdjustedBalance(v.clock.Now())
}

// TotalSupplyAt returns the total voting power of the current members at the given time index.
func (v *Vault) TotalSupplyAt(at uint64) (*uint256.Int, error) {
	return v.totalAdjustedBalance(at)
}

// TotalLocked returns the sum of all locked principals.
func (v *Vault) TotalLocked() (*uint256.Int, error) {
	return v.totalLocked.Get()
}

// GetLock returns the lock of user. An absent lock has a zero principal.
func (v *Vault) GetLock(user thor.Address) (*lock.Lock, error) {
	return v.locks.Get(user)
}

// GetRound returns the round with the given id, or nil.
func (v *Vault) GetRound(id uint64) (*distribution.Round, error) {
	return v.rounds.Get(id)
}

// RoundCount returns the number of rounds created so far.
func (v *Vault) RoundCount() (uint64, error) {
	return v.rounds.Count()
}

// OpenRounds returns the rounds still being processed.
func (v *Vault) OpenRounds() ([]*distribution.Round, error) {
	return v.rounds.Open()
}

// PendingRewards returns what open rounds of rewardToken still owe.
func (v *Vault) PendingRewards(rewardToken thor.Address) (*uint256.Int, error) {
	return v.pendingRewards(rewardToken)
}

func (v *Vault) RewardConfig(rewardToken thor.Address) (*rewards.Config, error) {
	return v.rewards.Get(rewardToken)
}

func (v *Vault) RegistrySize() (uint64, error) {
	return v.registry.Size()
}

// Members returns a page of the registry in its current order.
func (v *Vault) Members(offset, limit uint64) ([]thor.Address, error) {
	return v.registry.Range(offset, limit)
}

func (v *Vault) Owner() (thor.Address, error) {
	return v.access.Owner()
}

func (v *Vault) LockAsset() (thor.Address, error) {
	return v.lockAsset.Get()
}

func (v *Vault) FeeBeneficiary() (thor.Address, error) {
	return v.beneficiary.Get()
}

// IsAuthorized reports whether addr may start distribution rounds.
func (v *Vault) IsAuthorized(addr thor.Address) (bool, error) {
	return v.access.Has(addr, access.Distribute)
}
