// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/thor"
)

// RegisterRewardToken allows rewardToken to be funded. Registering again updates the threshold.
func (v *Vault) RegisterRewardToken(caller, rewardToken thor.Address, minThreshold *uint256.Int) error {
	return v.call("register-token", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		if rewardToken.IsZero() {
			return ErrZeroAddress
		}
		return v.rewards.Register(rewardToken, minThreshold)
	})
}

// FundRewards pulls amount of rewardToken from caller into the reward pool.
func (v *Vault) FundRewards(caller, rewardToken thor.Address, amount *uint256.Int) error {
	return v.call("fund", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		if amount.IsZero() {
			return ErrZeroAmount
		}
		cfg, err := v.rewards.Get(rewardToken)
		if err != nil {
			return err
		}
		if !cfg.Registered {
			return ErrUnknownRewardToken
		}
		tok, err := v.token(rewardToken)
		if err != nil {
			return err
		}
		if err := v.pull(tok, caller, amount); err != nil {
			return err
		}
		if _, err := v.rewards.Fund(rewardToken, amount); err != nil {
			return err
		}
		v.emit(&Event{Kind: RewardFunded, Subject: caller, Token: rewardToken, Amount: amount.Clone()})
		return nil
	})
}

// WithdrawStray sends caller the balance of tokenAddr not reserved for rewards.
// The lock asset can never be withdrawn this way.
func (v *Vault) WithdrawStray(caller, tokenAddr thor.Address) (*uint256.Int, error) {
	var amount *uint256.Int
	err := v.call("withdraw-stray", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		if tokenAddr.IsZero() {
			return ErrZeroAddress
		}
		asset, err := v.lockAsset.Get()
		if err != nil {
			return err
		}
		if tokenAddr == asset {
			return ErrCannotWithdrawLockToken
		}
		cfg, err := v.rewards.Get(tokenAddr)
		if err != nil {
			return err
		}
		reserved, err := v.pendingRewards(tokenAddr)
		if err != nil {
			return err
		}
		reserved.Add(reserved, cfg.AvailableRewards)

		tok, err := v.token(tokenAddr)
		if err != nil {
			return err
		}
		balance, err := tok.BalanceOf(v.addr)
		if err != nil {
			return err
		}
		if !reserved.IsZero() && !balance.Gt(reserved) {
			return ErrCannotWithdrawReserved
		}
		if _, underflow := balance.SubOverflow(balance, reserved); underflow || balance.IsZero() {
			return ErrNothingToWithdraw
		}
		if err := tok.Transfer(v.addr, caller, balance); err != nil {
			return err
		}
		amount = balance
		v.emit(&Event{Kind: StrayTokenWithdrawn, Subject: caller, Token: tokenAddr, Amount: balance.Clone()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}
