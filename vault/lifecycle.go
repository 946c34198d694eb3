// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/token"
	"github.com/vechain/lockvault/vault/lock"
	"github.com/vechain/lockvault/vault/power"
)

// LockTokens locks amount of the lock asset for caller. The deposit fee goes to the fee beneficiary.
func (v *Vault) LockTokens(caller thor.Address, amount *uint256.Int) error {
	return v.call("lock", func() error {
		asset, err := v.requireInitialized()
		if err != nil {
			return err
		}
		if amount.Lt(v.params.MinLockAmount) || amount.IsZero() {
			return ErrBelowMinimum
		}
		size, err := v.registry.Size()
		if err != nil {
			return err
		}
		if size >= v.registry.Capacity() {
			return ErrCapacityExceeded
		}
		tok, err := v.fundedToken(asset, caller, amount)
		if err != nil {
			return err
		}
		current, err := v.locks.Get(caller)
		if err != nil {
			return err
		}
		if !current.IsEmpty() {
			return ErrAlreadyLocked
		}

		net, err := v.deposit(tok, caller, amount)
		if err != nil {
			return err
		}

		now := v.clock.Now()
		rec := &lock.Lock{
			Principal:        net,
			VirtualPrincipal: net.Clone(),
			StartIndex:       now,
			EndIndex:         now + v.params.LockPeriod,
		}
		if err := v.locks.Set(caller, rec, true); err != nil {
			return err
		}
		if err := v.registry.Insert(caller); err != nil {
			return err
		}
		if err := v.totalLocked.Add(net); err != nil {
			return err
		}

		v.emit(&Event{Kind: LockCreated, Subject: caller, Token: asset, Amount: net, EndIndex: rec.EndIndex})
		return nil
	})
}

// ExtendLock adds to an unexpired lock, or re-locks it when additional is zero.
//
// A top-up resets the window and drops accrued growth. A re-lock moves the end of the window
// and, under the growth policy, folds the accrued growth into the virtual principal and
// restarts the window.
func (v *Vault) ExtendLock(caller thor.Address, additional *uint256.Int) error {
	return v.call("extend", func() error {
		asset, err := v.requireInitialized()
		if err != nil {
			return err
		}
		current, err := v.locks.Get(caller)
		if err != nil {
			return err
		}
		if current.IsEmpty() {
			return ErrNoActiveLock
		}
		now := v.clock.Now()
		if now >= current.EndIndex {
			return ErrLockExpired
		}

		updated := current.Clone()
		net := new(uint256.Int)
		if additional.IsZero() {
			rebased, err := v.calc.Rebase(current, now)
			if err != nil {
				return err
			}
			updated.VirtualPrincipal = rebased
			if v.params.Policy == power.Growth {
				updated.StartIndex = now
			}
		} else {
			tok, err := v.fundedToken(asset, caller, additional)
			if err != nil {
				return err
			}
			if net, err = v.deposit(tok, caller, additional); err != nil {
				return err
			}
			updated.Principal.Add(updated.Principal, net)
			updated.VirtualPrincipal = updated.Principal.Clone()
			updated.StartIndex = now
			if err := v.totalLocked.Add(net); err != nil {
				return err
			}
		}
		updated.EndIndex = now + v.params.LockPeriod

		if err := v.pinBalance(caller, current); err != nil {
			return err
		}
		if err := v.locks.Set(caller, updated, false); err != nil {
			return err
		}

		v.emit(&Event{Kind: LockExtended, Subject: caller, Token: asset, Amount: net, EndIndex: updated.EndIndex})
		return nil
	})
}

// ClaimTokens returns the principal of an ended lock to caller.
func (v *Vault) ClaimTokens(caller thor.Address) error {
	return v.call("claim", func() error {
		asset, err := v.requireInitialized()
		if err != nil {
			return err
		}
		current, err := v.locks.Get(caller)
		if err != nil {
			return err
		}
		if current.IsEmpty() {
			return ErrNothingToClaim
		}
		if v.clock.Now() < current.EndIndex {
			return ErrStillLocked
		}
		if err := v.release(asset, caller, caller, current); err != nil {
			return err
		}
		v.emit(&Event{Kind: Unlocked, Subject: caller, Token: asset, Amount: current.Principal, EndIndex: current.EndIndex})
		return nil
	})
}

// EmergencyUnlock returns the principal of a lock stuck past its grace period to its owner.
func (v *Vault) EmergencyUnlock(caller, user thor.Address) error {
	return v.call("emergency-unlock", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		asset, err := v.lockAsset.Get()
		if err != nil {
			return err
		}
		current, err := v.locks.Get(user)
		if err != nil {
			return err
		}
		if current.IsEmpty() {
			return ErrNothingToClaim
		}
		if v.clock.Now() <= current.EndIndex+v.params.EmergencyGracePeriod {
			return ErrGracePeriodNotElapsed
		}
		if err := v.release(asset, user, user, current); err != nil {
			return err
		}
		v.emit(&Event{Kind: EmergencyUnlocked, Subject: user, Token: asset, Amount: current.Principal, EndIndex: current.EndIndex})
		return nil
	})
}

// fundedToken resolves asset and checks that caller can cover amount.
func (v *Vault) fundedToken(asset, caller thor.Address, amount *uint256.Int) (token.Token, error) {
	tok, err := v.token(asset)
	if err != nil {
		return nil, err
	}
	if err := v.checkFunds(tok, caller, amount); err != nil {
		return nil, err
	}
	return tok, nil
}

// deposit pulls amount from caller, routes the fee and returns the net amount kept by the vault.
func (v *Vault) deposit(tok token.Token, caller thor.Address, amount *uint256.Int) (*uint256.Int, error) {
	fee, net := v.params.splitFee(amount)
	if !fee.IsZero() {
		beneficiary, err := v.beneficiary.Get()
		if err != nil {
			return nil, err
		}
		if err := tok.TransferFrom(v.addr, caller, beneficiary, fee); err != nil {
			return nil, err
		}
	}
	if err := tok.TransferFrom(v.addr, caller, v.addr, net); err != nil {
		return nil, err
	}
	return net, nil
}

// release deletes the lock of owner and sends its principal to receiver.
func (v *Vault) release(asset, owner, receiver thor.Address, current *lock.Lock) error {
	if err := v.pinBalance(owner, current); err != nil {
		return err
	}
	swap, err := v.registry.Remove(owner)
	if err != nil {
		return err
	}
	if err := v.pinSlots(swap); err != nil {
		return err
	}
	if err := v.locks.Delete(owner); err != nil {
		return err
	}
	if err := v.totalLocked.Sub(current.Principal); err != nil {
		return err
	}
	tok, err := v.token(asset)
	if err != nil {
		return err
	}
	if err := tok.Transfer(v.addr, receiver, current.Principal); err != nil {
		return err
	}
	return nil
}
