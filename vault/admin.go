// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault/access"
)

// Initialize sets up the vault. It can only run once.
func (v *Vault) Initialize(owner, lockAsset, beneficiary thor.Address) error {
	return v.call("initialize", func() error {
		if owner.IsZero() || lockAsset.IsZero() || beneficiary.IsZero() {
			return ErrZeroAddress
		}
		current, err := v.lockAsset.Get()
		if err != nil {
			return err
		}
		if !current.IsZero() {
			return ErrAlreadyInitialized
		}
		if err := v.access.SetOwner(owner); err != nil {
			return err
		}
		if err := v.lockAsset.Set(lockAsset); err != nil {
			return err
		}
		if err := v.beneficiary.Set(beneficiary); err != nil {
			return err
		}
		logger.Info("vault initialized", "address", v.addr, "owner", owner, "asset", lockAsset, "beneficiary", beneficiary)
		return nil
	})
}

// SetFeeBeneficiary changes the receiver of deposit fees.
func (v *Vault) SetFeeBeneficiary(caller, beneficiary thor.Address) error {
	return v.call("set-beneficiary", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		if beneficiary.IsZero() {
			return ErrZeroAddress
		}
		return v.beneficiary.Set(beneficiary)
	})
}

// SetAuthorizedCaller grants or revokes the right to start distribution rounds.
func (v *Vault) SetAuthorizedCaller(caller, addr thor.Address, allowed bool) error {
	return v.call("authorize", func() error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		if addr.IsZero() {
			return ErrZeroAddress
		}
		return v.access.Set(addr, access.Distribute, allowed)
	})
}
