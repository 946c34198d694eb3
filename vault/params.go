// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault/power"
)

// Params are the constants of a vault. Periods are in time-index units.
type Params struct {
	LockPeriod           uint64       `yaml:"lock-period"`
	MinLockAmount        *uint256.Int `yaml:"min-lock-amount"`
	MaxActiveUsers       uint64       `yaml:"max-active-users"`
	DepositFeePercent    uint64       `yaml:"deposit-fee-percent"`
	EmergencyGracePeriod uint64       `yaml:"emergency-grace-period"`
	BatchSize            uint64       `yaml:"batch-size"`
	Policy               power.Policy `yaml:"policy"`
	Window               power.Window `yaml:"window"`
	CallGasLimit         uint64       `yaml:"call-gas-limit"`
}

func DefaultParams() Params {
	return Params{
		LockPeriod:           50,
		MinLockAmount:        uint256.NewInt(1000),
		MaxActiveUsers:       1000,
		DepositFeePercent:    1,
		EmergencyGracePeriod: 100,
		BatchSize:            100,
		Policy:               power.Growth,
		Window:               power.HalfOpen,
		CallGasLimit:         thor.DefaultCallGasLimit,
	}
}

func (p Params) Validate() error {
	switch {
	case p.LockPeriod == 0:
		return errors.New("lock-period must be positive")
	case p.MinLockAmount == nil:
		return errors.New("min-lock-amount is required")
	case p.MaxActiveUsers == 0:
		return errors.New("max-active-users must be positive")
	case p.DepositFeePercent >= 100:
		return errors.Errorf("deposit-fee-percent %d out of range [0, 100)", p.DepositFeePercent)
	case p.BatchSize == 0:
		return errors.New("batch-size must be positive")
	}
	return nil
}

// splitFee returns the fee and the net part of amount.
func (p Params) splitFee(amount *uint256.Int) (fee, net *uint256.Int) {
	fee = new(uint256.Int).Mul(amount, uint256.NewInt(p.DepositFeePercent))
	fee.Div(fee, uint256.NewInt(100))
	net = new(uint256.Int).Sub(amount, fee)
	return fee, net
}
