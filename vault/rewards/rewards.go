// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards tracks funded but undistributed rewards per token.
package rewards

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/thor"
)

var slotConfigs = thor.BytesToBytes32([]byte("reward-tokens"))

// Config is the funding state of one reward token.
type Config struct {
	AvailableRewards   *uint256.Int
	MinRewardThreshold *uint256.Int
	Registered         bool
}

// Ledger stores reward token configs.
type Ledger struct {
	configs *solidity.Mapping[thor.Address, *Config]
}

func New(sctx *solidity.Context) *Ledger {
	return &Ledger{
		configs: solidity.NewMapping[thor.Address, *Config](sctx, slotConfigs),
	}
}

// Get returns the config of token. Unregistered tokens yield a zero config.
func (l *Ledger) Get(token thor.Address) (*Config, error) {
	cfg, err := l.configs.Get(token)
	if err != nil {
		return nil, err
	}
	if cfg.AvailableRewards == nil {
		cfg.AvailableRewards = new(uint256.Int)
	}
	if cfg.MinRewardThreshold == nil {
		cfg.MinRewardThreshold = new(uint256.Int)
	}
	return cfg, nil
}

// Register marks token as a reward token. Registering again updates the threshold only.
func (l *Ledger) Register(token thor.Address, minThreshold *uint256.Int) error {
	cfg, err := l.Get(token)
	if err != nil {
		return err
	}
	isNew := !cfg.Registered
	cfg.Registered = true
	cfg.MinRewardThreshold = minThreshold.Clone()
	return l.configs.Set(token, cfg, isNew)
}

// Fund adds amount to the available rewards of a registered token.
func (l *Ledger) Fund(token thor.Address, amount *uint256.Int) (*Config, error) {
	cfg, err := l.Get(token)
	if err != nil {
		return nil, err
	}
	if _, overflow := cfg.AvailableRewards.AddOverflow(cfg.AvailableRewards, amount); overflow {
		return nil, solidity.ErrOverflow
	}
	return cfg, l.configs.Set(token, cfg, false)
}

// Take zeroes the available rewards of token and returns the previous amount.
func (l *Ledger) Take(token thor.Address) (*uint256.Int, error) {
	cfg, err := l.Get(token)
	if err != nil {
		return nil, err
	}
	taken := cfg.AvailableRewards
	cfg.AvailableRewards = new(uint256.Int)
	return taken, l.configs.Set(token, cfg, false)
}
