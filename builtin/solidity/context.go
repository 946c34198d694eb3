// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
)

// UseGasFunc charges gas against the running call. It fails once the budget is exhausted.
type UseGasFunc func(gas uint64) error

type Context struct {
	address thor.Address
	state   *state.State
	charger UseGasFunc
}

func NewContext(address thor.Address, state *state.State, charger UseGasFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// SetCharger replaces the gas charger, nil disables charging.
func (c *Context) SetCharger(charger UseGasFunc) {
	c.charger = charger
}

func (c *Context) UseGas(gas uint64) error {
	if c.charger != nil {
		return c.charger(gas)
	}
	return nil
}
