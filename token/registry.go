// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
)

// Registry resolves token addresses. Addresses without an explicitly registered
// implementation resolve to a Ledger kept in the shared state.
type Registry struct {
	state     *state.State
	overrides map[thor.Address]Token
}

var _ Resolver = (*Registry)(nil)

func NewRegistry(st *state.State) *Registry {
	return &Registry{
		state:     st,
		overrides: make(map[thor.Address]Token),
	}
}

// Register installs a custom implementation for its address.
func (r *Registry) Register(tok Token) {
	r.overrides[tok.Address()] = tok
}

func (r *Registry) Token(addr thor.Address) (Token, error) {
	if addr.IsZero() {
		return nil, ErrUnknownToken
	}
	if tok, ok := r.overrides[addr]; ok {
		return tok, nil
	}
	return NewLedger(addr, r.state), nil
}

// Ledger returns the native ledger at addr.
func (r *Registry) Ledger(addr thor.Address) *Ledger {
	return NewLedger(addr, r.state)
}
