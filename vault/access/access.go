// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access holds the capability set of each principal.
package access

import (
	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/thor"
)

var (
	slotOwner        = thor.BytesToBytes32([]byte("owner"))
	slotCapabilities = thor.BytesToBytes32([]byte("capabilities"))
)

// Capability is a bit set of privileges.
type Capability uint8

const (
	// Distribute allows starting distribution rounds.
	Distribute Capability = 1 << iota
)

// Policy answers who may do what. The owner holds every capability.
type Policy struct {
	owner        *solidity.Address
	capabilities *solidity.Mapping[thor.Address, uint8]
}

func New(sctx *solidity.Context) *Policy {
	return &Policy{
		owner:        solidity.NewAddress(sctx, slotOwner),
		capabilities: solidity.NewMapping[thor.Address, uint8](sctx, slotCapabilities),
	}
}

func (p *Policy) Owner() (thor.Address, error) {
	return p.owner.Get()
}

func (p *Policy) SetOwner(owner thor.Address) error {
	return p.owner.Set(owner)
}

func (p *Policy) IsOwner(addr thor.Address) (bool, error) {
	owner, err := p.owner.Get()
	if err != nil {
		return false, err
	}
	return !owner.IsZero() && owner == addr, nil
}

// Has reports whether addr holds c, either granted or as the owner.
func (p *Policy) Has(addr thor.Address, c Capability) (bool, error) {
	if ok, err := p.IsOwner(addr); err != nil || ok {
		return ok, err
	}
	caps, err := p.capabilities.Get(addr)
	if err != nil {
		return false, err
	}
	return Capability(caps)&c == c, nil
}

// Set grants or revokes c for addr.
func (p *Policy) Set(addr thor.Address, c Capability, allowed bool) error {
	caps, err := p.capabilities.Get(addr)
	if err != nil {
		return err
	}
	updated := Capability(caps)
	if allowed {
		updated |= c
	} else {
		updated &^= c
	}
	if updated == 0 {
		return p.capabilities.Delete(addr)
	}
	return p.capabilities.Set(addr, uint8(updated), caps == 0)
}
