// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lock

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/thor"
)

var slotLocks = thor.BytesToBytes32([]byte("locks"))

// Lock is the deposit of one address. A zero principal means no lock.
type Lock struct {
	Principal        *uint256.Int
	VirtualPrincipal *uint256.Int
	StartIndex       uint64
	EndIndex         uint64
}

func (l *Lock) IsEmpty() bool {
	return l == nil || l.Principal == nil || l.Principal.IsZero()
}

// Duration returns the length of the lock window.
func (l *Lock) Duration() uint64 {
	if l.EndIndex <= l.StartIndex {
		return 0
	}
	return l.EndIndex - l.StartIndex
}

func (l *Lock) Clone() *Lock {
	c := &Lock{StartIndex: l.StartIndex, EndIndex: l.EndIndex}
	if l.Principal != nil {
		c.Principal = l.Principal.Clone()
	}
	if l.VirtualPrincipal != nil {
		c.VirtualPrincipal = l.VirtualPrincipal.Clone()
	}
	return c
}

// Store persists lock records keyed by owner.
type Store struct {
	locks *solidity.Mapping[thor.Address, *Lock]
}

func NewStore(sctx *solidity.Context) *Store {
	return &Store{
		locks: solidity.NewMapping[thor.Address, *Lock](sctx, slotLocks),
	}
}

// Get returns the lock of owner. Absent locks are returned empty, never nil.
func (s *Store) Get(owner thor.Address) (*Lock, error) {
	l, err := s.locks.Get(owner)
	if err != nil {
		return nil, err
	}
	if l.Principal == nil {
		l.Principal = new(uint256.Int)
	}
	if l.VirtualPrincipal == nil {
		l.VirtualPrincipal = new(uint256.Int)
	}
	return l, nil
}

func (s *Store) Set(owner thor.Address, l *Lock, newValue bool) error {
	return s.locks.Set(owner, l, newValue)
}

func (s *Store) Delete(owner thor.Address) error {
	return s.locks.Delete(owner)
}
