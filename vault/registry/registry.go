// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the bounded set of addresses holding an active lock.
package registry

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/builtin/reverts"
	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/thor"
)

var (
	slotSize    = thor.BytesToBytes32([]byte("registry-size"))
	slotMembers = thor.BytesToBytes32([]byte("registry-members"))
	slotIndexes = thor.BytesToBytes32([]byte("registry-indexes"))
)

var (
	ErrCapacityExceeded = reverts.New("registry capacity exceeded")
	ErrAlreadyMember    = reverts.New("address already registered")
	ErrIndexOutOfRange  = reverts.New("registry index out of range")
)

// Swap describes a removal. The slot at Index now holds Moved, previously held at Last.
// When the removed member was the last one, Index == Last and Moved is zero.
type Swap struct {
	Index   uint64
	Last    uint64
	Removed thor.Address
	Moved   thor.Address
}

// Registry is a dynamic array of members with an address to position index.
type Registry struct {
	capacity uint64
	size     *solidity.Uint256
	members  *solidity.Mapping[solidity.Index, thor.Address]
	// position+1, zero means absent
	indexes *solidity.Mapping[thor.Address, uint64]
}

func New(sctx *solidity.Context, capacity uint64) *Registry {
	return &Registry{
		capacity: capacity,
		size:     solidity.NewUint256(sctx, slotSize),
		members:  solidity.NewMapping[solidity.Index, thor.Address](sctx, slotMembers),
		indexes:  solidity.NewMapping[thor.Address, uint64](sctx, slotIndexes),
	}
}

func (r *Registry) Capacity() uint64 {
	return r.capacity
}

func (r *Registry) Size() (uint64, error) {
	size, err := r.size.Get()
	if err != nil {
		return 0, err
	}
	return size.Uint64(), nil
}

func (r *Registry) MemberAt(index uint64) (thor.Address, error) {
	size, err := r.Size()
	if err != nil {
		return thor.Address{}, err
	}
	if index >= size {
		return thor.Address{}, ErrIndexOutOfRange
	}
	return r.members.Get(solidity.Index(index))
}

func (r *Registry) Contains(addr thor.Address) (bool, error) {
	pos, err := r.indexes.Get(addr)
	if err != nil {
		return false, err
	}
	return pos > 0, nil
}

// Insert appends addr.
func (r *Registry) Insert(addr thor.Address) error {
	size, err := r.Size()
	if err != nil {
		return err
	}
	if size >= r.capacity {
		return ErrCapacityExceeded
	}
	ok, err := r.Contains(addr)
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyMember
	}

	if err := r.members.Set(solidity.Index(size), addr, true); err != nil {
		return err
	}
	if err := r.indexes.Set(addr, size+1, true); err != nil {
		return err
	}
	return r.size.Set(uint256.NewInt(size + 1))
}

// Remove swaps addr with the last member and shrinks the array.
// It returns nil if addr is not a member.
func (r *Registry) Remove(addr thor.Address) (*Swap, error) {
	pos, err := r.indexes.Get(addr)
	if err != nil {
		return nil, err
	}
	if pos == 0 {
		return nil, nil
	}
	size, err := r.Size()
	if err != nil {
		return nil, err
	}

	swap := &Swap{Index: pos - 1, Last: size - 1, Removed: addr}
	if swap.Index != swap.Last {
		moved, err := r.members.Get(solidity.Index(swap.Last))
		if err != nil {
			return nil, err
		}
		if err := r.members.Set(solidity.Index(swap.Index), moved, false); err != nil {
			return nil, err
		}
		if err := r.indexes.Set(moved, pos, false); err != nil {
			return nil, err
		}
		swap.Moved = moved
	}

	if err := r.members.Delete(solidity.Index(swap.Last)); err != nil {
		return nil, err
	}
	if err := r.indexes.Delete(addr); err != nil {
		return nil, err
	}
	if err := r.size.Set(uint256.NewInt(swap.Last)); err != nil {
		return nil, err
	}
	return swap, nil
}

// Range returns up to limit members starting at offset.
func (r *Registry) Range(offset, limit uint64) ([]thor.Address, error) {
	size, err := r.Size()
	if err != nil {
		return nil, err
	}
	if offset >= size {
		return nil, nil
	}
	end := min(size, offset+limit)
	members := make([]thor.Address, 0, end-offset)
	for i := offset; i < end; i++ {
		m, err := r.members.Get(solidity.Index(i))
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}
