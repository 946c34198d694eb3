// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides time-index sources.
package clock

import (
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
)

// Manual is a clock moved by hand.
type Manual struct {
	now atomic.Uint64
}

func NewManual(start uint64) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

func (m *Manual) Now() uint64 {
	return m.now.Load()
}

func (m *Manual) Set(now uint64) {
	m.now.Store(now)
}

func (m *Manual) Advance(delta uint64) uint64 {
	return m.now.Add(delta)
}

var slotHeight = thor.BytesToBytes32([]byte("height"))

// Stored is a clock whose height is kept in state.
type Stored struct {
	st     *state.State
	height *solidity.Uint256
	now    uint64
}

// NewStored loads the height kept at addr.
func NewStored(addr thor.Address, st *state.State) (*Stored, error) {
	height := solidity.NewUint256(solidity.NewContext(addr, st, nil), slotHeight)
	now, err := height.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load height")
	}
	return &Stored{st: st, height: height, now: now.Uint64()}, nil
}

func (s *Stored) Now() uint64 {
	return s.now
}

// Advance moves the height forward by delta and commits it.
func (s *Stored) Advance(delta uint64) (uint64, error) {
	next := s.now + delta
	if next < s.now {
		return s.now, errors.New("height overflow")
	}
	checkpoint := s.st.NewCheckpoint()
	if err := s.height.Set(uint256.NewInt(next)); err != nil {
		s.st.RevertTo(checkpoint)
		return s.now, err
	}
	if err := s.st.Commit(); err != nil {
		s.st.RevertTo(checkpoint)
		return s.now, errors.Wrap(err, "commit height")
	}
	s.now = next
	return next, nil
}
