// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package power derives voting power from a lock record and a time index.
//
// Under the decay policy power starts at the principal and falls linearly to zero at the end of
// the window. Under the growth policy it starts at zero and rises linearly to the virtual
// principal. All divisions truncate.
package power

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/vault/lock"
)

var ErrOverflow = errors.New("voting power overflow")

// Policy selects how voting power evolves inside the lock window.
type Policy uint8

const (
	Growth Policy = iota
	Decay
)

func (p Policy) String() string {
	switch p {
	case Growth:
		return "growth"
	case Decay:
		return "decay"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "growth":
		*p = Growth
	case "decay":
		*p = Decay
	default:
		return fmt.Errorf("unknown policy %q", text)
	}
	return nil
}

// Window selects whether the end index itself is inside the window.
type Window uint8

const (
	// HalfOpen is [start, end).
	HalfOpen Window = iota
	// Closed is [start, end].
	Closed
)

func (w Window) String() string {
	switch w {
	case HalfOpen:
		return "half-open"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("window(%d)", uint8(w))
	}
}

func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Window) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "half-open", "halfopen":
		*w = HalfOpen
	case "closed":
		*w = Closed
	default:
		return fmt.Errorf("unknown window %q", text)
	}
	return nil
}

// Calculator is a pure function of lock records.
type Calculator struct {
	Policy Policy
	Window Window
}

// Contains reports whether at lies inside the window of l.
func (c Calculator) Contains(l *lock.Lock, at uint64) bool {
	if at < l.StartIndex {
		return false
	}
	if c.Window == Closed {
		return at <= l.EndIndex
	}
	return at < l.EndIndex
}

// AdjustedBalance returns the voting power of l at the given time index.
func (c Calculator) AdjustedBalance(l *lock.Lock, at uint64) (*uint256.Int, error) {
	if l.IsEmpty() || l.Duration() == 0 || !c.Contains(l, at) {
		return new(uint256.Int), nil
	}
	duration := uint256.NewInt(l.Duration())

	var (
		base    *uint256.Int
		elapsed uint64
	)
	if c.Policy == Decay {
		base, elapsed = l.Principal, l.EndIndex-at
	} else {
		base, elapsed = l.VirtualPrincipal, at-l.StartIndex
	}
	if base == nil {
		return new(uint256.Int), nil
	}

	amount, overflow := new(uint256.Int).MulDivOverflow(base, uint256.NewInt(elapsed), duration)
	if overflow {
		return nil, ErrOverflow
	}
	return amount, nil
}

// Accrued returns the growth already earned by l at the given time index, capped at the full window.
// It is zero under the decay policy.
func (c Calculator) Accrued(l *lock.Lock, at uint64) (*uint256.Int, error) {
	if c.Policy == Decay || l.IsEmpty() || l.Duration() == 0 || at <= l.StartIndex || l.VirtualPrincipal == nil {
		return new(uint256.Int), nil
	}
	elapsed := min(at-l.StartIndex, l.Duration())

	amount, overflow := new(uint256.Int).MulDivOverflow(l.VirtualPrincipal, uint256.NewInt(elapsed), uint256.NewInt(l.Duration()))
	if overflow {
		return nil, ErrOverflow
	}
	return amount, nil
}

// Rebase returns the virtual principal of l after a re-lock at the given time index.
func (c Calculator) Rebase(l *lock.Lock, at uint64) (*uint256.Int, error) {
	accrued, err := c.Accrued(l, at)
	if err != nil {
		return nil, err
	}
	rebased, overflow := new(uint256.Int).AddOverflow(l.Principal, accrued)
	if overflow {
		return nil, ErrOverflow
	}
	return rebased, nil
}
