// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/vault/lock"
)

func newLock(principal, virtual, start, end uint64) *lock.Lock {
	return &lock.Lock{
		Principal:        uint256.NewInt(principal),
		VirtualPrincipal: uint256.NewInt(virtual),
		StartIndex:       start,
		EndIndex:         end,
	}
}

func balanceAt(t *testing.T, c Calculator, l *lock.Lock, at uint64) uint64 {
	b, err := c.AdjustedBalance(l, at)
	require.NoError(t, err)
	return b.Uint64()
}

func TestScenario(t *testing.T) {
	l := newLock(9900, 9900, 0, 50)

	decay := Calculator{Policy: Decay}
	growth := Calculator{Policy: Growth}

	assert.Equal(t, uint64(9900), balanceAt(t, decay, l, 0))
	assert.Equal(t, uint64(4950), balanceAt(t, decay, l, 25))
	assert.Equal(t, uint64(198), balanceAt(t, decay, l, 49))

	assert.Equal(t, uint64(0), balanceAt(t, growth, l, 0))
	assert.Equal(t, uint64(4950), balanceAt(t, growth, l, 25))
	assert.Equal(t, uint64(9702), balanceAt(t, growth, l, 49))
}

func TestTruncation(t *testing.T) {
	l := newLock(10, 10, 0, 3)
	// 10*1/3 = 3.33
	assert.Equal(t, uint64(3), balanceAt(t, Calculator{Policy: Growth}, l, 1))
	// 10*2/3 = 6.66
	assert.Equal(t, uint64(6), balanceAt(t, Calculator{Policy: Decay}, l, 1))
}

func TestWindowBoundaries(t *testing.T) {
	l := newLock(1000, 1000, 10, 20)

	tests := []struct {
		name   string
		calc   Calculator
		at     uint64
		expect uint64
	}{
		{"growth half-open before start", Calculator{Growth, HalfOpen}, 9, 0},
		{"growth half-open at start", Calculator{Growth, HalfOpen}, 10, 0},
		{"growth half-open at end", Calculator{Growth, HalfOpen}, 20, 0},
		{"growth closed at end", Calculator{Growth, Closed}, 20, 1000},
		{"growth closed after end", Calculator{Growth, Closed}, 21, 0},
		{"decay half-open before start", Calculator{Decay, HalfOpen}, 9, 0},
		{"decay half-open at start", Calculator{Decay, HalfOpen}, 10, 1000},
		{"decay half-open at end", Calculator{Decay, HalfOpen}, 20, 0},
		{"decay closed at end", Calculator{Decay, Closed}, 20, 0},
		{"decay closed at start", Calculator{Decay, Closed}, 10, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, balanceAt(t, tt.calc, l, tt.at))
			assert.Equal(t, tt.at >= 10 && (tt.at < 20 || (tt.calc.Window == Closed && tt.at == 20)), tt.calc.Contains(l, tt.at))
		})
	}
}

func TestEmptyLock(t *testing.T) {
	c := Calculator{}
	assert.Equal(t, uint64(0), balanceAt(t, c, &lock.Lock{}, 0))
	assert.Equal(t, uint64(0), balanceAt(t, c, nil, 0))
	assert.Equal(t, uint64(0), balanceAt(t, c, newLock(0, 100, 0, 10), 5))
}

func TestRebase(t *testing.T) {
	l := newLock(1000, 1000, 0, 50)

	growth := Calculator{Policy: Growth}
	rebased, err := growth.Rebase(l, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), rebased.Uint64())

	// accrued growth is capped at the full window
	rebased, err = growth.Rebase(l, 80)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), rebased.Uint64())

	// re-based virtual principal compounds on the next re-lock
	l2 := newLock(1000, 1500, 25, 75)
	rebased, err = growth.Rebase(l2, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1750), rebased.Uint64())

	decay := Calculator{Policy: Decay}
	rebased, err = decay.Rebase(l, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), rebased.Uint64())
}

func TestOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	l := &lock.Lock{Principal: max, VirtualPrincipal: max, StartIndex: 0, EndIndex: 10}

	_, err := Calculator{Policy: Growth}.Rebase(l, 5)
	assert.ErrorIs(t, err, ErrOverflow)

	b, err := Calculator{Policy: Growth}.AdjustedBalance(l, 5)
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Div(max, uint256.NewInt(2)), b)
}

func TestTextEncoding(t *testing.T) {
	var p Policy
	require.NoError(t, p.UnmarshalText([]byte("Decay")))
	assert.Equal(t, Decay, p)
	assert.Error(t, p.UnmarshalText([]byte("linear")))
	text, _ := Growth.MarshalText()
	assert.Equal(t, "growth", string(text))

	var w Window
	require.NoError(t, w.UnmarshalText([]byte("closed")))
	assert.Equal(t, Closed, w)
	assert.Error(t, w.UnmarshalText([]byte("open")))
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "window(9)", Window(9).String())
}

type fuzzLock struct {
	Principal uint64
	Extra     uint32
	Start     uint32
	Duration  uint16
}

func TestBoundsAndMonotonicity(t *testing.T) {
	f := fuzz.New().NilChance(0)

	for range 200 {
		var in fuzzLock
		f.Fuzz(&in)
		duration := uint64(in.Duration%500) + 1
		start := uint64(in.Start)
		l := newLock(in.Principal, in.Principal+uint64(in.Extra), start, start+duration)
		upper := max(l.Principal.Uint64(), l.VirtualPrincipal.Uint64())

		for _, policy := range []Policy{Growth, Decay} {
			for _, window := range []Window{HalfOpen, Closed} {
				c := Calculator{Policy: policy, Window: window}
				prev := balanceAt(t, c, l, start)
				for at := start; at < start+duration; at++ {
					cur := balanceAt(t, c, l, at)
					require.LessOrEqual(t, cur, upper)
					if policy == Decay {
						require.LessOrEqual(t, cur, prev, "decay must not increase")
					} else {
						require.GreaterOrEqual(t, cur, prev, "growth must not decrease")
					}
					prev = cur
				}
				require.LessOrEqual(t, balanceAt(t, c, l, start+duration), upper)
				require.Zero(t, balanceAt(t, c, l, start+duration+1))
			}
		}
	}
}
