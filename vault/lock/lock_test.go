// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lock

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/lvldb"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
)

func TestStore(t *testing.T) {
	sctx := solidity.NewContext(thor.Address{1}, state.New(lvldb.NewMem()), nil)
	s := NewStore(sctx)
	owner := thor.Address{7}

	l, err := s.Get(owner)
	require.NoError(t, err)
	assert.True(t, l.IsEmpty())
	assert.True(t, l.VirtualPrincipal.IsZero())

	rec := &Lock{
		Principal:        uint256.NewInt(9900),
		VirtualPrincipal: uint256.NewInt(9900),
		StartIndex:       10,
		EndIndex:         60,
	}
	require.NoError(t, s.Set(owner, rec, true))

	l, err = s.Get(owner)
	require.NoError(t, err)
	assert.False(t, l.IsEmpty())
	assert.Equal(t, rec, l)
	assert.Equal(t, uint64(50), l.Duration())

	require.NoError(t, s.Delete(owner))
	l, err = s.Get(owner)
	require.NoError(t, err)
	assert.True(t, l.IsEmpty())
}

func TestClone(t *testing.T) {
	rec := &Lock{Principal: uint256.NewInt(1), VirtualPrincipal: uint256.NewInt(2), StartIndex: 1, EndIndex: 2}
	c := rec.Clone()
	c.Principal.SetUint64(5)
	assert.Equal(t, uint64(1), rec.Principal.Uint64())

	var empty *Lock
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, uint64(0), (&Lock{StartIndex: 5, EndIndex: 5}).Duration())
}
