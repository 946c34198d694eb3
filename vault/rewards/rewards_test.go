// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

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

func TestLedger(t *testing.T) {
	l := New(solidity.NewContext(thor.Address{1}, state.New(lvldb.NewMem()), nil))
	tkn := thor.Address{0xee}

	cfg, err := l.Get(tkn)
	require.NoError(t, err)
	assert.False(t, cfg.Registered)
	assert.True(t, cfg.AvailableRewards.IsZero())

	require.NoError(t, l.Register(tkn, uint256.NewInt(5)))
	cfg, err = l.Fund(tkn, uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cfg.AvailableRewards.Uint64())

	// re-registration keeps the funded amount
	require.NoError(t, l.Register(tkn, uint256.NewInt(7)))
	cfg, err = l.Get(tkn)
	require.NoError(t, err)
	assert.True(t, cfg.Registered)
	assert.Equal(t, uint64(7), cfg.MinRewardThreshold.Uint64())
	assert.Equal(t, uint64(1000), cfg.AvailableRewards.Uint64())

	taken, err := l.Take(tkn)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), taken.Uint64())

	cfg, err = l.Get(tkn)
	require.NoError(t, err)
	assert.True(t, cfg.AvailableRewards.IsZero())

	_, err = l.Fund(tkn, new(uint256.Int).SetAllOne())
	require.NoError(t, err)
	_, err = l.Fund(tkn, uint256.NewInt(1))
	assert.ErrorIs(t, err, solidity.ErrOverflow)
}
