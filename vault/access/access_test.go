// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/lvldb"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
)

func TestPolicy(t *testing.T) {
	p := New(solidity.NewContext(thor.Address{1}, state.New(lvldb.NewMem()), nil))
	owner, bot := thor.Address{0xa}, thor.Address{0xb}

	// no owner yet, nobody is privileged, not even the zero address
	ok, err := p.IsOwner(thor.Address{})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.SetOwner(owner))
	got, err := p.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	ok, err = p.Has(owner, Distribute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Has(bot, Distribute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Set(bot, Distribute, true))
	ok, err = p.Has(bot, Distribute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IsOwner(bot)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Set(bot, Distribute, false))
	ok, err = p.Has(bot, Distribute)
	require.NoError(t, err)
	assert.False(t, ok)
}
