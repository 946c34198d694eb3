// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/kv"
	"github.com/vechain/lockvault/lvldb"
)

func TestBucket_GetterPutter(t *testing.T) {
	db := lvldb.NewMem()
	defer db.Close()

	tests := []struct {
		b    kv.Bucket
		key  string
		full string
	}{
		{kv.Bucket(""), "k1", "k1"},
		{kv.Bucket("s"), "k1", "sk1"},
		{kv.Bucket("state."), "", "state."},
	}
	for _, tt := range tests {
		require.NoError(t, tt.b.NewPutter(db).Put([]byte(tt.key), []byte("v")))

		has, err := db.Has([]byte(tt.full))
		require.NoError(t, err)
		assert.True(t, has, tt.full)

		v, err := tt.b.NewGetter(db).Get([]byte(tt.key))
		require.NoError(t, err)
		assert.Equal(t, "v", string(v))

		require.NoError(t, tt.b.NewPutter(db).Delete([]byte(tt.key)))
		_, err = tt.b.NewGetter(db).Get([]byte(tt.key))
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBucket_Store(t *testing.T) {
	db := lvldb.NewMem()
	defer db.Close()

	require.NoError(t, db.Put([]byte("other"), []byte("x")))

	store := kv.Bucket("b.").NewStore(db)
	batch := store.NewBatch()
	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, batch.Put([]byte(k), []byte("v"+k)))
	}
	assert.Equal(t, 3, batch.Len())
	require.NoError(t, batch.Write())

	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)

	limited := store.Iterate(kv.Range{Start: []byte("2"), Limit: []byte("3")})
	defer limited.Release()
	require.True(t, limited.Next())
	assert.Equal(t, "2", string(limited.Key()))
	assert.Equal(t, "v2", string(limited.Value()))
	assert.False(t, limited.Next())
}
