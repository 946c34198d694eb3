// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlake2bSingleAndMulti(t *testing.T) {
	joined := Blake2b([]byte("vault-slot"))
	split := Blake2b([]byte("vault-"), []byte("slot"))
	assert.Equal(t, joined, split, "hash of parts should equal hash of concatenation")
	assert.NotEqual(t, joined, Blake2b([]byte("other")))
}

func TestBlake2bFn(t *testing.T) {
	h := Blake2bFn(func(w io.Writer) {
		w.Write([]byte("lock"))
		w.Write([]byte("record"))
	})
	assert.Equal(t, Blake2b([]byte("lockrecord")), h)
}

func TestKeccak256(t *testing.T) {
	// keccak256("") is a well known constant
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
	assert.Equal(t, Keccak256([]byte("LockCreated")), Keccak256([]byte("Lock"), []byte("Created")))
}

func BenchmarkBlake2b(b *testing.B) {
	data := make([]byte, 52)
	for b.Loop() {
		Blake2b(data[:20], data[20:])
	}
}
