// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/vechain/lockvault/thor"
)

type Key interface {
	Bytes() []byte
}

// Index is a mapping key for array-like storage.
type Index uint64

func (i Index) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Each value lives at blake2b(key, pos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) slot(key K) *Raw[V] {
	return NewRaw[V](m.context, thor.Blake2b(key.Bytes(), m.basePos.Bytes()))
}

func (m *Mapping[K, V]) Get(key K) (V, error) {
	return m.slot(key).Get()
}

func (m *Mapping[K, V]) Set(key K, value V, newValue bool) error {
	return m.slot(key).Set(value, newValue)
}

func (m *Mapping[K, V]) Delete(key K) error {
	return m.slot(key).Delete()
}
