// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/lockvault/thor"
)

// Raw stores a single RLP encoded value at a fixed position.
type Raw[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[V any](context *Context, pos thor.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get decodes the stored value. An empty slot yields the zero value, or a pointer to it if V is a pointer.
func (r *Raw[V]) Get() (value V, err error) {
	if reflect.ValueOf(value).Kind() == reflect.Ptr {
		value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
	}
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if err := r.context.UseGas(toWordSize(len(raw)) * thor.SloadGas); err != nil {
			return err
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return value, err
}

// Set encodes and stores the value. newValue selects the cost of writing a fresh slot.
func (r *Raw[V]) Set(value V, newValue bool) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		gas := thor.SstoreResetGas
		if newValue {
			gas = thor.SstoreSetGas
		}
		if err := r.context.UseGas(toWordSize(len(val)) * gas); err != nil {
			return nil, err
		}
		return val, nil
	})
}

// Delete clears the slot.
func (r *Raw[V]) Delete() error {
	if err := r.context.UseGas(thor.SstoreResetGas); err != nil {
		return err
	}
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
	return nil
}
