// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/lockvault/kv"
	"github.com/vechain/lockvault/stackedmap"
	"github.com/vechain/lockvault/thor"
)

const (
	storageBucket    = kv.Bucket("s")
	defaultCacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(k.addr.Bytes(), k.key.Bytes()...)
}

// State manages storage slots of contracts.
type State struct {
	db    kv.Store
	cache *lru.Cache // committed raw values
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object over the given kv store.
func New(db kv.Store) *State {
	cache, _ := lru.New(defaultCacheSize)
	s := &State{
		db:    storageBucket.NewStore(db),
		cache: cache,
	}
	s.sm = stackedmap.New(s.load)
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(key storageKey) ([]byte, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "cache"})
		return v.([]byte), true, nil
	}
	metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "db"})

	v, err := s.db.Get(key.bytes())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	s.cache.Add(key, v)
	return v, true, nil
}

// GetRawStorage returns the raw value stored at the given slot. Empty slots return nil.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage sets the raw value of the given slot. Setting an empty value clears the slot.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns the slot value as a word.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	var value thor.Bytes32
	err := s.DecodeStorage(addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var content []byte
		if err := rlp.DecodeBytes(raw, &content); err != nil {
			return err
		}
		value = thor.BytesToBytes32(content)
		return nil
	})
	return value, err
}

// SetStorage sets the slot value as a word. Leading zero bytes are trimmed before encoding.
func (s *State) SetStorage(addr thor.Address, key thor.Bytes32, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	raw, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// EncodeStorage encode and set storage value.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// ScanStorage calls fn for every committed slot in key order. Uncommitted changes are not
// visited. raw is only valid during the call.
func (s *State) ScanStorage(fn func(addr thor.Address, key thor.Bytes32, raw []byte) error) error {
	iter := s.db.Iterate(kv.Range{})
	defer iter.Release()

	for iter.Next() {
		k := iter.Key()
		if len(k) != thor.AddressLength+32 {
			continue
		}
		if err := fn(thor.BytesToAddress(k[:thor.AddressLength]), thor.BytesToBytes32(k[thor.AddressLength:]), iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 0 {
		panic("negative revision")
	}
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Changes returns the number of slots modified since the last commit.
func (s *State) Changes() int {
	return len(s.changes())
}

func (s *State) changes() map[storageKey][]byte {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		changes[k] = v
		return true
	})
	return changes
}

// Commit writes all changes since the last commit into the underlying store in a single batch.
// Outstanding checkpoints are discarded.
func (s *State) Commit() error {
	changes := s.changes()
	if len(changes) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for k, v := range changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.bytes())
		} else {
			err = batch.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	metricStorageCounter().AddWithLabel(int64(len(changes)), map[string]string{"type": "write", "target": "db"})

	for k, v := range changes {
		s.cache.Add(k, v)
	}
	s.sm = stackedmap.New(s.load)
	return nil
}
