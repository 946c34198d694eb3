// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/thor"
)

// Kind identifies a notification.
type Kind uint8

const (
	LockCreated Kind = iota + 1
	LockExtended
	Unlocked
	EmergencyUnlocked
	RewardFunded
	RewardDistributed
	StrayTokenWithdrawn
)

// kindSignatures holds the event signature of each kind, in the form used to derive its topic.
var kindSignatures = map[Kind]string{
	LockCreated:         "LockCreated(address,address,uint256,uint64)",
	LockExtended:        "LockExtended(address,address,uint256,uint64)",
	Unlocked:            "Unlocked(address,address,uint256,uint64)",
	EmergencyUnlocked:   "EmergencyUnlocked(address,address,uint256,uint64)",
	RewardFunded:        "RewardFunded(address,address,uint256)",
	RewardDistributed:   "RewardDistributed(uint64,address,address,uint256)",
	StrayTokenWithdrawn: "StrayTokenWithdrawn(address,address,uint256)",
}

var kindTopics = func() map[thor.Bytes32]Kind {
	topics := make(map[thor.Bytes32]Kind, len(kindSignatures))
	for k, sig := range kindSignatures {
		topics[thor.Keccak256([]byte(sig))] = k
	}
	return topics
}()

func (k Kind) String() string {
	if sig, ok := kindSignatures[k]; ok {
		return sig[:strings.IndexByte(sig, '(')]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Signature returns the event signature, empty for unknown kinds.
func (k Kind) Signature() string {
	return kindSignatures[k]
}

// Topic returns the event id, the Keccak-256 hash of the signature.
func (k Kind) Topic() thor.Bytes32 {
	sig, ok := kindSignatures[k]
	if !ok {
		return thor.Bytes32{}
	}
	return thor.Keccak256([]byte(sig))
}

// Kinds lists every notification kind.
func Kinds() []Kind {
	return []Kind{LockCreated, LockExtended, Unlocked, EmergencyUnlocked, RewardFunded, RewardDistributed, StrayTokenWithdrawn}
}

// ParseKind accepts a kind name or a 0x-prefixed topic.
func ParseKind(s string) (Kind, error) {
	if strings.HasPrefix(s, "0x") {
		topic, err := thor.ParseBytes32(s)
		if err != nil {
			return 0, err
		}
		if k, ok := kindTopics[topic]; ok {
			return k, nil
		}
		return 0, fmt.Errorf("unknown event topic %v", topic)
	}
	for _, k := range Kinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is a notification emitted by a successful call.
//
// Subject is the account the event is about. Token is the moved asset.
// Round is set for distributions, EndIndex for lock changes.
type Event struct {
	Kind      Kind
	TimeIndex uint64
	Subject   thor.Address
	Token     thor.Address
	Amount    *uint256.Int
	Round     uint64
	EndIndex  uint64
}

// EventSink journals the events of successful calls.
type EventSink interface {
	NewWriter() EventWriter
}

// EventWriter stages the events of one call. Staged events are delivered by Commit
// and discarded by Rollback.
type EventWriter interface {
	Write(events []*Event) error
	Commit() error
	Rollback() error
}

// EventSinkFunc adapts a function to EventSink. The function receives the events of
// a call once the call has committed.
type EventSinkFunc func(events []*Event) error

func (f EventSinkFunc) NewWriter() EventWriter {
	return &funcWriter{f: f}
}

type funcWriter struct {
	f      EventSinkFunc
	staged []*Event
}

func (w *funcWriter) Write(events []*Event) error {
	w.staged = append(w.staged, events...)
	return nil
}

func (w *funcWriter) Commit() error {
	staged := w.staged
	w.staged = nil
	if len(staged) == 0 {
		return nil
	}
	return w.f(staged)
}

func (w *funcWriter) Rollback() error {
	w.staged = nil
	return nil
}
