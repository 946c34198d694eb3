// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/thor"
)

type FilteredEvent struct {
	Seq       uint64                `json:"seq"`
	Kind      string                `json:"kind"`
	Topic     thor.Bytes32          `json:"topic"`
	TimeIndex uint64                `json:"timeIndex"`
	Subject   thor.Address          `json:"subject"`
	Token     *thor.Address         `json:"token,omitempty"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	Round     uint64                `json:"round,omitempty"`
	EndIndex  uint64                `json:"endIndex,omitempty"`
}

// ConvertEvent converts a journaled event to its JSON form.
func ConvertEvent(ev *eventdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Topic:     ev.Kind.Topic(),
		TimeIndex: ev.TimeIndex,
		Subject:   ev.Subject,
		Round:     ev.Round,
		EndIndex:  ev.EndIndex,
	}
	if !ev.Token.IsZero() {
		token := ev.Token
		fe.Token = &token
	}
	if ev.Amount != nil {
		fe.Amount = (*math.HexOrDecimal256)(ev.Amount.ToBig())
	}
	return fe
}
