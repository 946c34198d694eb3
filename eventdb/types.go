// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault"
)

// Event is a stored notification. Seq is assigned in write order.
type Event struct {
	Seq uint64
	vault.Event
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds the time index, both ends inclusive. A To below From leaves the range open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Kinds   []vault.Kind
	Subject *thor.Address
	Token   *thor.Address
	Round   *uint64
	After   *uint64 // seq strictly above
	Range   *Range
	Options *Options
	Order   Order // default asc
}
