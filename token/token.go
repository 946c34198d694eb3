// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token defines the fungible asset capability the vault moves funds with,
// and ships a ledger kept in contract storage.
package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/builtin/reverts"
	"github.com/vechain/lockvault/thor"
)

var (
	ErrInsufficientBalance   = reverts.New("insufficient balance")
	ErrInsufficientAllowance = reverts.New("insufficient allowance")
	ErrInvalidReceiver       = reverts.New("invalid receiver")
	ErrUnknownToken          = reverts.New("unknown token")
)

// Token is the transfer/allowance capability of a fungible asset.
// Every mutating method takes the acting principal explicitly.
type Token interface {
	Address() thor.Address
	BalanceOf(owner thor.Address) (*uint256.Int, error)
	Allowance(owner, spender thor.Address) (*uint256.Int, error)
	Approve(owner, spender thor.Address, amount *uint256.Int) error
	Transfer(from, to thor.Address, amount *uint256.Int) error
	TransferFrom(spender, from, to thor.Address, amount *uint256.Int) error
}

// Resolver looks up the token deployed at an address.
type Resolver interface {
	Token(addr thor.Address) (Token, error)
}
