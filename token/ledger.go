// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
)

var (
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("allowances"))
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
)

// Ledger is a token whose balances live in contract storage at its own address.
type Ledger struct {
	addr       thor.Address
	balances   *solidity.Mapping[thor.Address, *uint256.Int]
	allowances *solidity.Mapping[thor.Bytes32, *uint256.Int]
	supply     *solidity.Uint256
}

var _ Token = (*Ledger)(nil)

func NewLedger(addr thor.Address, st *state.State) *Ledger {
	sctx := solidity.NewContext(addr, st, nil)
	return &Ledger{
		addr:       addr,
		balances:   solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		allowances: solidity.NewMapping[thor.Bytes32, *uint256.Int](sctx, slotAllowances),
		supply:     solidity.NewUint256(sctx, slotTotalSupply),
	}
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

func (l *Ledger) Address() thor.Address {
	return l.addr
}

func (l *Ledger) TotalSupply() (*uint256.Int, error) {
	return l.supply.Get()
}

func (l *Ledger) BalanceOf(owner thor.Address) (*uint256.Int, error) {
	return l.balances.Get(owner)
}

func (l *Ledger) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	return l.allowances.Get(allowanceKey(owner, spender))
}

func (l *Ledger) Approve(owner, spender thor.Address, amount *uint256.Int) error {
	if spender.IsZero() {
		return ErrInvalidReceiver
	}
	return l.allowances.Set(allowanceKey(owner, spender), amount, false)
}

// Mint creates amount new tokens for to.
func (l *Ledger) Mint(to thor.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return ErrInvalidReceiver
	}
	if err := l.supply.Add(amount); err != nil {
		return err
	}
	bal, err := l.balances.Get(to)
	if err != nil {
		return err
	}
	return l.balances.Set(to, bal.Add(bal, amount), false)
}

func (l *Ledger) Transfer(from, to thor.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return ErrInvalidReceiver
	}
	fromBal, err := l.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	toBal, err := l.balances.Get(to)
	if err != nil {
		return err
	}
	if err := l.balances.Set(from, fromBal.Sub(fromBal, amount), false); err != nil {
		return err
	}
	return l.balances.Set(to, toBal.Add(toBal, amount), false)
}

func (l *Ledger) TransferFrom(spender, from, to thor.Address, amount *uint256.Int) error {
	allowance, err := l.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := l.Transfer(from, to, amount); err != nil {
		return err
	}
	return l.allowances.Set(allowanceKey(from, spender), allowance.Sub(allowance, amount), false)
}
