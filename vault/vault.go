// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements a time-weighted token locking vault.
//
// Users lock a fungible asset for a fixed period and receive voting power derived from the lock.
// Funded reward tokens are split among lock holders in proportion to their voting power,
// in rounds processed by bounded batches across calls.
//
// Every mutating operation runs as one atomic call: a reentrant call is rejected, a failure
// leaves no trace in state and emits nothing, and the call is bounded by a gas budget.
// A Vault is not safe for concurrent use.
package vault

import (
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/builtin/gascharger"
	"github.com/vechain/lockvault/builtin/reverts"
	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/log"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/token"
	"github.com/vechain/lockvault/vault/access"
	"github.com/vechain/lockvault/vault/distribution"
	"github.com/vechain/lockvault/vault/lock"
	"github.com/vechain/lockvault/vault/power"
	"github.com/vechain/lockvault/vault/registry"
	"github.com/vechain/lockvault/vault/rewards"
)

var logger = log.WithContext("pkg", "vault")

var (
	slotLockAsset   = thor.BytesToBytes32([]byte("lock-asset"))
	slotBeneficiary = thor.BytesToBytes32([]byte("fee-beneficiary"))
	slotTotalLocked = thor.BytesToBytes32([]byte("total-locked"))
)

type Vault struct {
	addr   thor.Address
	params Params
	state  *state.State
	sctx   *solidity.Context
	tokens token.Resolver
	clock  Clock
	sink   EventSink
	calc   power.Calculator

	registry *registry.Registry
	locks    *lock.Store
	access   *access.Policy
	rewards  *rewards.Ledger
	rounds   *distribution.Service

	lockAsset   *solidity.Address
	beneficiary *solidity.Address
	totalLocked *solidity.Uint256

	inCall  atomic.Bool
	charger *gascharger.Charger
	events  []*Event

	roundTokens map[thor.Address]struct{} // tokens reported by the open rounds gauge
}

// New creates a vault stored at addr. A nil sink discards events.
func New(addr thor.Address, params Params, st *state.State, tokens token.Resolver, clock Clock, sink EventSink) (*Vault, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}
	if sink == nil {
		sink = EventSinkFunc(func([]*Event) error { return nil })
	}
	sctx := solidity.NewContext(addr, st, nil)
	return &Vault{
		addr:        addr,
		params:      params,
		state:       st,
		sctx:        sctx,
		tokens:      tokens,
		clock:       clock,
		sink:        sink,
		calc:        power.Calculator{Policy: params.Policy, Window: params.Window},
		registry:    registry.New(sctx, params.MaxActiveUsers),
		locks:       lock.NewStore(sctx),
		access:      access.New(sctx),
		rewards:     rewards.New(sctx),
		rounds:      distribution.New(sctx),
		lockAsset:   solidity.NewAddress(sctx, slotLockAsset),
		beneficiary: solidity.NewAddress(sctx, slotBeneficiary),
		totalLocked: solidity.NewUint256(sctx, slotTotalLocked),
		roundTokens: make(map[thor.Address]struct{}),
	}, nil
}

func (v *Vault) Address() thor.Address {
	return v.addr
}

func (v *Vault) Params() Params {
	return v.params
}

// call runs fn as one atomic call. Events are staged while state is committed, and
// delivered only once the commit succeeded. Any failure, including a panic in fn,
// reverts state to the call's checkpoint and drops the staged events.
func (v *Vault) call(op string, fn func() error) error {
	if !v.inCall.CompareAndSwap(false, true) {
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": "reentrant"})
		return ErrReentrantCall
	}
	defer v.inCall.Store(false)

	var (
		checkpoint = v.state.NewCheckpoint()
		writer     EventWriter
		committed  bool
	)
	v.charger = gascharger.New(v.params.CallGasLimit)
	v.sctx.SetCharger(v.charger.Charge)
	v.events = nil
	defer func() {
		v.sctx.SetCharger(nil)
		v.events = nil
		if committed {
			return
		}
		if writer != nil {
			if err := writer.Rollback(); err != nil {
				logger.Warn("failed to roll back events", "op", op, "err", err)
			}
		}
		v.state.RevertTo(checkpoint)
	}()

	if err := fn(); err != nil {
		return v.fail(op, err)
	}
	writer = v.sink.NewWriter()
	if err := writer.Write(v.events); err != nil {
		return v.fail(op, errors.Wrap(err, "stage events"))
	}
	metricSlotsWritten().Observe(int64(v.state.Changes()))
	if err := v.state.Commit(); err != nil {
		return v.fail(op, errors.Wrap(err, "commit state"))
	}
	committed = true
	v.sctx.SetCharger(nil)

	metricGasUsed().Observe(int64(v.charger.TotalGas()))
	// state is durable from here on, a journal failure no longer fails the call
	if err := writer.Commit(); err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": "unjournaled"})
		logger.Error("failed to journal events", "op", op, "events", len(v.events), "err", err)
	} else {
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	}
	v.updateGauges()
	logger.Trace("call done", "op", op, "events", len(v.events), "gas", v.charger.TotalGas())
	return nil
}

func (v *Vault) fail(op string, err error) error {
	metricGasUsed().Observe(int64(v.charger.TotalGas()))
	result := "error"
	if reverts.IsRevertErr(err) {
		result = "revert"
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": result})
	logger.Debug("call reverted", "op", op, "err", err, "gas", v.charger.Breakdown())
	return err
}

func (v *Vault) updateGauges() {
	if size, err := v.registry.Size(); err == nil {
		metricRegistrySize().Set(int64(size))
	}
	open, err := v.rounds.Open()
	if err != nil {
		return
	}
	counts := make(map[thor.Address]int64, len(v.roundTokens))
	for tok := range v.roundTokens {
		counts[tok] = 0
	}
	for _, r := range open {
		counts[r.RewardToken]++
	}
	for tok, n := range counts {
		metricOpenRounds().SetWithLabel(n, map[string]string{"token": tok.String()})
		if n == 0 {
			delete(v.roundTokens, tok)
		} else {
			v.roundTokens[tok] = struct{}{}
		}
	}
}

func (v *Vault) emit(ev *Event) {
	ev.TimeIndex = v.clock.Now()
	v.events = append(v.events, ev)
}

// token resolves addr and charges one external call.
func (v *Vault) token(addr thor.Address) (token.Token, error) {
	if err := v.sctx.UseGas(thor.TransferGas); err != nil {
		return nil, err
	}
	return v.tokens.Token(addr)
}

func (v *Vault) requireInitialized() (thor.Address, error) {
	asset, err := v.lockAsset.Get()
	if err != nil {
		return thor.Address{}, err
	}
	if asset.IsZero() {
		return thor.Address{}, ErrNotInitialized
	}
	return asset, nil
}

func (v *Vault) requireOwner(caller thor.Address) error {
	if _, err := v.requireInitialized(); err != nil {
		return err
	}
	ok, err := v.access.IsOwner(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// pull moves amount from caller into the vault, after checking the caller covers it.
func (v *Vault) pull(tok token.Token, caller thor.Address, amount *uint256.Int) error {
	if err := v.checkFunds(tok, caller, amount); err != nil {
		return err
	}
	return tok.TransferFrom(v.addr, caller, v.addr, amount)
}

func (v *Vault) checkFunds(tok token.Token, owner thor.Address, amount *uint256.Int) error {
	bal, err := tok.BalanceOf(owner)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	allowance, err := tok.Allowance(owner, v.addr)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	return nil
}
