// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/builtin/reverts"
	"github.com/vechain/lockvault/clock"
	"github.com/vechain/lockvault/kv"
	"github.com/vechain/lockvault/lvldb"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/token"
)

var (
	vaultAddr   = thor.BytesToAddress([]byte("vault"))
	assetAddr   = thor.BytesToAddress([]byte("asset"))
	rewardAddr  = thor.BytesToAddress([]byte("reward"))
	owner       = thor.BytesToAddress([]byte("owner"))
	beneficiary = thor.BytesToAddress([]byte("beneficiary"))
	alice       = thor.BytesToAddress([]byte("alice"))
	bob         = thor.BytesToAddress([]byte("bob"))
	carol       = thor.BytesToAddress([]byte("carol"))
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func user(i int) thor.Address {
	return thor.BytesToAddress([]byte{'u', byte(i >> 8), byte(i)})
}

type testEnv struct {
	t      *testing.T
	st     *state.State
	tokens *token.Registry
	clock  *clock.Manual
	vault  *Vault
	asset  *token.Ledger
	reward *token.Ledger
	events []*Event
}

func newTestEnv(t *testing.T, opts ...func(*Params)) *testEnv {
	return newTestEnvOn(t, lvldb.NewMem(), opts...)
}

func newTestEnvOn(t *testing.T, db kv.Store, opts ...func(*Params)) *testEnv {
	params := DefaultParams()
	for _, opt := range opts {
		opt(&params)
	}
	st := state.New(db)
	tokens := token.NewRegistry(st)
	env := &testEnv{
		t:      t,
		st:     st,
		tokens: tokens,
		clock:  clock.NewManual(0),
		asset:  tokens.Ledger(assetAddr),
		reward: tokens.Ledger(rewardAddr),
	}
	sink := EventSinkFunc(func(events []*Event) error {
		env.events = append(env.events, events...)
		return nil
	})
	v, err := New(vaultAddr, params, st, tokens, env.clock, sink)
	require.NoError(t, err)
	require.NoError(t, v.Initialize(owner, assetAddr, beneficiary))
	env.vault = v
	return env
}

// give mints amount of l to addr and approves the vault to pull it.
func (e *testEnv) give(l *token.Ledger, addr thor.Address, amount uint64) {
	require.NoError(e.t, l.Mint(addr, u(amount)))
	allowance, err := l.Allowance(addr, vaultAddr)
	require.NoError(e.t, err)
	require.NoError(e.t, l.Approve(addr, vaultAddr, allowance.Add(allowance, u(amount))))
}

func (e *testEnv) lock(addr thor.Address, amount uint64) {
	e.give(e.asset, addr, amount)
	require.NoError(e.t, e.vault.LockTokens(addr, u(amount)))
}

func (e *testEnv) bal(l *token.Ledger, addr thor.Address) uint64 {
	b, err := l.BalanceOf(addr)
	require.NoError(e.t, err)
	return b.Uint64()
}

func (e *testEnv) totalLocked() uint64 {
	locked, err := e.vault.TotalLocked()
	require.NoError(e.t, err)
	return locked.Uint64()
}

func (e *testEnv) registrySize() uint64 {
	size, err := e.vault.RegistrySize()
	require.NoError(e.t, err)
	return size
}

func (e *testEnv) kinds() []Kind {
	kinds := make([]Kind, 0, len(e.events))
	for _, ev := range e.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestNewValidatesParams(t *testing.T) {
	params := DefaultParams()
	params.BatchSize = 0
	_, err := New(vaultAddr, params, state.New(lvldb.NewMem()), nil, clock.NewManual(0), nil)
	assert.ErrorContains(t, err, "batch-size")

	params = DefaultParams()
	params.DepositFeePercent = 100
	assert.Error(t, params.Validate())
	assert.NoError(t, DefaultParams().Validate())
}

func TestInitialize(t *testing.T) {
	st := state.New(lvldb.NewMem())
	v, err := New(vaultAddr, DefaultParams(), st, token.NewRegistry(st), clock.NewManual(0), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, v.LockTokens(alice, u(1000)), ErrNotInitialized)
	assert.ErrorIs(t, v.SetFeeBeneficiary(owner, bob), ErrNotInitialized)
	assert.ErrorIs(t, v.Initialize(owner, thor.Address{}, beneficiary), ErrZeroAddress)

	require.NoError(t, v.Initialize(owner, assetAddr, beneficiary))
	assert.ErrorIs(t, v.Initialize(alice, assetAddr, beneficiary), ErrAlreadyInitialized)

	got, err := v.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
	got, err = v.LockAsset()
	require.NoError(t, err)
	assert.Equal(t, assetAddr, got)
	got, err = v.FeeBeneficiary()
	require.NoError(t, err)
	assert.Equal(t, beneficiary, got)
	assert.Equal(t, vaultAddr, v.Address())
	assert.Equal(t, uint64(50), v.Params().LockPeriod)
}

func TestAdministration(t *testing.T) {
	env := newTestEnv(t)
	v := env.vault

	assert.ErrorIs(t, v.SetFeeBeneficiary(alice, alice), ErrUnauthorized)
	assert.ErrorIs(t, v.SetFeeBeneficiary(owner, thor.Address{}), ErrZeroAddress)
	require.NoError(t, v.SetFeeBeneficiary(owner, carol))

	env.lock(alice, 10000)
	assert.Equal(t, uint64(100), env.bal(env.asset, carol))
	assert.Equal(t, uint64(0), env.bal(env.asset, beneficiary))

	assert.ErrorIs(t, v.SetAuthorizedCaller(alice, bob, true), ErrUnauthorized)
	assert.ErrorIs(t, v.SetAuthorizedCaller(owner, thor.Address{}, true), ErrZeroAddress)
	require.NoError(t, v.SetAuthorizedCaller(owner, bob, true))

	ok, err := v.IsAuthorized(bob)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = v.IsAuthorized(owner)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, v.SetAuthorizedCaller(owner, bob, false))
	ok, err = v.IsAuthorized(bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

// reentrantToken calls back into the vault before moving funds.
type reentrantToken struct {
	token.Token
	vault *Vault
	err   error
}

func (r *reentrantToken) TransferFrom(spender, from, to thor.Address, amount *uint256.Int) error {
	if r.err = r.vault.ClaimTokens(from); r.err != nil {
		return r.err
	}
	return r.Token.TransferFrom(spender, from, to, amount)
}

func TestReentrantCallRejected(t *testing.T) {
	env := newTestEnv(t)
	env.give(env.asset, alice, 10000)

	evil := &reentrantToken{Token: env.asset, vault: env.vault}
	env.tokens.Register(evil)

	err := env.vault.LockTokens(alice, u(10000))
	assert.ErrorIs(t, err, ErrReentrantCall)
	assert.ErrorIs(t, evil.err, ErrReentrantCall)

	assert.Equal(t, uint64(10000), env.bal(env.asset, alice))
	assert.Equal(t, uint64(0), env.bal(env.asset, beneficiary))
	assert.Equal(t, uint64(0), env.totalLocked())
	assert.Equal(t, uint64(0), env.registrySize())
	assert.Empty(t, env.events)

	// the guard is released once the call returns
	env.tokens.Register(env.asset)
	require.NoError(t, env.vault.LockTokens(alice, u(10000)))
	assert.Equal(t, uint64(9900), env.totalLocked())
}

// failingSink stages events and fails at the given step.
type failingSink struct {
	failWrite  bool
	failCommit bool
	committed  []*Event
	rolledBack int
}

func (s *failingSink) NewWriter() EventWriter {
	return &failingWriter{sink: s}
}

type failingWriter struct {
	sink   *failingSink
	staged []*Event
}

func (w *failingWriter) Write(events []*Event) error {
	if w.sink.failWrite {
		return errors.New("journal unavailable")
	}
	w.staged = append(w.staged, events...)
	return nil
}

func (w *failingWriter) Commit() error {
	if w.sink.failCommit {
		return errors.New("journal unavailable")
	}
	w.sink.committed = append(w.sink.committed, w.staged...)
	return nil
}

func (w *failingWriter) Rollback() error {
	w.sink.rolledBack++
	w.staged = nil
	return nil
}

func TestFailedSinkRevertsCall(t *testing.T) {
	env := newTestEnv(t)
	env.give(env.asset, alice, 1000)
	sink := &failingSink{failWrite: true}
	env.vault.sink = sink

	err := env.vault.LockTokens(alice, u(1000))
	assert.ErrorContains(t, err, "journal unavailable")
	assert.False(t, reverts.IsRevertErr(err))
	assert.Equal(t, 1, sink.rolledBack)

	l, err := env.vault.GetLock(alice)
	require.NoError(t, err)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, uint64(1000), env.bal(env.asset, alice))
}

func TestJournalFailureAfterCommitKeepsCall(t *testing.T) {
	env := newTestEnv(t)
	env.give(env.asset, alice, 1000)
	sink := &failingSink{failCommit: true}
	env.vault.sink = sink

	require.NoError(t, env.vault.LockTokens(alice, u(1000)))
	assert.Empty(t, sink.committed)
	assert.Equal(t, uint64(990), env.totalLocked())
	assert.Zero(t, env.st.Changes())
}

// flakyStore fails batch writes while broken is set.
type flakyStore struct {
	kv.Store
	broken bool
}

func (s *flakyStore) NewBatch() kv.Batch {
	b := s.Store.NewBatch()
	if !s.broken {
		return b
	}
	return &struct {
		kv.Putter
		kv.LenFunc
		kv.WriteFunc
	}{b, b.Len, func() error { return errors.New("disk full") }}
}

func TestCommitFailureLeavesNoState(t *testing.T) {
	db := &flakyStore{Store: lvldb.NewMem()}
	env := newTestEnvOn(t, db)
	env.give(env.asset, alice, 10000)
	env.give(env.asset, bob, 10000)
	require.NoError(t, env.st.Commit())

	db.broken = true
	err := env.vault.LockTokens(alice, u(10000))
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, reverts.IsRevertErr(err))
	assert.Empty(t, env.events)

	l, err := env.vault.GetLock(alice)
	require.NoError(t, err)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, uint64(10000), env.bal(env.asset, alice))
	assert.Zero(t, env.st.Changes())

	// the failed call does not ride along with the next commit
	db.broken = false
	require.NoError(t, env.vault.LockTokens(bob, u(10000)))
	l, err = env.vault.GetLock(alice)
	require.NoError(t, err)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, uint64(1), env.registrySize())
	assert.Equal(t, uint64(9900), env.totalLocked())
	assert.Equal(t, []Kind{LockCreated}, env.kinds())
	assert.Equal(t, bob, env.events[0].Subject)
}

// panickingToken moves the funds, then panics.
type panickingToken struct {
	token.Token
}

func (p *panickingToken) TransferFrom(spender, from, to thor.Address, amount *uint256.Int) error {
	if err := p.Token.TransferFrom(spender, from, to, amount); err != nil {
		return err
	}
	panic("transfer hook failed")
}

func TestPanicRevertsCall(t *testing.T) {
	env := newTestEnv(t)
	env.give(env.asset, alice, 10000)
	require.NoError(t, env.st.Commit())
	env.tokens.Register(&panickingToken{Token: env.asset})

	assert.Panics(t, func() { _ = env.vault.LockTokens(alice, u(10000)) })
	assert.Equal(t, uint64(10000), env.bal(env.asset, alice))
	assert.Equal(t, uint64(0), env.bal(env.asset, beneficiary))
	assert.Zero(t, env.st.Changes())

	// no charger is left behind and the guard is released
	assert.NoError(t, env.vault.sctx.UseGas(1<<62))
	env.tokens.Register(env.asset)
	require.NoError(t, env.vault.LockTokens(alice, u(10000)))
	assert.Equal(t, uint64(9900), env.totalLocked())
}

func TestRevertsAreDomainErrors(t *testing.T) {
	for _, err := range []error{
		ErrBelowMinimum, ErrCapacityExceeded, ErrAlreadyLocked, ErrNoActiveLock, ErrLockExpired,
		ErrStillLocked, ErrNothingToClaim, ErrGracePeriodNotElapsed, ErrNoRewardsAvailable,
		ErrNoVotingPower, ErrInsufficientTokenBalance, ErrRoundAlreadyComplete, ErrUnknownRound,
		ErrUnknownRewardToken, ErrCannotWithdrawReserved, ErrCannotWithdrawLockToken,
		ErrNothingToWithdraw, ErrZeroAddress, ErrZeroAmount, ErrUnauthorized, ErrReentrantCall,
		ErrAlreadyInitialized, ErrNotInitialized, ErrInsufficientBalance, ErrInsufficientAllowance,
	} {
		assert.True(t, reverts.IsRevertErr(err), err.Error())
	}
	assert.Same(t, ErrCapacityExceeded, ErrRegistryFull)
}
