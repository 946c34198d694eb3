// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/api/restutil"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault"
)

type Vaults struct {
	vault       *vault.Vault
	mu          sync.Locker
	limit       uint64
	allowWrites bool
}

// New creates the vault API. mu serialises access with other users of v.
// Write calls answer 403 unless allowWrites is set.
func New(v *vault.Vault, mu sync.Locker, pageLimit uint64, allowWrites bool) *Vaults {
	return &Vaults{
		vault:       v,
		mu:          mu,
		limit:       pageLimit,
		allowWrites: allowWrites,
	}
}

func (vs *Vaults) summary() (*Summary, error) {
	v := vs.vault
	s := &Summary{
		Now:      v.Now(),
		Capacity: v.Params().MaxActiveUsers,
	}
	var err error
	if s.Owner, err = v.Owner(); err != nil {
		return nil, err
	}
	if s.LockAsset, err = v.LockAsset(); err != nil {
		return nil, err
	}
	if s.FeeBeneficiary, err = v.FeeBeneficiary(); err != nil {
		return nil, err
	}
	supply, err := v.TotalSupply()
	if err != nil {
		return nil, err
	}
	locked, err := v.TotalLocked()
	if err != nil {
		return nil, err
	}
	s.TotalSupply, s.TotalLocked = amount(supply), amount(locked)
	if s.RegistrySize, err = v.RegistrySize(); err != nil {
		return nil, err
	}
	if s.RoundCount, err = v.RoundCount(); err != nil {
		return nil, err
	}
	open, err := v.OpenRounds()
	if err != nil {
		return nil, err
	}
	s.OpenRounds = make([]uint64, 0, len(open))
	for _, r := range open {
		s.OpenRounds = append(s.OpenRounds, r.ID)
	}
	return s, nil
}

func (vs *Vaults) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	s, err := vs.summary()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, s)
}

func (vs *Vaults) account(addr thor.Address, at uint64) (*Account, error) {
	l, err := vs.vault.GetLock(addr)
	if err != nil {
		return nil, err
	}
	power, err := vs.vault.BalanceOfAt(addr, at)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address:     addr,
		At:          at,
		VotingPower: amount(power),
		Lock:        convertLock(l),
	}, nil
}

func (vs *Vaults) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	at, err := restutil.QueryUint(req, "at", vs.vault.Now())
	if err != nil {
		return err
	}
	acc, err := vs.account(addr, at)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, acc)
}

func (vs *Vaults) handleGetMembers(w http.ResponseWriter, req *http.Request) error {
	offset, err := restutil.QueryUint(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := restutil.QueryUint(req, "limit", vs.limit)
	if err != nil {
		return err
	}
	if limit > vs.limit {
		return restutil.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", vs.limit))
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	members, err := vs.vault.Members(offset, limit)
	if err != nil {
		return err
	}
	if members == nil {
		members = []thor.Address{}
	}
	return restutil.WriteJSON(w, members)
}

func (vs *Vaults) handleGetRound(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	r, err := vs.vault.GetRound(id)
	if err != nil {
		return err
	}
	if !r.Exists() {
		return restutil.NotFound(errors.New("round not found"))
	}
	return restutil.WriteJSON(w, convertRound(r))
}

func (vs *Vaults) handleGetRewardToken(w http.ResponseWriter, req *http.Request) error {
	token, err := restutil.ParseAddress("token", mux.Vars(req)["token"])
	if err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	return vs.writeRewardToken(w, token)
}

func (vs *Vaults) writeRewardToken(w http.ResponseWriter, token thor.Address) error {
	cfg, err := vs.vault.RewardConfig(token)
	if err != nil {
		return err
	}
	pending, err := vs.vault.PendingRewards(token)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &RewardToken{
		Token:              token,
		Registered:         cfg.Registered,
		AvailableRewards:   amount(cfg.AvailableRewards),
		MinRewardThreshold: amount(cfg.MinRewardThreshold),
		Pending:            amount(pending),
	})
}

func (vs *Vaults) parseCall(req *http.Request) (*CallRequest, error) {
	if !vs.allowWrites {
		return nil, restutil.Forbidden(errors.New("write calls are disabled"))
	}
	var body CallRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return nil, restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

// writeAccount responds the caller's account after a lock call.
func (vs *Vaults) writeAccount(w http.ResponseWriter, caller thor.Address) error {
	acc, err := vs.account(caller, vs.vault.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, acc)
}

func (vs *Vaults) handleLock(w http.ResponseWriter, req *http.Request) error {
	body, err := vs.parseCall(req)
	if err != nil {
		return err
	}
	amt, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.vault.LockTokens(body.Caller, amt); err != nil {
		return err
	}
	return vs.writeAccount(w, body.Caller)
}

func (vs *Vaults) handleExtend(w http.ResponseWriter, req *http.Request) error {
	body, err := vs.parseCall(req)
	if err != nil {
		return err
	}
	// a missing amount re-locks
	amt := new(uint256.Int)
	if body.Amount != nil {
		if amt, err = parseAmount(body.Amount); err != nil {
			return err
		}
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.vault.ExtendLock(body.Caller, amt); err != nil {
		return err
	}
	return vs.writeAccount(w, body.Caller)
}

func (vs *Vaults) handleClaim(w http.ResponseWriter, req *http.Request) error {
	body, err := vs.parseCall(req)
	if err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.vault.ClaimTokens(body.Caller); err != nil {
		return err
	}
	return vs.writeAccount(w, body.Caller)
}

func (vs *Vaults) handleFundRewards(w http.ResponseWriter, req *http.Request) error {
	token, err := restutil.ParseAddress("token", mux.Vars(req)["token"])
	if err != nil {
		return err
	}
	body, err := vs.parseCall(req)
	if err != nil {
		return err
	}
	amt, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.vault.FundRewards(body.Caller, token, amt); err != nil {
		return err
	}
	return vs.writeRewardToken(w, token)
}

func (vs *Vaults) handleStartRound(w http.ResponseWriter, req *http.Request) error {
	body, err := vs.parseCall(req)
	if err != nil {
		return err
	}
	if body.Token == nil {
		return restutil.BadRequest(errors.New("token: required"))
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	id, err := vs.vault.StartRound(body.Caller, *body.Token)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &StartedRound{ID: id})
}

func (vs *Vaults) handleContinueRound(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	body, err := vs.parseCall(req)
	if err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.vault.ContinueRound(body.Caller, id); err != nil {
		return err
	}
	r, err := vs.vault.GetRound(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertRound(r))
}

func (vs *Vaults) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vault").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleGetSummary))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /vault/accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleGetAccount))
	sub.Path("/members").
		Methods(http.MethodGet).
		Name("GET /vault/members").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleGetMembers))
	sub.Path("/rounds/{id}").
		Methods(http.MethodGet).
		Name("GET /vault/rounds/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleGetRound))
	sub.Path("/rewards/{token}").
		Methods(http.MethodGet).
		Name("GET /vault/rewards/{token}").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleGetRewardToken))

	sub.Path("/locks").
		Methods(http.MethodPost).
		Name("POST /vault/locks").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleLock))
	sub.Path("/locks/extend").
		Methods(http.MethodPost).
		Name("POST /vault/locks/extend").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleExtend))
	sub.Path("/locks/claim").
		Methods(http.MethodPost).
		Name("POST /vault/locks/claim").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleClaim))
	sub.Path("/rewards/{token}/fund").
		Methods(http.MethodPost).
		Name("POST /vault/rewards/{token}/fund").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleFundRewards))
	sub.Path("/rounds").
		Methods(http.MethodPost).
		Name("POST /vault/rounds").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleStartRound))
	sub.Path("/rounds/{id}/continue").
		Methods(http.MethodPost).
		Name("POST /vault/rounds/{id}/continue").
		HandlerFunc(restutil.WrapHandlerFunc(vs.handleContinueRound))
}
