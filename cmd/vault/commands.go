// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault"
)

func initAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	asset, err := parseAddress(ctx, assetFlag)
	if err != nil {
		return err
	}
	beneficiary, err := parseAddress(ctx, beneficiaryFlag)
	if err != nil {
		return err
	}
	if err := e.vault.Initialize(caller, asset, beneficiary); err != nil {
		return err
	}
	if err := saveParams(filepath.Join(e.dataDir, paramsFile), e.vault.Params()); err != nil {
		return err
	}
	logger.Info("vault initialized", "owner", caller, "asset", asset, "beneficiary", beneficiary, "dir", e.dataDir)
	return nil
}

func mintAction(ctx *cli.Context, e *env) error {
	tok, err := parseAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	to, err := parseAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag)
	if err != nil {
		return err
	}
	if err := e.tokens.Ledger(tok).Mint(to, amount); err != nil {
		return err
	}
	return errors.Wrap(e.st.Commit(), "commit state")
}

func approveAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	tok, err := parseAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag)
	if err != nil {
		return err
	}
	if err := e.tokens.Ledger(tok).Approve(caller, vaultAddress, amount); err != nil {
		return err
	}
	return errors.Wrap(e.st.Commit(), "commit state")
}

func advanceAction(ctx *cli.Context, e *env) error {
	now, err := e.clock.Advance(ctx.Uint64(byFlag.Name))
	if err != nil {
		return err
	}
	fmt.Println(now)
	return nil
}

func lockAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag)
	if err != nil {
		return err
	}
	return e.vault.LockTokens(caller, amount)
}

func extendAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	amount := new(uint256.Int)
	if ctx.String(amountFlag.Name) != "" {
		if amount, err = parseAmount(ctx, amountFlag); err != nil {
			return err
		}
	}
	return e.vault.ExtendLock(caller, amount)
}

func claimAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	return e.vault.ClaimTokens(caller)
}

func emergencyUnlockAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	user, err := parseAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	return e.vault.EmergencyUnlock(caller, user)
}

func registerTokenAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	tok, err := parseAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	threshold, err := parseAmount(ctx, thresholdFlag)
	if err != nil {
		return err
	}
	return e.vault.RegisterRewardToken(caller, tok, threshold)
}

func fundAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	tok, err := parseAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag)
	if err != nil {
		return err
	}
	return e.vault.FundRewards(caller, tok, amount)
}

func startRoundAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	tok, err := parseAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	id, err := e.vault.StartRound(caller, tok)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func continueRoundAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	return e.vault.ContinueRound(caller, ctx.Uint64(roundFlag.Name))
}

func drainRoundAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	id := ctx.Uint64(roundFlag.Name)
	r, err := e.vault.GetRound(id)
	if err != nil {
		return err
	}
	if !r.Exists() {
		return vault.ErrUnknownRound
	}

	bar := pb.New64(int64(r.RegistrySizeAtStart)).
		Set64(int64(r.LastProcessedIndex)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	for !r.Complete() {
		if err := e.vault.ContinueRound(caller, id); err != nil {
			return err
		}
		if r, err = e.vault.GetRound(id); err != nil {
			return err
		}
		bar.Set64(int64(r.LastProcessedIndex))
	}
	bar.Finish()
	fmt.Printf("round %d complete: %v distributed to %d members\n", id, r.Distributed, r.Recipients)
	return nil
}

func withdrawStrayAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	tok, err := parseAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	amount, err := e.vault.WithdrawStray(caller, tok)
	if err != nil {
		return err
	}
	fmt.Println(amount)
	return nil
}

func setBeneficiaryAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	addr, err := parseAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	return e.vault.SetFeeBeneficiary(caller, addr)
}

func authorizeAction(ctx *cli.Context, e *env) error {
	caller, err := parseCaller(ctx)
	if err != nil {
		return err
	}
	addr, err := parseAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	return e.vault.SetAuthorizedCaller(caller, addr, !ctx.Bool(revokeFlag.Name))
}

func balanceAction(ctx *cli.Context, e *env) error {
	addr, err := parseAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	at := timeIndex(ctx, e.vault.Now())
	l, err := e.vault.GetLock(addr)
	if err != nil {
		return err
	}
	power, err := e.vault.BalanceOfAt(addr, at)
	if err != nil {
		return err
	}
	fmt.Printf("principal: %v\nvirtual principal: %v\nstart: %d\nend: %d\nvoting power at %d: %v\n",
		l.Principal, l.VirtualPrincipal, l.StartIndex, l.EndIndex, at, power)
	return nil
}

func supplyAction(ctx *cli.Context, e *env) error {
	at := timeIndex(ctx, e.vault.Now())
	supply, err := e.vault.TotalSupplyAt(at)
	if err != nil {
		return err
	}
	locked, err := e.vault.TotalLocked()
	if err != nil {
		return err
	}
	fmt.Printf("voting power at %d: %v\nlocked: %v\n", at, supply, locked)
	return nil
}

func roundAction(ctx *cli.Context, e *env) error {
	r, err := e.vault.GetRound(ctx.Uint64(roundFlag.Name))
	if err != nil {
		return err
	}
	if !r.Exists() {
		return vault.ErrUnknownRound
	}
	fmt.Printf("token: %v\npool: %v\nthreshold: %v\nsnapshot: %d\nprogress: %d/%d\ndistributed: %v\nrecipients: %d\npending: %v\n",
		r.RewardToken, r.TotalRewardsAtStart, r.MinRewardThreshold, r.SnapshotTimeIndex,
		r.LastProcessedIndex, r.RegistrySizeAtStart, r.Distributed, r.Recipients, r.Pending())
	return nil
}

func eventsAction(ctx *cli.Context, e *env) error {
	filter := &eventdb.Filter{
		Options: &eventdb.Options{Limit: ctx.Uint64(limitFlag.Name)},
	}
	if kinds := ctx.String(kindFlag.Name); kinds != "" {
		for _, name := range strings.Split(kinds, ",") {
			k, err := vault.ParseKind(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			filter.Kinds = append(filter.Kinds, k)
		}
	}
	if ctx.String(subjectFlag.Name) != "" {
		subject, err := parseAddress(ctx, subjectFlag)
		if err != nil {
			return err
		}
		filter.Subject = &subject
	}
	if ctx.IsSet(roundFlag.Name) {
		round := ctx.Uint64(roundFlag.Name)
		filter.Round = &round
	}

	events, err := e.events.Filter(context.Background(), filter)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Printf("%6d t=%-6d %-19s %s %v token=%v amount=%v round=%d end=%d\n",
			ev.Seq, ev.TimeIndex, ev.Kind, ev.Kind.Topic().AbbrevString(), ev.Subject, ev.Token, ev.Amount, ev.Round, ev.EndIndex)
	}
	return nil
}

// slotUsage is the committed storage held by one address.
type slotUsage struct {
	Address thor.Address
	Slots   int
	Bytes   int
}

func storageUsage(st *state.State) ([]*slotUsage, error) {
	byAddr := make(map[thor.Address]*slotUsage)
	err := st.ScanStorage(func(addr thor.Address, _ thor.Bytes32, raw []byte) error {
		u, ok := byAddr[addr]
		if !ok {
			u = &slotUsage{Address: addr}
			byAddr[addr] = u
		}
		u.Slots++
		u.Bytes += len(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	usages := slices.Collect(maps.Values(byAddr))
	slices.SortFunc(usages, func(a, b *slotUsage) int {
		return bytes.Compare(a.Address.Bytes(), b.Address.Bytes())
	})
	return usages, nil
}

func statsAction(_ *cli.Context, e *env) error {
	usages, err := storageUsage(e.st)
	if err != nil {
		return err
	}
	asset, err := e.vault.LockAsset()
	if err != nil {
		return err
	}
	names := map[thor.Address]string{vaultAddress: "vault", clockAddress: "clock"}
	if !asset.IsZero() {
		names[asset] = "lock asset"
	}
	for _, u := range usages {
		name, ok := names[u.Address]
		if !ok {
			name = "token"
		}
		fmt.Printf("%v %-10s slots=%-8d bytes=%d\n", u.Address, name, u.Slots, u.Bytes)
	}
	return nil
}
