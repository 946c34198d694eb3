// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvault/clock"
	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/log"
	"github.com/vechain/lockvault/lvldb"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/token"
	"github.com/vechain/lockvault/vault"
)

var (
	vaultAddress = thor.BytesToAddress([]byte("lockvault"))
	clockAddress = thor.BytesToAddress([]byte("lockvault.clock"))
)

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".lockvault")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func initLogger(ctx *cli.Context) error {
	format := "terminal"
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		format = "json"
	}
	handler, err := log.NewHandler(os.Stderr, format, log.FromLegacyLevel(int(ctx.GlobalUint64(verbosityFlag.Name))))
	if err != nil {
		return err
	}
	log.SetDefault(handler)
	return nil
}

// env is the set of open databases and services one command works with.
type env struct {
	dataDir string
	db      *lvldb.LevelDB
	st      *state.State
	events  *eventdb.EventDB
	tokens  *token.Registry
	clock   *clock.Stored
	vault   *vault.Vault
}

func openEnv(ctx *cli.Context) (*env, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, fmt.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
	}

	params, err := loadParams(filepath.Join(dataDir, paramsFile))
	if os.IsNotExist(errors.Cause(err)) {
		// first run, params are fixed by init
		params, err = loadParams(ctx.GlobalString(configFlag.Name))
	}
	if err != nil {
		return nil, err
	}

	db, err := lvldb.New(filepath.Join(dataDir, "state.db"), lvldb.Options{})
	if err != nil {
		return nil, err
	}
	e := &env{dataDir: dataDir, db: db, st: state.New(db)}
	if e.events, err = eventdb.New(filepath.Join(dataDir, "events.db")); err != nil {
		e.Close()
		return nil, err
	}
	if e.clock, err = clock.NewStored(clockAddress, e.st); err != nil {
		e.Close()
		return nil, err
	}
	e.tokens = token.NewRegistry(e.st)
	if e.vault, err = vault.New(vaultAddress, params, e.st, e.tokens, e.clock, e.events); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) Close() {
	if e.events != nil {
		if err := e.events.Close(); err != nil {
			logger.Warn("failed to close event db", "err", err)
		}
	}
	if err := e.db.Close(); err != nil {
		logger.Warn("failed to close state db", "err", err)
	}
}

// withEnv opens the environment for the duration of fn.
func withEnv(fn func(ctx *cli.Context, e *env) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if err := initLogger(ctx); err != nil {
			return err
		}
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(ctx, e)
	}
}

func parseAddress(ctx *cli.Context, flag cli.StringFlag) (thor.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return thor.Address{}, fmt.Errorf("missing --%s", flag.Name)
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.WithMessagef(err, "--%s", flag.Name)
	}
	return addr, nil
}

func parseCaller(ctx *cli.Context) (thor.Address, error) {
	s := ctx.GlobalString(callerFlag.Name)
	if s == "" {
		return thor.Address{}, fmt.Errorf("missing --%s", callerFlag.Name)
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.WithMessagef(err, "--%s", callerFlag.Name)
	}
	return addr, nil
}

func parseAmount(ctx *cli.Context, flag cli.StringFlag) (*uint256.Int, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return nil, fmt.Errorf("missing --%s", flag.Name)
	}
	amount := new(uint256.Int)
	if err := amount.UnmarshalText([]byte(s)); err != nil {
		return nil, errors.WithMessagef(err, "--%s", flag.Name)
	}
	return amount, nil
}

// timeIndex returns the --at flag, or now when unset.
func timeIndex(ctx *cli.Context, now uint64) uint64 {
	if at := ctx.Int64(atFlag.Name); at >= 0 {
		return uint64(at)
	}
	return now
}
