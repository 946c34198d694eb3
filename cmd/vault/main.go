// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvault/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "vault",
		Usage:     "Time-weighted token locking vault",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			verbosityFlag,
			jsonLogsFlag,
			callerFlag,
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the vault with the caller as owner",
				Flags:  []cli.Flag{assetFlag, beneficiaryFlag},
				Action: withEnv(initAction),
			},
			{
				Name:   "mint",
				Usage:  "mint ledger tokens to an address",
				Flags:  []cli.Flag{tokenFlag, addressFlag, amountFlag},
				Action: withEnv(mintAction),
			},
			{
				Name:   "approve",
				Usage:  "allow the vault to pull tokens from the caller",
				Flags:  []cli.Flag{tokenFlag, amountFlag},
				Action: withEnv(approveAction),
			},
			{
				Name:   "advance",
				Usage:  "advance the time index",
				Flags:  []cli.Flag{byFlag},
				Action: withEnv(advanceAction),
			},
			{
				Name:   "lock",
				Usage:  "lock tokens of the caller",
				Flags:  []cli.Flag{amountFlag},
				Action: withEnv(lockAction),
			},
			{
				Name:   "extend",
				Usage:  "add tokens to the caller's lock, or relock it when the amount is zero",
				Flags:  []cli.Flag{amountFlag},
				Action: withEnv(extendAction),
			},
			{
				Name:   "claim",
				Usage:  "claim the caller's expired lock",
				Action: withEnv(claimAction),
			},
			{
				Name:   "emergency-unlock",
				Usage:  "return an abandoned lock to its owner",
				Flags:  []cli.Flag{addressFlag},
				Action: withEnv(emergencyUnlockAction),
			},
			{
				Name:   "register-token",
				Usage:  "register a reward token",
				Flags:  []cli.Flag{tokenFlag, thresholdFlag},
				Action: withEnv(registerTokenAction),
			},
			{
				Name:   "fund",
				Usage:  "fund the rewards of a token",
				Flags:  []cli.Flag{tokenFlag, amountFlag},
				Action: withEnv(fundAction),
			},
			{
				Name:   "start-round",
				Usage:  "start distributing the available rewards of a token",
				Flags:  []cli.Flag{tokenFlag},
				Action: withEnv(startRoundAction),
			},
			{
				Name:   "continue-round",
				Usage:  "process the next batch of a round",
				Flags:  []cli.Flag{roundFlag},
				Action: withEnv(continueRoundAction),
			},
			{
				Name:   "drain-round",
				Usage:  "process batches until a round completes",
				Flags:  []cli.Flag{roundFlag},
				Action: withEnv(drainRoundAction),
			},
			{
				Name:   "withdraw-stray",
				Usage:  "withdraw tokens not reserved for rewards",
				Flags:  []cli.Flag{tokenFlag},
				Action: withEnv(withdrawStrayAction),
			},
			{
				Name:   "set-beneficiary",
				Usage:  "set the deposit fee beneficiary",
				Flags:  []cli.Flag{addressFlag},
				Action: withEnv(setBeneficiaryAction),
			},
			{
				Name:   "authorize",
				Usage:  "allow or disallow an address to start rounds",
				Flags:  []cli.Flag{addressFlag, revokeFlag},
				Action: withEnv(authorizeAction),
			},
			{
				Name:   "balance",
				Usage:  "print the lock and voting power of an address",
				Flags:  []cli.Flag{addressFlag, atFlag},
				Action: withEnv(balanceAction),
			},
			{
				Name:   "supply",
				Usage:  "print the total voting power",
				Flags:  []cli.Flag{atFlag},
				Action: withEnv(supplyAction),
			},
			{
				Name:   "round",
				Usage:  "print a distribution round",
				Flags:  []cli.Flag{roundFlag},
				Action: withEnv(roundAction),
			},
			{
				Name:   "events",
				Usage:  "print journaled events",
				Flags:  []cli.Flag{kindFlag, subjectFlag, roundFlag, limitFlag},
				Action: withEnv(eventsAction),
			},
			{
				Name:   "stats",
				Usage:  "print committed storage usage per contract",
				Action: withEnv(statsAction),
			},
			{
				Name:  "serve",
				Usage: "serve the vault API and event subscriptions",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					apiPageLimitFlag,
					apiAllowWritesFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: withEnv(serveAction),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
