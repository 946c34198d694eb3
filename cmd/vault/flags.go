// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvault/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for vault state and event databases",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML file with vault parameters, read by init",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address the call is made from",
	}

	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "token address",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "account address",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "token amount, decimal or 0x-prefixed hex",
	}
	assetFlag = cli.StringFlag{
		Name:  "asset",
		Usage: "address of the token to lock",
	}
	beneficiaryFlag = cli.StringFlag{
		Name:  "beneficiary",
		Usage: "address receiving deposit fees",
	}
	thresholdFlag = cli.StringFlag{
		Name:  "threshold",
		Value: "0",
		Usage: "minimum reward paid to a single member",
	}
	roundFlag = cli.Uint64Flag{
		Name:  "round",
		Usage: "distribution round id",
	}
	atFlag = cli.Int64Flag{
		Name:  "at",
		Value: -1,
		Usage: "time index to evaluate at (defaults to now)",
	}
	byFlag = cli.Uint64Flag{
		Name:  "by",
		Value: 1,
		Usage: "number of time index units to advance",
	}
	revokeFlag = cli.BoolFlag{
		Name:  "revoke",
		Usage: "revoke instead of grant",
	}

	kindFlag = cli.StringFlag{
		Name:  "kind",
		Usage: "comma separated event kinds",
	}
	subjectFlag = cli.StringFlag{
		Name:  "subject",
		Usage: "event subject address",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 100,
		Usage: "maximum number of events to print",
	}

	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiPageLimitFlag = cli.Uint64Flag{
		Name:  "api-page-limit",
		Value: 1000,
		Usage: "limit the number of items returned by paged API endpoints",
	}
	apiAllowWritesFlag = cli.BoolFlag{
		Name:  "api-allow-writes",
		Usage: "accept lock, reward and round calls over the API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration (ms) above the threshold will be logged",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
)
