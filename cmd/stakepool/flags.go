// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the pool YAML configuration",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the pool database",
	}
	inMemoryFlag = cli.BoolFlag{
		Name:  "in-memory",
		Usage: "keep the pool in memory, nothing is persisted",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 16,
		Usage: "database cache size in MiB",
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
	apiAccountsLimitFlag = cli.Uint64Flag{
		Name:  "api-accounts-limit",
		Value: 1000,
		Usage: "limit the number of accounts returned by /accounts API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
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
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}

	// pool parameters, override the config file
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "address receiving the reward fee shares",
	}
	rewardFeeFlag = cli.StringFlag{
		Name:  "reward-fee",
		Usage: "fraction of each epoch reward paid to the owner, e.g. 1/10",
	}
	unlockDelayFlag = cli.Uint64Flag{
		Name:  "unlock-delay",
		Usage: "epochs an unstaked balance stays locked",
	}
	epochDurationFlag = cli.DurationFlag{
		Name:  "epoch-duration",
		Usage: "length of one epoch",
	}
	rewardPerEpochFlag = cli.StringFlag{
		Name:  "reward-per-epoch",
		Usage: "reward distributed every epoch, in base units",
	}
	rewardBudgetFlag = cli.StringFlag{
		Name:  "reward-budget",
		Usage: "total reward available for distribution, in base units",
	}
)
