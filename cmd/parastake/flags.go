// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/parastake/parastake/log"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the genesis YAML file, required when the database is empty",
	}
	blocksFlag = cli.Uint64Flag{
		Name:  "blocks",
		Value: 100,
		Usage: "number of blocks to produce",
	}
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Usage: "pause between produced blocks",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory of the state database, in memory if not set",
	}
	feesPerBlockFlag = cli.StringFlag{
		Name:  "fees-per-block",
		Value: "0",
		Usage: "amount credited to the reward pot every block",
	}
	liftDelayFlag = cli.Uint64Flag{
		Name:  "lift-delay",
		Value: 2,
		Usage: "blocks before the relayer confirms a growth mint request",
	}
	liftBpsFlag = cli.Uint64Flag{
		Name:  "lift-bps",
		Value: 500,
		Usage: "minted growth in basis points of the requested era rewards",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Usage: "API service listening address, disabled if not set",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	stakerVerbosityFlag = cli.IntFlag{
		Name:  "verbosity-staker",
		Value: -1,
		Usage: "log verbosity (0-9) of the staking engine, the global verbosity if negative",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served on /metrics of the API",
	}
)
