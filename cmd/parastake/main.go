// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/parastake/parastake/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "parastake")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	logFlags := []cli.Flag{
		verbosityFlag,
		stakerVerbosityFlag,
		jsonLogsFlag,
	}
	app := cli.App{
		Version: fullVersion(),
		Name:    "parastake",
		Usage:   "Era based collator staking with reward payouts and growth distribution",
		Commands: []cli.Command{
			{
				Name:  "simulate",
				Usage: "produce blocks over a genesis and optionally serve the API",
				Flags: append([]cli.Flag{
					genesisFlag,
					blocksFlag,
					blockIntervalFlag,
					dataDirFlag,
					feesPerBlockFlag,
					liftDelayFlag,
					liftBpsFlag,
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
				}, logFlags...),
				Action: simulateAction,
			},
			{
				Name:  "serve",
				Usage: "serve the API over an existing database without producing blocks",
				Flags: append([]cli.Flag{
					dataDirFlag,
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
				}, logFlags...),
				Action: serveAction,
			},
			{
				Name:   "inspect",
				Usage:  "dump the staking state at the head of a database",
				Flags:  append([]cli.Flag{dataDirFlag}, logFlags...),
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
