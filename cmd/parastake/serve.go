// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/parastake/parastake/node"
)

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	initMetrics(ctx)

	if ctx.String(dataDirFlag.Name) == "" {
		return errors.New("data-dir flag not specified")
	}
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); db.Close() }()

	n, err := node.New(db, nil, node.Options{})
	if err != nil {
		return err
	}
	srv, listener, err := startAPIServer(ctx, n)
	if err != nil {
		return err
	}
	if srv == nil {
		return errors.New("api-addr flag not specified")
	}

	exitCtx, stop := handleExitSignal()
	defer stop()
	return serveAPI(exitCtx, srv, listener)
}
