// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/para"
)

func simulateAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	initMetrics(ctx)

	opts, err := nodeOptions(ctx)
	if err != nil {
		return err
	}
	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	para.LockConfig()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); db.Close() }()

	n, err := node.New(db, gen, opts)
	if err != nil {
		return err
	}
	srv, listener, err := startAPIServer(ctx, n)
	if err != nil {
		return err
	}

	exitCtx, stop := handleExitSignal()
	defer stop()

	g, gctx := errgroup.WithContext(exitCtx)
	g.Go(func() error {
		return produceBlocks(gctx, n, ctx.Uint64(blocksFlag.Name), ctx.Duration(blockIntervalFlag.Name))
	})
	if srv != nil {
		g.Go(func() error {
			return serveAPI(gctx, srv, listener)
		})
	}
	return g.Wait()
}

func produceBlocks(ctx context.Context, n *node.Node, blocks uint64, interval time.Duration) error {
	start, _ := n.Head()
	fmt.Printf(">> Producing %d blocks from #%d <<\n", blocks, start+1)

	bar := pb.New64(int64(blocks)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	var lifted int
	for i := uint64(0); i < blocks; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		summary, err := n.ProduceBlock()
		if err != nil {
			return errors.Wrapf(err, "produce block #%d", start+i+1)
		}
		lifted += len(summary.Lifted)
		bar.Increment()

		if interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
	}
	bar.Finish()

	head, root := n.Head()
	return n.View(func(v *node.View) error {
		info, err := v.Staker.Era()
		if err != nil {
			return err
		}
		fmt.Printf("head #%d era %d root %v growth lifts %d\n", head, info.Current, root, lifted)
		return nil
	})
}
