// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/parastake/parastake/api"
	"github.com/parastake/parastake/genesis"
	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/metrics"
	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/para"
)

// stakingPackages are the loggers controlled by --verbosity-staker.
var stakingPackages = []string{"staker", "growth", "payout", "params"}

func newLogHandler(w io.Writer, jsonLogs bool, color bool) slog.Handler {
	if jsonLogs {
		return log.JSONHandlerWithLevel(w, log.LevelTrace)
	}
	return log.NewTerminalHandlerWithLevel(w, log.LevelTrace, color)
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	levels := make(map[string]slog.Leveler)
	if v := ctx.Int(stakerVerbosityFlag.Name); v >= 0 {
		for _, pkg := range stakingPackages {
			levels[pkg] = log.FromLegacyLevel(v)
		}
	}

	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := newLogHandler(os.Stderr, ctx.Bool(jsonLogsFlag.Name), color)
	log.SetDefault(log.NewLogger(log.NewPackageLevelHandler(handler, level, levels)))
}

func initMetrics(ctx *cli.Context) {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return lvldb.NewMem()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return lvldb.New(filepath.Join(dir, "state.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return nil, nil
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, err
	}
	if gen.Config != nil {
		para.SetConfig(*gen.Config)
	}
	return gen, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", s)
	}
	return v, nil
}

func nodeOptions(ctx *cli.Context) (node.Options, error) {
	fees, err := parseAmount(ctx.String(feesPerBlockFlag.Name))
	if err != nil {
		return node.Options{}, err
	}
	bps := ctx.Uint64(liftBpsFlag.Name)
	if bps > 10_000 {
		return node.Options{}, errors.Errorf("lift-bps %d above 10000", bps)
	}
	return node.Options{
		FeesPerBlock: fees,
		LiftDelay:    ctx.Uint64(liftDelayFlag.Name),
		LiftBps:      bps,
	}, nil
}

// startAPIServer listens on the API address and serves until ctx is done.
// It returns a nil server when no address is set.
func startAPIServer(ctx *cli.Context, n *node.Node) (*http.Server, net.Listener, error) {
	addr := ctx.String(apiAddrFlag.Name)
	if addr == "" {
		return nil, nil, nil
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	handler, closeSubs := api.New(n, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
	})
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	srv.RegisterOnShutdown(closeSubs)
	return srv, listener, nil
}

// serveAPI runs srv until ctx is done.
func serveAPI(ctx context.Context, srv *http.Server, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	logger.Info("API server started", "url", "http://"+listener.Addr().String()+"/")
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
