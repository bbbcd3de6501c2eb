// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jito-foundation/jito-tip-router-sub002/kv"
	"github.com/jito-foundation/jito-tip-router-sub002/log"
	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
)

func fatal(args ...any) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// loadEnv reads KEY=VALUE pairs from path, or .env when path is empty,
// without overriding variables already set. A missing default file is fine.
func loadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "load .env")
		}
		return nil
	}
	return errors.Wrapf(godotenv.Load(path), "load %s", path)
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewStderrHandler(level)))
}

// handleExitSignal returns a context canceled on SIGINT or SIGTERM.
func handleExitSignal() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("exit signal received")
	}()
	return ctx, cancel
}

// openStore opens the accounts database in dataDir, or an in-memory one.
func openStore(dataDir string) (kv.Store, io.Closer, error) {
	var (
		db  *lvldb.LevelDB
		err error
	)
	if dataDir == "" {
		db, err = lvldb.NewMem()
	} else {
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
		}
		db, err = lvldb.New(dataDir, lvldb.Options{})
	}
	if err != nil {
		return nil, nil, err
	}
	return db, db, nil
}

// startAPIServer serves handler on addr until the returned stop is called.
func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server stopped", "err", err)
		}
	}()
	return "http://" + listener.Addr().String() + "/", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		<-done
	}, nil
}
