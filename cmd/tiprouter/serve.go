// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/jonboulle/clockwork"
	cli "gopkg.in/urfave/cli.v1"
	"golang.org/x/sync/errgroup"

	"github.com/jito-foundation/jito-tip-router-sub002/api"
	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/metrics"
	"github.com/jito-foundation/jito-tip-router-sub002/program/fixture"
	"github.com/jito-foundation/jito-tip-router-sub002/sim"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

func serveAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	store, closer, err := openStore(ctx.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	defer closer.Close()

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	if path := ctx.String(scenarioFlag.Name); path != "" {
		sc, err := sim.LoadScenario(path)
		if err != nil {
			return err
		}
		report, err := sim.Run(exitCtx, sc, sim.Options{Store: store})
		if err != nil {
			return err
		}
		logger.Info("scenario seeded", "name", report.Scenario, "ncn", report.Ncn, "epoch", report.Epoch)
	}

	bank, err := fixture.NewBankWithStore(store, host.DefaultConfig())
	if err != nil {
		return err
	}

	handler := api.New(bank, tiprouter.ProgramID, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		Version:         fullVersion(),
	})
	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	logger.Info("API portal is online", "url", apiURL, "slot", bank.Clock().Slot)

	clock := host.NewSlotClock(clockwork.NewRealClock(), bank.Clock().Slot, ctx.Duration(slotDurationFlag.Name))
	g, gctx := errgroup.WithContext(exitCtx)
	g.Go(func() error {
		return bank.Follow(gctx, clock)
	})
	return g.Wait()
}
