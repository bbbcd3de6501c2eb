// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/jito-foundation/jito-tip-router-sub002/sim"
)

func simulateAction(ctx *cli.Context) error {
	initLogger(ctx)

	path := ctx.String(scenarioFlag.Name)
	if path == "" {
		return errors.Errorf("--%s is required", scenarioFlag.Name)
	}
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return err
	}

	store, closer, err := openStore(ctx.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	defer closer.Close()

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	report, err := sim.Run(exitCtx, sc, sim.Options{Store: store})
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, report, ctx.String(outputFlag.Name))
}

func writeReport(w io.Writer, report *sim.Report, format string) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encode report")
		}
		return enc.Close()
	case "dump":
		spew.Fdump(w, report)
		return nil
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
