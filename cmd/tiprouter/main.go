// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/jito-foundation/jito-tip-router-sub002/log"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "tiprouter")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	if err := loadEnv(os.Getenv("TIPROUTER_ENV_FILE")); err != nil {
		fatal(err)
	}

	app := cli.App{
		Version: fullVersion(),
		Name:    "tiprouter",
		Usage:   "Tip router NCN simulator and inspector",
		Commands: []cli.Command{
			{
				Name:  "simulate",
				Usage: "play a scenario file through the tip router and print the report",
				Flags: []cli.Flag{
					scenarioFlag,
					dataDirFlag,
					outputFlag,
					verbosityFlag,
				},
				Action: simulateAction,
			},
			{
				Name:  "inspect",
				Usage: "dump the tip router accounts stored in a data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					ncnFlag,
					epochFlag,
					outputFlag,
					verbosityFlag,
				},
				Action: inspectAction,
			},
			{
				Name:  "serve",
				Usage: "serve the tip router accounts over HTTP while slots advance",
				Flags: []cli.Flag{
					dataDirFlag,
					scenarioFlag,
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					slotDurationFlag,
					verbosityFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
