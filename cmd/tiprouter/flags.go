// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	scenarioFlag = cli.StringFlag{
		Name:   "scenario",
		Usage:  "path to a yaml scenario file",
		EnvVar: "TIPROUTER_SCENARIO",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Usage:  "directory for the accounts database (in memory if empty)",
		EnvVar: "TIPROUTER_DATA_DIR",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Value: "yaml",
		Usage: "output format (yaml|dump)",
	}
	ncnFlag = cli.StringFlag{
		Name:  "ncn",
		Usage: "only show accounts of this ncn",
	}
	epochFlag = cli.Int64Flag{
		Name:  "epoch",
		Value: -1,
		Usage: "only show accounts of this epoch",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8670",
		Usage:  "API service listening address",
		EnvVar: "TIPROUTER_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "TIPROUTER_API_CORS",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection, served at /metrics",
		EnvVar: "TIPROUTER_ENABLE_METRICS",
	}
	slotDurationFlag = cli.DurationFlag{
		Name:  "slot-duration",
		Value: 0,
		Usage: "wall time per slot (400ms if zero)",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-9)",
		EnvVar: "TIPROUTER_VERBOSITY",
	}
)
