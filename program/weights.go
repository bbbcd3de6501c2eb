// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/jito-foundation/jito-tip-router-sub002/oracle"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
)

func init() {
	define(instruction.SelInitializeWeightTable, func(e *env) error { return weightTableLifecycle(e, false) })
	define(instruction.SelReallocWeightTable, func(e *env) error { return weightTableLifecycle(e, true) })
	define(instruction.SelSetWeight, setWeight)
	define(instruction.SelAdminSetWeight, adminSetWeight)
}

func weightTableLifecycle(e *env, realloc bool) error {
	if err := e.Expect(6); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	var (
		cfgInfo      = e.accounts[0]
		tableInfo    = e.accounts[1]
		ncnInfo      = e.accounts[2]
		payerInfo    = e.accounts[3]
		systemInfo   = e.accounts[4]
		registryInfo = e.accounts[5]
	)
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
	if err != nil {
		return err
	}
	if err := e.checkEpoch(cfg, args.Epoch); err != nil {
		return err
	}
	registry, err := load[state.VaultRegistry](e, registryInfo, false, state.VaultRegistrySeeds(ncnInfo.Key))
	if err != nil {
		return err
	}

	table := &state.WeightTable{}
	initBody := func(bump uint8) error {
		table.Init(ncnInfo.Key, args.Epoch, e.slot(), bump, registry)
		e.ctx.Log("weight table initialized", "epoch", args.Epoch, "mints", table.MintCount, "vaults", table.VaultCount)
		return nil
	}
	seeds := state.WeightTableSeeds(ncnInfo.Key, args.Epoch)
	if realloc {
		return e.grow(payerInfo, tableInfo, ncnInfo.Key, table, seeds, initBody)
	}
	return e.create(payerInfo, tableInfo, ncnInfo.Key, table, seeds, initBody)
}

func setWeight(e *env) error {
	if err := e.Expect(3); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	ncnInfo, tableInfo, mintInfo := e.accounts[0], e.accounts[1], e.accounts[2]

	table, err := e.loadWeightTable(tableInfo, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}
	entry, err := table.Entry(mintInfo.Key)
	if err != nil {
		return err
	}
	if entry.IsSet() {
		return reverts.ErrWeightAlreadySet.Withf("%v", mintInfo.Key)
	}

	weight := entry.StMintEntry.NoFeedWeight
	if entry.StMintEntry.HasFeed() {
		if err := e.Expect(4); err != nil {
			return err
		}
		feedInfo := e.accounts[3]
		if feedInfo.Key != entry.StMintEntry.Feed {
			return reverts.ErrInvalidFeedAccount.Withf("have %v, want %v", feedInfo.Key, entry.StMintEntry.Feed)
		}
		feed, err := oracle.Parse(feedInfo)
		if err != nil {
			return err
		}
		if err := feed.CheckStaleness(e.slot()); err != nil {
			return err
		}
		if weight, err = feed.Weight(entry.StMintEntry.RewardMultiplierBps); err != nil {
			return err
		}
	}

	if err := table.SetWeight(mintInfo.Key, weight, e.slot()); err != nil {
		return err
	}
	e.ctx.Log("weight set", "mint", mintInfo.Key, "weight", weight)
	return account.Store(tableInfo, table)
}

func adminSetWeight(e *env) error {
	if err := e.Expect(4); err != nil {
		return err
	}
	var args instruction.AdminSetWeightArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	ncnInfo, tableInfo, mintInfo, adminInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

	table, err := e.loadWeightTable(tableInfo, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}
	if err := requireNcnAdmin(ncnInfo, adminInfo); err != nil {
		return err
	}
	if err := table.SetWeight(mintInfo.Key, args.Weight, e.slot()); err != nil {
		return err
	}
	e.ctx.Log("weight set by admin", "mint", mintInfo.Key, "weight", args.Weight)
	return account.Store(tableInfo, table)
}
