// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

func init() {
	define(instruction.SelInitializeConfig, initializeConfig)
	define(instruction.SelAdminSetParameters, adminSetParameters)
	define(instruction.SelAdminSetConfigFees, adminSetConfigFees)
	define(instruction.SelAdminSetNewAdmin, adminSetNewAdmin)
}

func initializeConfig(e *env) error {
	if err := e.Expect(10); err != nil {
		return err
	}
	var args instruction.InitializeConfigArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	var (
		cfgInfo    = e.accounts[0]
		ncnInfo    = e.accounts[1]
		daoWallet  = e.accounts[2]
		beWallet   = e.accounts[3]
		ncnWallet  = e.accounts[4]
		tieBreaker = e.accounts[5]
		feeAdmin   = e.accounts[6]
		adminInfo  = e.accounts[7]
		payerInfo  = e.accounts[8]
		systemInfo = e.accounts[9]
	)
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	if err := requireNcnAdmin(ncnInfo, adminInfo); err != nil {
		return err
	}
	if err := state.ValidateEpochsBeforeStall(args.EpochsBeforeStall); err != nil {
		return err
	}
	feeConfig, err := fees.New(
		daoWallet.Key, beWallet.Key, ncnWallet.Key,
		args.BlockEngineFeeBps, args.DaoFeeBps, args.DefaultNcnFeeBps,
		e.epoch(),
	)
	if err != nil {
		return err
	}

	cfg := &state.Config{
		Ncn:                ncnInfo.Key,
		TieBreakerAdmin:    tieBreaker.Key,
		FeeAdmin:           feeAdmin.Key,
		EpochsBeforeStall:  args.EpochsBeforeStall,
		StartingValidEpoch: e.epoch(),
		Fees:               *feeConfig,
	}
	return e.create(payerInfo, cfgInfo, ncnInfo.Key, cfg, state.ConfigSeeds(ncnInfo.Key), func(bump uint8) error {
		cfg.Bump = bump
		return nil
	})
}

func adminSetParameters(e *env) error {
	if err := e.Expect(3); err != nil {
		return err
	}
	var args instruction.AdminSetParametersArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, adminInfo := e.accounts[0], e.accounts[1], e.accounts[2]

	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, true)
	if err != nil {
		return err
	}
	if err := requireNcnAdmin(ncnInfo, adminInfo); err != nil {
		return err
	}
	if args.EpochsBeforeStall != nil {
		if err := state.ValidateEpochsBeforeStall(*args.EpochsBeforeStall); err != nil {
			return err
		}
		cfg.EpochsBeforeStall = *args.EpochsBeforeStall
	}
	if args.StartingValidEpoch != nil {
		cfg.StartingValidEpoch = *args.StartingValidEpoch
	}
	e.ctx.Log("parameters updated", "epochs_before_stall", cfg.EpochsBeforeStall,
		"starting_valid_epoch", cfg.StartingValidEpoch)
	return account.Store(cfgInfo, cfg)
}

func adminSetConfigFees(e *env) error {
	if err := e.Expect(3); err != nil {
		return err
	}
	var args instruction.AdminSetConfigFeesArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, feeAdmin := e.accounts[0], e.accounts[1], e.accounts[2]

	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, true)
	if err != nil {
		return err
	}
	if err := requireAuthority(feeAdmin, cfg.FeeAdmin, reverts.ErrIncorrectFeeAdmin); err != nil {
		return err
	}
	if err := cfg.Fees.Apply(fees.Update{
		BlockEngineFeeBps: args.NewBlockEngineFeeBps,
		DaoFeeBps:         args.NewDaoFeeBps,
		NcnFeeGroup:       args.NcnFeeGroup,
		NcnFeeBps:         args.NewNcnFeeBps,
		DaoFeeWallet:      args.NewDaoWallet,
	}, e.epoch()); err != nil {
		return err
	}
	e.ctx.Log("fees scheduled", "activation_epoch", e.epoch()+1)
	return account.Store(cfgInfo, cfg)
}

func adminSetNewAdmin(e *env) error {
	if err := e.Expect(4); err != nil {
		return err
	}
	var args instruction.AdminSetNewAdminArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, adminInfo, newAdmin := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, true)
	if err != nil {
		return err
	}
	if err := requireNcnAdmin(ncnInfo, adminInfo); err != nil {
		return err
	}
	if newAdmin.Key.IsZero() || newAdmin.Key == tiprouter.ProgramID {
		return reverts.ErrInvalidAccountData.Withf("admin %v", newAdmin.Key)
	}
	role := state.AdminRole(args.Role)
	if err := cfg.SetAdmin(role, newAdmin.Key); err != nil {
		return err
	}
	e.ctx.Log("admin updated", "role", args.Role, "admin", newAdmin.Key)
	return account.Store(cfgInfo, cfg)
}
