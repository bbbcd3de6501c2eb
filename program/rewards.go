// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/restaking"
)

func init() {
	define(instruction.SelInitializeEpochRewardRouter, initializeEpochRewardRouter)
	define(instruction.SelProcessRewardPool, processRewardPool)
	define(instruction.SelDistributeDaoRewards, distributeFeeBucket("dao"))
	define(instruction.SelDistributeBlockEngineRewards, distributeFeeBucket("block_engine"))
	define(instruction.SelDistributeNcnFeeRewards, distributeFeeBucket("ncn"))
	define(instruction.SelDistributeBaseRewards, distributeBaseRewards)
	define(instruction.SelInitializeBaseRewardRouter, func(e *env) error { return baseRewardRouterLifecycle(e, false) })
	define(instruction.SelReallocBaseRewardRouter, func(e *env) error { return baseRewardRouterLifecycle(e, true) })
	define(instruction.SelProcessBuckets, processBuckets)
	define(instruction.SelDistributeOperatorRewards, distributeOperatorRewards)
	define(instruction.SelInitializeOperatorRewardRouter, initializeOperatorRewardRouter)
	define(instruction.SelProcessOperatorRewards, processOperatorRewards)
	define(instruction.SelDistributeOperatorFeeRewards, distributeOperatorFeeRewards)
	define(instruction.SelDistributeVaultRewards, distributeVaultRewards)
}

func (e *env) loadEpochRewardRouter(info *host.AccountInfo, ncn solana.PublicKey, epoch uint64) (*state.EpochRewardRouter, error) {
	return load[state.EpochRewardRouter](e, info, true, state.EpochRewardRouterSeeds(ncn, epoch))
}

func (e *env) loadBaseRewardRouter(info *host.AccountInfo, ncn solana.PublicKey, epoch uint64) (*state.BaseRewardRouter, error) {
	return load[state.BaseRewardRouter](e, info, true, state.BaseRewardRouterSeeds(ncn, epoch))
}

func (e *env) loadOperatorRewardRouter(info *host.AccountInfo, operator, ncn solana.PublicKey, epoch uint64) (*state.OperatorRewardRouter, error) {
	return load[state.OperatorRewardRouter](e, info, true, state.OperatorRewardRouterSeeds(operator, ncn, epoch))
}

// payout stores the router and moves amount to the destination.
func (e *env) payout(bucket string, routerInfo *host.AccountInfo, router account.Body, to *host.AccountInfo, amount uint64) error {
	if amount == 0 {
		e.ctx.Log("nothing to distribute", "bucket", bucket)
		return nil
	}
	if err := account.Store(routerInfo, router); err != nil {
		return err
	}
	if err := transfer(routerInfo, to, amount); err != nil {
		return err
	}
	e.ctx.Log("rewards distributed", "bucket", bucket, "to", to.Key, "lamports", amount)
	metricDistributed().AddWithLabel(int64(amount), map[string]string{"bucket": bucket})
	return nil
}

func (e *env) routerAccounts(n int) (cfgInfo, ncnInfo *host.AccountInfo, epoch uint64, err error) {
	if err := e.Expect(n); err != nil {
		return nil, nil, 0, err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return nil, nil, 0, err
	}
	return e.accounts[0], e.accounts[2], args.Epoch, nil
}

func initializeEpochRewardRouter(e *env) error {
	cfgInfo, ncnInfo, epoch, err := e.routerAccounts(5)
	if err != nil {
		return err
	}
	routerInfo, payerInfo, systemInfo := e.accounts[1], e.accounts[3], e.accounts[4]
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
	if err != nil {
		return err
	}
	if err := e.checkEpoch(cfg, epoch); err != nil {
		return err
	}
	router := &state.EpochRewardRouter{Ncn: ncnInfo.Key, Epoch: epoch, SlotCreated: e.slot()}
	return e.create(payerInfo, routerInfo, ncnInfo.Key, router, state.EpochRewardRouterSeeds(ncnInfo.Key, epoch),
		func(bump uint8) error {
			router.Bump = bump
			return nil
		})
}

func processRewardPool(e *env) error {
	if err := e.Expect(4); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	ncnInfo, snapshotInfo, boxInfo, routerInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

	snapshot, err := e.loadEpochSnapshot(snapshotInfo, ncnInfo.Key, args.Epoch, false)
	if err != nil {
		return err
	}
	box, err := e.loadBallotBox(boxInfo, ncnInfo.Key, args.Epoch, false)
	if err != nil {
		return err
	}
	if !box.HasWinningBallot() {
		return reverts.ErrConsensusNotReached
	}
	router, err := e.loadEpochRewardRouter(routerInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	incoming, err := router.Reconcile(routerInfo.Lamports, e.rentExempt(routerInfo))
	if err != nil {
		return err
	}
	if err := router.Route(&snapshot.Fees); err != nil {
		return err
	}
	e.ctx.Log("reward pool processed", "incoming", incoming, "operator_pool", router.OperatorPool)
	return account.Store(routerInfo, router)
}

func distributeFeeBucket(bucket string) handler {
	return func(e *env) error {
		if err := e.Expect(4); err != nil {
			return err
		}
		var (
			epoch uint64
			group uint8
		)
		if bucket == "ncn" {
			var args instruction.DistributeNcnFeeRewardsArgs
			if err := e.Args(&args); err != nil {
				return err
			}
			epoch, group = args.Epoch, args.NcnFeeGroup
		} else {
			var args instruction.EpochArgs
			if err := e.Args(&args); err != nil {
				return err
			}
			epoch = args.Epoch
		}
		cfgInfo, ncnInfo, routerInfo, walletInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

		cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
		if err != nil {
			return err
		}
		var wallet solana.PublicKey
		switch bucket {
		case "dao":
			wallet = cfg.Fees.DaoFeeWallet
		case "block_engine":
			wallet = cfg.Fees.BlockEngineFeeWallet
		default:
			wallet = cfg.Fees.NcnFeeWallet
		}
		if walletInfo.Key != wallet {
			return reverts.ErrInvalidDestination.Withf("have %v, want %v", walletInfo.Key, wallet)
		}
		router, err := e.loadEpochRewardRouter(routerInfo, ncnInfo.Key, epoch)
		if err != nil {
			return err
		}

		lamports, rent := routerInfo.Lamports, e.rentExempt(routerInfo)
		var amount uint64
		switch bucket {
		case "dao":
			amount, err = router.PayDao(lamports, rent)
		case "block_engine":
			amount, err = router.PayBlockEngine(lamports, rent)
		default:
			amount, err = router.PayNcnFeeGroup(group, lamports, rent)
		}
		if err != nil {
			return err
		}
		return e.payout(bucket, routerInfo, router, walletInfo, amount)
	}
}

func distributeBaseRewards(e *env) error {
	if err := e.Expect(4); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, routerInfo, baseInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	router, err := e.loadEpochRewardRouter(routerInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	// the destination must be the initialized base router of the epoch
	if _, err := e.loadBaseRewardRouter(baseInfo, ncnInfo.Key, args.Epoch); err != nil {
		return reverts.ErrInvalidDestination.Withf("%v", err)
	}
	amount, err := router.PayOperatorPool(routerInfo.Lamports, e.rentExempt(routerInfo))
	if err != nil {
		return err
	}
	return e.payout("base", routerInfo, router, baseInfo, amount)
}

func baseRewardRouterLifecycle(e *env, realloc bool) error {
	cfgInfo, ncnInfo, epoch, err := e.routerAccounts(5)
	if err != nil {
		return err
	}
	routerInfo, payerInfo, systemInfo := e.accounts[1], e.accounts[3], e.accounts[4]
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
	if err != nil {
		return err
	}
	if err := e.checkEpoch(cfg, epoch); err != nil {
		return err
	}

	router := &state.BaseRewardRouter{}
	initBody := func(bump uint8) error {
		*router = state.BaseRewardRouter{Ncn: ncnInfo.Key, Epoch: epoch, SlotCreated: e.slot(), Bump: bump}
		return nil
	}
	seeds := state.BaseRewardRouterSeeds(ncnInfo.Key, epoch)
	if realloc {
		return e.grow(payerInfo, routerInfo, ncnInfo.Key, router, seeds, initBody)
	}
	return e.create(payerInfo, routerInfo, ncnInfo.Key, router, seeds, initBody)
}

func processBuckets(e *env) error {
	if err := e.Expect(3); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	ncnInfo, boxInfo, routerInfo := e.accounts[0], e.accounts[1], e.accounts[2]

	box, err := e.loadBallotBox(boxInfo, ncnInfo.Key, args.Epoch, false)
	if err != nil {
		return err
	}
	router, err := e.loadBaseRewardRouter(routerInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	incoming, err := router.Reconcile(routerInfo.Lamports, e.rentExempt(routerInfo))
	if err != nil {
		return err
	}
	if err := router.ProcessBuckets(box); err != nil {
		return err
	}
	e.ctx.Log("buckets processed", "incoming", incoming, "left", router.Pool.RewardPool)
	return account.Store(routerInfo, router)
}

func distributeOperatorRewards(e *env) error {
	if err := e.Expect(5); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, operatorInfo, baseInfo, operatorRouterInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3], e.accounts[4]

	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	if _, err := restaking.LoadOperator(operatorInfo); err != nil {
		return err
	}
	base, err := e.loadBaseRewardRouter(baseInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	if _, err := e.loadOperatorRewardRouter(operatorRouterInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch); err != nil {
		return reverts.ErrInvalidDestination.Withf("%v", err)
	}
	amount, err := base.PayOperator(operatorInfo.Key, baseInfo.Lamports, e.rentExempt(baseInfo))
	if err != nil {
		return err
	}
	return e.payout("operator", baseInfo, base, operatorRouterInfo, amount)
}

func initializeOperatorRewardRouter(e *env) error {
	cfgInfo, ncnInfo, epoch, err := e.routerAccounts(6)
	if err != nil {
		return err
	}
	routerInfo, payerInfo, systemInfo, operatorInfo := e.accounts[1], e.accounts[3], e.accounts[4], e.accounts[5]
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
	if err != nil {
		return err
	}
	if err := e.checkEpoch(cfg, epoch); err != nil {
		return err
	}
	if _, err := restaking.LoadOperator(operatorInfo); err != nil {
		return err
	}
	router := &state.OperatorRewardRouter{
		Operator:    operatorInfo.Key,
		Ncn:         ncnInfo.Key,
		Epoch:       epoch,
		SlotCreated: e.slot(),
	}
	seeds := state.OperatorRewardRouterSeeds(operatorInfo.Key, ncnInfo.Key, epoch)
	return e.create(payerInfo, routerInfo, ncnInfo.Key, router, seeds, func(bump uint8) error {
		router.Bump = bump
		return nil
	})
}

func processOperatorRewards(e *env) error {
	if err := e.Expect(4); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	ncnInfo, operatorInfo, snapshotInfo, routerInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

	snapshot, err := e.loadOperatorSnapshot(snapshotInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch, false)
	if err != nil {
		return err
	}
	router, err := e.loadOperatorRewardRouter(routerInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	incoming, err := router.Reconcile(routerInfo.Lamports, e.rentExempt(routerInfo))
	if err != nil {
		return err
	}
	if err := router.ProcessRewards(snapshot); err != nil {
		return err
	}
	e.ctx.Log("operator rewards processed", "operator", operatorInfo.Key, "incoming", incoming,
		"operator_fee", router.OperatorFeeRewards)
	return account.Store(routerInfo, router)
}

func distributeOperatorFeeRewards(e *env) error {
	if err := e.Expect(5); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, operatorInfo, routerInfo, walletInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3], e.accounts[4]

	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	operator, err := restaking.LoadOperator(operatorInfo)
	if err != nil {
		return err
	}
	if walletInfo.Key != operator.FeeWallet {
		return reverts.ErrInvalidDestination.Withf("have %v, want %v", walletInfo.Key, operator.FeeWallet)
	}
	router, err := e.loadOperatorRewardRouter(routerInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	amount, err := router.PayOperatorFee(routerInfo.Lamports, e.rentExempt(routerInfo))
	if err != nil {
		return err
	}
	return e.payout("operator_fee", routerInfo, router, walletInfo, amount)
}

func distributeVaultRewards(e *env) error {
	if err := e.Expect(5); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, ncnInfo, operatorInfo, routerInfo, vaultInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3], e.accounts[4]

	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	if _, err := restaking.LoadVault(vaultInfo); err != nil {
		return reverts.ErrInvalidDestination.Withf("%v", err)
	}
	router, err := e.loadOperatorRewardRouter(routerInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	amount, err := router.PayVault(vaultInfo.Key, routerInfo.Lamports, e.rentExempt(routerInfo))
	if err != nil {
		return err
	}
	return e.payout("vault", routerInfo, router, vaultInfo, amount)
}
