// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"strconv"

	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/restaking"
)

func init() {
	define(instruction.SelInitializeBallotBox, func(e *env) error { return ballotBoxLifecycle(e, false) })
	define(instruction.SelReallocBallotBox, func(e *env) error { return ballotBoxLifecycle(e, true) })
	define(instruction.SelCastVote, func(e *env) error { return vote(e, false) })
	define(instruction.SelChangeVote, func(e *env) error { return vote(e, true) })
	define(instruction.SelSetTieBreaker, setTieBreaker)
}

func ballotBoxLifecycle(e *env, realloc bool) error {
	if err := e.Expect(5); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, boxInfo, ncnInfo, payerInfo, systemInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3], e.accounts[4]
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

	box := &state.BallotBox{}
	initBody := func(bump uint8) error {
		box.Init(ncnInfo.Key, args.Epoch, e.slot(), bump)
		e.ctx.Log("ballot box initialized", "epoch", args.Epoch)
		return nil
	}
	seeds := state.BallotBoxSeeds(ncnInfo.Key, args.Epoch)
	if realloc {
		return e.grow(payerInfo, boxInfo, ncnInfo.Key, box, seeds, initBody)
	}
	return e.create(payerInfo, boxInfo, ncnInfo.Key, box, seeds, initBody)
}

func vote(e *env, change bool) error {
	if err := e.Expect(7); err != nil {
		return err
	}
	var args instruction.VoteArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	var (
		cfgInfo              = e.accounts[0]
		boxInfo              = e.accounts[1]
		ncnInfo              = e.accounts[2]
		epochSnapshotInfo    = e.accounts[3]
		operatorSnapshotInfo = e.accounts[4]
		operatorInfo         = e.accounts[5]
		voterInfo            = e.accounts[6]
	)
	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
	if err != nil {
		return err
	}
	operator, err := restaking.LoadOperator(operatorInfo)
	if err != nil {
		return err
	}
	if err := requireAuthority(voterInfo, operator.Voter, reverts.ErrInvalidVoter); err != nil {
		return err
	}
	epochSnapshot, err := e.loadEpochSnapshot(epochSnapshotInfo, ncnInfo.Key, args.Epoch, false)
	if err != nil {
		return err
	}
	if !epochSnapshot.IsComplete() {
		return reverts.ErrEpochSnapshotNotComplete.Withf("%d of %d operators registered",
			epochSnapshot.OperatorsRegistered, epochSnapshot.OperatorCount)
	}
	operatorSnapshot, err := e.loadOperatorSnapshot(operatorSnapshotInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch, false)
	if err != nil {
		return err
	}
	box, err := e.loadBallotBox(boxInfo, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}
	if box.HasWinningBallot() {
		return reverts.ErrConsensusAlreadyReached
	}
	if box.IsVotingStalled(e.epoch(), cfg.EpochsBeforeStall) {
		return reverts.ErrVotingStalled.Withf("epoch %d", e.epoch())
	}

	ballot := state.NewBallot(args.MerkleRoot, args.MaxTotalClaim, args.MaxNumNodes)
	if change {
		err = box.ChangeVote(operatorInfo.Key, ballot, e.slot())
	} else {
		err = box.CastVote(operatorInfo.Key, ballot, operatorSnapshot.StakeWeight, e.slot())
	}
	if err != nil {
		return err
	}
	e.ctx.Log("vote recorded", "operator", operatorInfo.Key, "root", args.MerkleRoot, "stake_weight", operatorSnapshot.StakeWeight)

	if box.TallyVotes(epochSnapshot.StakeWeight, ballot, e.slot()) {
		e.ctx.Log("consensus reached", "root", args.MerkleRoot, "slot", e.slot())
		logger.Info("consensus reached", "ncn", ncnInfo.Key, "epoch", args.Epoch, "root", args.MerkleRoot)
		metricConsensus().SetWithLabel(1, map[string]string{
			"ncn":   ncnInfo.Key.String(),
			"epoch": strconv.FormatUint(args.Epoch, 10),
		})
	}
	return account.Store(boxInfo, box)
}

func setTieBreaker(e *env) error {
	if err := e.Expect(4); err != nil {
		return err
	}
	var args instruction.SetTieBreakerArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	cfgInfo, boxInfo, ncnInfo, adminInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3]

	cfg, err := e.loadConfig(cfgInfo, ncnInfo.Key, false)
	if err != nil {
		return err
	}
	if err := requireAuthority(adminInfo, cfg.TieBreakerAdmin, reverts.ErrIncorrectTieBreakerAdmin); err != nil {
		return err
	}
	box, err := e.loadBallotBox(boxInfo, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}
	if err := box.SetTieBreaker(args.MerkleRoot, e.epoch(), cfg.EpochsBeforeStall); err != nil {
		return err
	}
	e.ctx.Log("tie breaker set", "root", args.MerkleRoot)
	logger.Info("tie breaker set", "ncn", ncnInfo.Key, "epoch", args.Epoch, "root", args.MerkleRoot)
	return account.Store(boxInfo, box)
}
