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
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

func init() {
	define(instruction.SelInitializeEpochSnapshot, initializeEpochSnapshot)
	define(instruction.SelInitializeOperatorSnapshot, initializeOperatorSnapshot)
	define(instruction.SelSnapshotVaultOperatorDelegation, snapshotVaultOperatorDelegation)
}

func (e *env) finalizedWeightTable(info *host.AccountInfo, ncn solana.PublicKey, epoch uint64) (*state.WeightTable, error) {
	table, err := e.loadWeightTable(info, ncn, epoch, false)
	if err != nil {
		return nil, err
	}
	if !table.IsFinalized() {
		return nil, reverts.ErrWeightTableNotFinalized.Withf("%d of %d weights set", table.WeightCount(), table.MintCount)
	}
	return table, nil
}

func initializeEpochSnapshot(e *env) error {
	if err := e.Expect(6); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	var (
		cfgInfo      = e.accounts[0]
		snapshotInfo = e.accounts[1]
		ncnInfo      = e.accounts[2]
		payerInfo    = e.accounts[3]
		systemInfo   = e.accounts[4]
		tableInfo    = e.accounts[5]
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
	ncn, err := restaking.LoadNcn(ncnInfo)
	if err != nil {
		return err
	}
	table, err := e.finalizedWeightTable(tableInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}

	snapshot := &state.EpochSnapshot{
		Ncn:           ncnInfo.Key,
		Epoch:         args.Epoch,
		SlotCreated:   e.slot(),
		SlotFinalized: tiprouter.NoSlot,
		OperatorCount: ncn.OperatorCount,
		VaultCount:    table.VaultCount,
		Fees:          *cfg.Fees.Current(args.Epoch),
	}
	if snapshot.IsComplete() {
		snapshot.SlotFinalized = e.slot()
	}
	return e.create(payerInfo, snapshotInfo, ncnInfo.Key, snapshot, state.EpochSnapshotSeeds(ncnInfo.Key, args.Epoch),
		func(bump uint8) error {
			snapshot.Bump = bump
			e.ctx.Log("epoch snapshot initialized", "epoch", args.Epoch, "operators", snapshot.OperatorCount)
			return nil
		})
}

func initializeOperatorSnapshot(e *env) error {
	if err := e.Expect(9); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	var (
		cfgInfo           = e.accounts[0]
		snapshotInfo      = e.accounts[1]
		ncnInfo           = e.accounts[2]
		payerInfo         = e.accounts[3]
		systemInfo        = e.accounts[4]
		operatorInfo      = e.accounts[5]
		stateInfo         = e.accounts[6]
		tableInfo         = e.accounts[7]
		epochSnapshotInfo = e.accounts[8]
	)
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	operator, err := restaking.LoadOperator(operatorInfo)
	if err != nil {
		return err
	}
	opState, err := restaking.LoadNcnOperatorState(stateInfo, ncnInfo.Key, operatorInfo.Key)
	if err != nil {
		return err
	}
	table, err := e.finalizedWeightTable(tableInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	epochSnapshot, err := e.loadEpochSnapshot(epochSnapshotInfo, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}
	if opState.Index >= epochSnapshot.OperatorCount {
		return reverts.ErrOperatorNotInNcn.Withf("index %d, snapshot holds %d operators", opState.Index, epochSnapshot.OperatorCount)
	}
	if epochSnapshot.IsComplete() {
		return reverts.ErrOperatorsRegisteredFull
	}

	active := opState.IsActive(e.slot())
	snapshot := &state.OperatorSnapshot{}
	seeds := state.OperatorSnapshotSeeds(operatorInfo.Key, ncnInfo.Key, args.Epoch)
	return e.create(payerInfo, snapshotInfo, ncnInfo.Key, snapshot, seeds, func(bump uint8) error {
		snapshot.Init(
			operatorInfo.Key, ncnInfo.Key,
			args.Epoch, e.slot(),
			bump,
			active,
			opState.Index, operator.Index,
			operator.OperatorFeeBps,
			table.VaultCount,
		)
		e.ctx.Log("operator snapshot initialized", "operator", operatorInfo.Key, "active", active)
		if !snapshot.IsFinalized() {
			return nil
		}
		// nothing to wait for, count the operator right away
		if err := epochSnapshot.RegisterOperator(snapshot, e.slot()); err != nil {
			return err
		}
		return account.Store(epochSnapshotInfo, epochSnapshot)
	})
}

func snapshotVaultOperatorDelegation(e *env) error {
	if err := e.Expect(9); err != nil {
		return err
	}
	var args instruction.EpochArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	var (
		cfgInfo              = e.accounts[0]
		ncnInfo              = e.accounts[1]
		operatorInfo         = e.accounts[2]
		vaultInfo            = e.accounts[3]
		ticketInfo           = e.accounts[4]
		delegationInfo       = e.accounts[5]
		tableInfo            = e.accounts[6]
		epochSnapshotInfo    = e.accounts[7]
		operatorSnapshotInfo = e.accounts[8]
	)
	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	if _, err := restaking.LoadOperator(operatorInfo); err != nil {
		return err
	}
	if _, err := restaking.LoadVault(vaultInfo); err != nil {
		return err
	}
	table, err := e.finalizedWeightTable(tableInfo, ncnInfo.Key, args.Epoch)
	if err != nil {
		return err
	}
	position, entry, err := table.Vault(vaultInfo.Key)
	if err != nil {
		return err
	}
	epochSnapshot, err := e.loadEpochSnapshot(epochSnapshotInfo, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}
	snapshot, err := e.loadOperatorSnapshot(operatorSnapshotInfo, operatorInfo.Key, ncnInfo.Key, args.Epoch, true)
	if err != nil {
		return err
	}

	amount, err := e.delegatedAmount(ncnInfo, operatorInfo, vaultInfo, ticketInfo, delegationInfo)
	if err != nil {
		return err
	}
	weight, err := table.Weight(entry.StMint)
	if err != nil {
		return err
	}
	stakeWeight, err := state.DelegationWeight(amount, weight)
	if err != nil {
		return err
	}

	if err := snapshot.RegisterDelegation(position, *entry, stakeWeight, e.slot()); err != nil {
		return err
	}
	e.ctx.Log("delegation registered", "operator", operatorInfo.Key, "vault", vaultInfo.Key, "stake_weight", stakeWeight)
	if snapshot.IsFinalized() {
		if err := epochSnapshot.RegisterOperator(snapshot, e.slot()); err != nil {
			return err
		}
		e.ctx.Log("operator snapshot finalized", "operator", operatorInfo.Key, "stake_weight", snapshot.StakeWeight)
		if err := account.Store(epochSnapshotInfo, epochSnapshot); err != nil {
			return err
		}
	}
	return account.Store(operatorSnapshotInfo, snapshot)
}

// delegatedAmount is the stake the vault delegates to the operator. A vault
// whose ticket is inactive, or a delegation that was never created, counts
// as zero.
func (e *env) delegatedAmount(ncnInfo, operatorInfo, vaultInfo, ticketInfo, delegationInfo *host.AccountInfo) (uint64, error) {
	ticket, err := restaking.LoadNcnVaultTicket(ticketInfo, ncnInfo.Key, vaultInfo.Key)
	if err != nil {
		return 0, err
	}
	if !ticket.State.IsActive(e.slot()) {
		return 0, nil
	}
	if delegationInfo.IsEmpty() {
		if delegationInfo.Key != restaking.FindVaultOperatorDelegationAddress(vaultInfo.Key, operatorInfo.Key) {
			return 0, reverts.ErrInvalidPDA.Withf("%v", delegationInfo.Key)
		}
		return 0, nil
	}
	delegation, err := restaking.LoadVaultOperatorDelegation(delegationInfo, vaultInfo.Key, operatorInfo.Key)
	if err != nil {
		return 0, err
	}
	return delegation.DelegatedAmount(), nil
}
