// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/safemath"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// EpochSnapshot aggregates the stake of every operator of the ncn for an epoch.
type EpochSnapshot struct {
	Ncn                           solana.PublicKey
	Epoch                         uint64
	SlotCreated                   uint64
	SlotFinalized                 uint64
	OperatorCount                 uint64
	VaultCount                    uint64
	OperatorsRegistered           uint64
	ValidOperatorVaultDelegations uint64
	StakeWeight                   uint64
	Fees                          fees.Fees
	Bump                          uint8
	Reserved                      [127]byte
}

func (*EpochSnapshot) Discriminator() uint8 { return DiscriminatorEpochSnapshot }

// IsComplete reports whether every operator registered.
func (s *EpochSnapshot) IsComplete() bool {
	return s.OperatorsRegistered == s.OperatorCount
}

// RegisterOperator folds a finalized operator snapshot into the totals.
func (s *EpochSnapshot) RegisterOperator(op *OperatorSnapshot, slot uint64) error {
	if s.IsComplete() {
		return reverts.ErrOperatorsRegisteredFull
	}
	stake, err := safemath.Add(s.StakeWeight, op.StakeWeight)
	if err != nil {
		return err
	}
	valid, err := safemath.Add(s.ValidOperatorVaultDelegations, op.ValidOperatorVaultDelegations)
	if err != nil {
		return err
	}
	s.StakeWeight = stake
	s.ValidOperatorVaultDelegations = valid
	s.OperatorsRegistered++
	if s.IsComplete() {
		s.SlotFinalized = slot
	}
	return nil
}

// VaultOperatorStakeWeight is the stake one vault delegates to the operator.
type VaultOperatorStakeWeight struct {
	Vault       solana.PublicKey
	StMint      solana.PublicKey
	VaultIndex  uint64
	StakeWeight uint64
	IsSet       bool
	Reserved    [15]byte
}

// OperatorSnapshot accumulates an operator's stake, one slot per vault of
// the weight table.
type OperatorSnapshot struct {
	Operator                           solana.PublicKey
	Ncn                                solana.PublicKey
	Epoch                              uint64
	SlotCreated                        uint64
	SlotFinalized                      uint64
	IsActive                           bool
	NcnOperatorIndex                   uint64
	OperatorIndex                      uint64
	OperatorFeeBps                     uint16
	VaultOperatorDelegationCount       uint64
	VaultOperatorDelegationsRegistered uint64
	ValidOperatorVaultDelegations      uint64
	StakeWeight                        uint64
	Bump                               uint8
	Reserved                           [127]byte
	Delegations                        [tiprouter.MaxVaults]VaultOperatorStakeWeight
}

func (*OperatorSnapshot) Discriminator() uint8 { return DiscriminatorOperatorSnapshot }

// IsFinalized reports whether every expected delegation registered.
func (s *OperatorSnapshot) IsFinalized() bool {
	return s.VaultOperatorDelegationsRegistered == s.VaultOperatorDelegationCount
}

// Init sets up the snapshot. An inactive operator expects no delegations
// and is final at once.
func (s *OperatorSnapshot) Init(
	operator, ncn solana.PublicKey,
	epoch, slot uint64,
	bump uint8,
	active bool,
	ncnOperatorIndex, operatorIndex uint64,
	operatorFeeBps uint16,
	vaultCount uint64,
) {
	*s = OperatorSnapshot{
		Operator:         operator,
		Ncn:              ncn,
		Epoch:            epoch,
		SlotCreated:      slot,
		SlotFinalized:    tiprouter.NoSlot,
		IsActive:         active,
		NcnOperatorIndex: ncnOperatorIndex,
		OperatorIndex:    operatorIndex,
		OperatorFeeBps:   operatorFeeBps,
		Bump:             bump,
	}
	if active {
		s.VaultOperatorDelegationCount = vaultCount
	}
	if s.IsFinalized() {
		s.SlotFinalized = slot
	}
}

// DelegationWeight is amount * weight / WeightPrecision.
func DelegationWeight(amount, weight uint64) (uint64, error) {
	return safemath.MulDiv(amount, weight, tiprouter.WeightPrecision)
}

// RegisterDelegation records the stake weight of the vault at position slot
// of the weight table vault list. Each position registers once.
func (s *OperatorSnapshot) RegisterDelegation(
	position int,
	vault VaultEntry,
	stakeWeight uint64,
	slot uint64,
) error {
	if position < 0 || position >= len(s.Delegations) {
		return reverts.ErrVaultNotRegistered.Withf("position %d", position)
	}
	d := &s.Delegations[position]
	if d.IsSet {
		return reverts.ErrDuplicateDelegation.Withf("vault %v", vault.Vault)
	}
	if s.IsFinalized() {
		return reverts.ErrOperatorSnapshotFinalized
	}

	total, err := safemath.Add(s.StakeWeight, stakeWeight)
	if err != nil {
		return err
	}

	*d = VaultOperatorStakeWeight{
		Vault:       vault.Vault,
		StMint:      vault.StMint,
		VaultIndex:  vault.VaultIndex,
		StakeWeight: stakeWeight,
		IsSet:       true,
	}
	s.StakeWeight = total
	if stakeWeight > 0 {
		s.ValidOperatorVaultDelegations++
	}
	s.VaultOperatorDelegationsRegistered++
	if s.IsFinalized() {
		s.SlotFinalized = slot
	}
	return nil
}
