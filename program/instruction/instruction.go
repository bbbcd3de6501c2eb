// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package instruction defines the wire format of tip router instructions: a
// one byte selector followed by Borsh encoded arguments.
package instruction

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// Selector identifies an instruction.
type Selector uint8

const (
	SelInitializeConfig Selector = iota
	SelAdminSetParameters
	SelAdminSetConfigFees
	SelAdminSetNewAdmin
	SelInitializeVaultRegistry
	SelReallocVaultRegistry
	SelAdminRegisterStMint
	SelAdminSetStMint
	SelRegisterVault
	SelInitializeWeightTable
	SelReallocWeightTable
	SelSetWeight
	SelAdminSetWeight
	SelInitializeEpochSnapshot
	SelInitializeOperatorSnapshot
	SelSnapshotVaultOperatorDelegation
	SelInitializeBallotBox
	SelReallocBallotBox
	SelCastVote
	SelChangeVote
	SelSetTieBreaker
	SelInitializeEpochRewardRouter
	SelProcessRewardPool
	SelDistributeDaoRewards
	SelDistributeBlockEngineRewards
	SelDistributeNcnFeeRewards
	SelDistributeBaseRewards
	SelInitializeBaseRewardRouter
	SelReallocBaseRewardRouter
	SelProcessBuckets
	SelDistributeOperatorRewards
	SelInitializeOperatorRewardRouter
	SelProcessOperatorRewards
	SelDistributeOperatorFeeRewards
	SelDistributeVaultRewards

	selectorCount
)

var selectorNames = [...]string{
	"InitializeConfig",
	"AdminSetParameters",
	"AdminSetConfigFees",
	"AdminSetNewAdmin",
	"InitializeVaultRegistry",
	"ReallocVaultRegistry",
	"AdminRegisterStMint",
	"AdminSetStMint",
	"RegisterVault",
	"InitializeWeightTable",
	"ReallocWeightTable",
	"SetWeight",
	"AdminSetWeight",
	"InitializeEpochSnapshot",
	"InitializeOperatorSnapshot",
	"SnapshotVaultOperatorDelegation",
	"InitializeBallotBox",
	"ReallocBallotBox",
	"CastVote",
	"ChangeVote",
	"SetTieBreaker",
	"InitializeEpochRewardRouter",
	"ProcessRewardPool",
	"DistributeDaoRewards",
	"DistributeBlockEngineRewards",
	"DistributeNcnFeeRewards",
	"DistributeBaseRewards",
	"InitializeBaseRewardRouter",
	"ReallocBaseRewardRouter",
	"ProcessBuckets",
	"DistributeOperatorRewards",
	"InitializeOperatorRewardRouter",
	"ProcessOperatorRewards",
	"DistributeOperatorFeeRewards",
	"DistributeVaultRewards",
}

func (s Selector) String() string {
	if s < selectorCount {
		return selectorNames[s]
	}
	return fmt.Sprintf("Selector(%d)", uint8(s))
}

type InitializeConfigArgs struct {
	BlockEngineFeeBps uint16
	DaoFeeBps         uint16
	DefaultNcnFeeBps  uint16
	EpochsBeforeStall uint64
}

type AdminSetParametersArgs struct {
	EpochsBeforeStall  *uint64 `bin:"optional"`
	StartingValidEpoch *uint64 `bin:"optional"`
}

type AdminSetConfigFeesArgs struct {
	NewBlockEngineFeeBps *uint16           `bin:"optional"`
	NewDaoFeeBps         *uint16           `bin:"optional"`
	NcnFeeGroup          *uint8            `bin:"optional"`
	NewNcnFeeBps         *uint16           `bin:"optional"`
	NewDaoWallet         *solana.PublicKey `bin:"optional"`
}

type AdminSetNewAdminArgs struct {
	Role uint8
}

type AdminRegisterStMintArgs struct {
	NcnFeeGroup         uint8
	RewardMultiplierBps uint64
	Feed                *solana.PublicKey `bin:"optional"`
	NoFeedWeight        *uint64           `bin:"optional"`
}

type AdminSetStMintArgs struct {
	NcnFeeGroup         *uint8            `bin:"optional"`
	RewardMultiplierBps *uint64           `bin:"optional"`
	Feed                *solana.PublicKey `bin:"optional"`
	NoFeedWeight        *uint64           `bin:"optional"`
}

// EpochArgs carries the epoch an instruction is scoped to.
type EpochArgs struct {
	Epoch uint64
}

type AdminSetWeightArgs struct {
	Epoch  uint64
	Weight uint64
}

type VoteArgs struct {
	Epoch         uint64
	MerkleRoot    tiprouter.Bytes32
	MaxTotalClaim uint64
	MaxNumNodes   uint64
}

type SetTieBreakerArgs struct {
	Epoch      uint64
	MerkleRoot tiprouter.Bytes32
}

type DistributeNcnFeeRewardsArgs struct {
	Epoch       uint64
	NcnFeeGroup uint8
}

// Encode serializes an instruction payload.
func Encode(sel Selector, args any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(sel))
	if args != nil {
		if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Split separates the selector from the argument bytes.
func Split(data []byte) (Selector, []byte, error) {
	if len(data) == 0 {
		return 0, nil, reverts.ErrInvalidInstructionData.Withf("empty")
	}
	sel := Selector(data[0])
	if sel >= selectorCount {
		return 0, nil, reverts.ErrInvalidInstructionData.Withf("unknown selector %d", data[0])
	}
	return sel, data[1:], nil
}

// DecodeArgs decodes the argument bytes into args.
func DecodeArgs(payload []byte, args any) error {
	if err := bin.NewBorshDecoder(payload).Decode(args); err != nil {
		return reverts.ErrInvalidInstructionData.Withf("%v", err)
	}
	return nil
}
