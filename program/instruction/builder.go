// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/restaking"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// Builder creates instructions for one ncn. Program addresses are derived
// from the program id and the ncn.
type Builder struct {
	programID solana.PublicKey
	ncn       solana.PublicKey
}

// NewBuilder creates a builder for the ncn under programID.
func NewBuilder(programID, ncn solana.PublicKey) *Builder {
	return &Builder{programID: programID, ncn: ncn}
}

// Addresses returns the program addresses of epoch.
func (b *Builder) Addresses(epoch uint64) state.Addresses {
	return state.NewAddresses(b.programID, b.ncn, epoch)
}

func (b *Builder) build(sel Selector, args any, metas ...*solana.AccountMeta) solana.Instruction {
	data, err := Encode(sel, args)
	if err != nil {
		// argument layouts are fixed
		panic(err)
	}
	return solana.NewInstruction(b.programID, metas, data)
}

func ro(key solana.PublicKey) *solana.AccountMeta { return solana.Meta(key) }

func rw(key solana.PublicKey) *solana.AccountMeta { return solana.Meta(key).WRITE() }

func signer(key solana.PublicKey) *solana.AccountMeta { return solana.Meta(key).SIGNER() }

func (b *Builder) ncnMeta() *solana.AccountMeta { return ro(b.ncn) }

func system() *solana.AccountMeta { return ro(solana.SystemProgramID) }

// FeeWallets are the recipients of the fee buckets.
type FeeWallets struct {
	Dao         solana.PublicKey
	BlockEngine solana.PublicKey
	Ncn         solana.PublicKey
}

func (b *Builder) InitializeConfig(
	ncnAdmin, tieBreakerAdmin, feeAdmin solana.PublicKey,
	wallets FeeWallets,
	args InitializeConfigArgs,
) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelInitializeConfig, &args,
		rw(a.Config()),
		b.ncnMeta(),
		ro(wallets.Dao),
		ro(wallets.BlockEngine),
		ro(wallets.Ncn),
		ro(tieBreakerAdmin),
		ro(feeAdmin),
		signer(ncnAdmin),
		rw(a.AccountPayer()),
		system(),
	)
}

func (b *Builder) AdminSetParameters(ncnAdmin solana.PublicKey, args AdminSetParametersArgs) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelAdminSetParameters, &args, rw(a.Config()), b.ncnMeta(), signer(ncnAdmin))
}

func (b *Builder) AdminSetConfigFees(feeAdmin solana.PublicKey, args AdminSetConfigFeesArgs) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelAdminSetConfigFees, &args, rw(a.Config()), b.ncnMeta(), signer(feeAdmin))
}

func (b *Builder) AdminSetNewAdmin(ncnAdmin, newAdmin solana.PublicKey, role state.AdminRole) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelAdminSetNewAdmin, &AdminSetNewAdminArgs{Role: uint8(role)},
		rw(a.Config()), b.ncnMeta(), signer(ncnAdmin), ro(newAdmin))
}

func (b *Builder) payerAccounts(target solana.PublicKey) []*solana.AccountMeta {
	a := b.Addresses(0)
	return []*solana.AccountMeta{ro(a.Config()), rw(target), b.ncnMeta(), rw(a.AccountPayer()), system()}
}

func (b *Builder) InitializeVaultRegistry() solana.Instruction {
	return b.build(SelInitializeVaultRegistry, nil, b.payerAccounts(b.Addresses(0).VaultRegistry())...)
}

func (b *Builder) ReallocVaultRegistry() solana.Instruction {
	return b.build(SelReallocVaultRegistry, nil, b.payerAccounts(b.Addresses(0).VaultRegistry())...)
}

func (b *Builder) AdminRegisterStMint(ncnAdmin, mint solana.PublicKey, args AdminRegisterStMintArgs) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelAdminRegisterStMint, &args,
		ro(a.Config()), rw(a.VaultRegistry()), b.ncnMeta(), ro(mint), signer(ncnAdmin))
}

func (b *Builder) AdminSetStMint(ncnAdmin, mint solana.PublicKey, args AdminSetStMintArgs) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelAdminSetStMint, &args,
		ro(a.Config()), rw(a.VaultRegistry()), b.ncnMeta(), ro(mint), signer(ncnAdmin))
}

func (b *Builder) RegisterVault(vault solana.PublicKey) solana.Instruction {
	a := b.Addresses(0)
	return b.build(SelRegisterVault, nil,
		ro(a.Config()), rw(a.VaultRegistry()), b.ncnMeta(), ro(vault),
		ro(restaking.FindNcnVaultTicketAddress(b.ncn, vault)))
}

func (b *Builder) weightTableAccounts(epoch uint64) []*solana.AccountMeta {
	a := b.Addresses(epoch)
	return []*solana.AccountMeta{
		ro(a.Config()), rw(a.WeightTable()), b.ncnMeta(), rw(a.AccountPayer()), system(), ro(a.VaultRegistry()),
	}
}

func (b *Builder) InitializeWeightTable(epoch uint64) solana.Instruction {
	return b.build(SelInitializeWeightTable, &EpochArgs{epoch}, b.weightTableAccounts(epoch)...)
}

func (b *Builder) ReallocWeightTable(epoch uint64) solana.Instruction {
	return b.build(SelReallocWeightTable, &EpochArgs{epoch}, b.weightTableAccounts(epoch)...)
}

// SetWeight sets the weight of mint from its feed, or from the registry
// default when feed is the zero key.
func (b *Builder) SetWeight(epoch uint64, mint, feed solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	metas := []*solana.AccountMeta{b.ncnMeta(), rw(a.WeightTable()), ro(mint)}
	if !feed.IsZero() {
		metas = append(metas, ro(feed))
	}
	return b.build(SelSetWeight, &EpochArgs{epoch}, metas...)
}

func (b *Builder) AdminSetWeight(epoch uint64, ncnAdmin, mint solana.PublicKey, weight uint64) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelAdminSetWeight, &AdminSetWeightArgs{Epoch: epoch, Weight: weight},
		b.ncnMeta(), rw(a.WeightTable()), ro(mint), signer(ncnAdmin))
}

func (b *Builder) InitializeEpochSnapshot(epoch uint64) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelInitializeEpochSnapshot, &EpochArgs{epoch},
		ro(a.Config()), rw(a.EpochSnapshot()), b.ncnMeta(), rw(a.AccountPayer()), system(), ro(a.WeightTable()))
}

func (b *Builder) InitializeOperatorSnapshot(epoch uint64, operator solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelInitializeOperatorSnapshot, &EpochArgs{epoch},
		ro(a.Config()), rw(a.OperatorSnapshot(operator)), b.ncnMeta(), rw(a.AccountPayer()), system(),
		ro(operator),
		ro(restaking.FindNcnOperatorStateAddress(b.ncn, operator)),
		ro(a.WeightTable()),
		rw(a.EpochSnapshot()),
	)
}

func (b *Builder) SnapshotVaultOperatorDelegation(epoch uint64, operator, vault solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelSnapshotVaultOperatorDelegation, &EpochArgs{epoch},
		ro(a.Config()),
		b.ncnMeta(),
		ro(operator),
		ro(vault),
		ro(restaking.FindNcnVaultTicketAddress(b.ncn, vault)),
		ro(restaking.FindVaultOperatorDelegationAddress(vault, operator)),
		ro(a.WeightTable()),
		rw(a.EpochSnapshot()),
		rw(a.OperatorSnapshot(operator)),
	)
}

func (b *Builder) ballotBoxAccounts(epoch uint64) []*solana.AccountMeta {
	a := b.Addresses(epoch)
	return []*solana.AccountMeta{ro(a.Config()), rw(a.BallotBox()), b.ncnMeta(), rw(a.AccountPayer()), system()}
}

func (b *Builder) InitializeBallotBox(epoch uint64) solana.Instruction {
	return b.build(SelInitializeBallotBox, &EpochArgs{epoch}, b.ballotBoxAccounts(epoch)...)
}

func (b *Builder) ReallocBallotBox(epoch uint64) solana.Instruction {
	return b.build(SelReallocBallotBox, &EpochArgs{epoch}, b.ballotBoxAccounts(epoch)...)
}

func (b *Builder) vote(sel Selector, epoch uint64, operator, voter solana.PublicKey, ballot state.Ballot) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(sel, &VoteArgs{
		Epoch:         epoch,
		MerkleRoot:    ballot.MerkleRoot,
		MaxTotalClaim: ballot.MaxTotalClaim,
		MaxNumNodes:   ballot.MaxNumNodes,
	},
		ro(a.Config()),
		rw(a.BallotBox()),
		b.ncnMeta(),
		ro(a.EpochSnapshot()),
		ro(a.OperatorSnapshot(operator)),
		ro(operator),
		signer(voter),
	)
}

func (b *Builder) CastVote(epoch uint64, operator, voter solana.PublicKey, ballot state.Ballot) solana.Instruction {
	return b.vote(SelCastVote, epoch, operator, voter, ballot)
}

func (b *Builder) ChangeVote(epoch uint64, operator, voter solana.PublicKey, ballot state.Ballot) solana.Instruction {
	return b.vote(SelChangeVote, epoch, operator, voter, ballot)
}

func (b *Builder) SetTieBreaker(epoch uint64, tieBreakerAdmin solana.PublicKey, root tiprouter.Bytes32) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelSetTieBreaker, &SetTieBreakerArgs{Epoch: epoch, MerkleRoot: root},
		ro(a.Config()), rw(a.BallotBox()), b.ncnMeta(), signer(tieBreakerAdmin))
}

func (b *Builder) InitializeEpochRewardRouter(epoch uint64) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelInitializeEpochRewardRouter, &EpochArgs{epoch},
		ro(a.Config()), rw(a.EpochRewardRouter()), b.ncnMeta(), rw(a.AccountPayer()), system())
}

func (b *Builder) ProcessRewardPool(epoch uint64) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelProcessRewardPool, &EpochArgs{epoch},
		b.ncnMeta(), ro(a.EpochSnapshot()), ro(a.BallotBox()), rw(a.EpochRewardRouter()))
}

func (b *Builder) DistributeDaoRewards(epoch uint64, wallet solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeDaoRewards, &EpochArgs{epoch},
		ro(a.Config()), b.ncnMeta(), rw(a.EpochRewardRouter()), rw(wallet))
}

func (b *Builder) DistributeBlockEngineRewards(epoch uint64, wallet solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeBlockEngineRewards, &EpochArgs{epoch},
		ro(a.Config()), b.ncnMeta(), rw(a.EpochRewardRouter()), rw(wallet))
}

func (b *Builder) DistributeNcnFeeRewards(epoch uint64, group uint8, wallet solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeNcnFeeRewards, &DistributeNcnFeeRewardsArgs{Epoch: epoch, NcnFeeGroup: group},
		ro(a.Config()), b.ncnMeta(), rw(a.EpochRewardRouter()), rw(wallet))
}

func (b *Builder) DistributeBaseRewards(epoch uint64) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeBaseRewards, &EpochArgs{epoch},
		ro(a.Config()), b.ncnMeta(), rw(a.EpochRewardRouter()), rw(a.BaseRewardRouter()))
}

func (b *Builder) baseRouterAccounts(epoch uint64) []*solana.AccountMeta {
	a := b.Addresses(epoch)
	return []*solana.AccountMeta{ro(a.Config()), rw(a.BaseRewardRouter()), b.ncnMeta(), rw(a.AccountPayer()), system()}
}

func (b *Builder) InitializeBaseRewardRouter(epoch uint64) solana.Instruction {
	return b.build(SelInitializeBaseRewardRouter, &EpochArgs{epoch}, b.baseRouterAccounts(epoch)...)
}

func (b *Builder) ReallocBaseRewardRouter(epoch uint64) solana.Instruction {
	return b.build(SelReallocBaseRewardRouter, &EpochArgs{epoch}, b.baseRouterAccounts(epoch)...)
}

func (b *Builder) ProcessBuckets(epoch uint64) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelProcessBuckets, &EpochArgs{epoch},
		b.ncnMeta(), ro(a.BallotBox()), rw(a.BaseRewardRouter()))
}

func (b *Builder) DistributeOperatorRewards(epoch uint64, operator solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeOperatorRewards, &EpochArgs{epoch},
		ro(a.Config()), b.ncnMeta(), ro(operator), rw(a.BaseRewardRouter()), rw(a.OperatorRewardRouter(operator)))
}

func (b *Builder) InitializeOperatorRewardRouter(epoch uint64, operator solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelInitializeOperatorRewardRouter, &EpochArgs{epoch},
		ro(a.Config()), rw(a.OperatorRewardRouter(operator)), b.ncnMeta(), rw(a.AccountPayer()), system(), ro(operator))
}

func (b *Builder) ProcessOperatorRewards(epoch uint64, operator solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelProcessOperatorRewards, &EpochArgs{epoch},
		b.ncnMeta(), ro(operator), ro(a.OperatorSnapshot(operator)), rw(a.OperatorRewardRouter(operator)))
}

func (b *Builder) DistributeOperatorFeeRewards(epoch uint64, operator, feeWallet solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeOperatorFeeRewards, &EpochArgs{epoch},
		ro(a.Config()), b.ncnMeta(), ro(operator), rw(a.OperatorRewardRouter(operator)), rw(feeWallet))
}

func (b *Builder) DistributeVaultRewards(epoch uint64, operator, vault solana.PublicKey) solana.Instruction {
	a := b.Addresses(epoch)
	return b.build(SelDistributeVaultRewards, &EpochArgs{epoch},
		ro(a.Config()), b.ncnMeta(), ro(operator), rw(a.OperatorRewardRouter(operator)), rw(vault))
}
