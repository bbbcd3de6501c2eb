// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/fixture"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

var (
	rootA = tiprouter.Bytes32{0xaa}
	rootB = tiprouter.Bytes32{0xbb}
)

type network struct {
	*fixture.Network
	t     *testing.T
	vault fixture.Vault
	opA   fixture.Operator
	opB   fixture.Operator
}

// newNetwork seeds one vault with operators A and B holding 100 and 200.
func newNetwork(t *testing.T, cfg instruction.InitializeConfigArgs, feeA, feeB uint16) *network {
	bank, err := fixture.NewBank(host.DefaultConfig())
	require.NoError(t, err)
	n, err := fixture.New(bank)
	require.NoError(t, err)

	net := &network{Network: n, t: t}
	net.vault, err = n.AddVault(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	net.opA, err = n.AddOperator(feeA)
	require.NoError(t, err)
	net.opB, err = n.AddOperator(feeB)
	require.NoError(t, err)
	require.NoError(t, n.Delegate(net.vault, net.opA, 100))
	require.NoError(t, n.Delegate(net.vault, net.opB, 200))

	require.NoError(t, n.Setup(cfg))
	return net
}

func (n *network) ballotBox(epoch uint64) *state.BallotBox {
	var box state.BallotBox
	require.NoError(n.t, n.Load(n.Builder.Addresses(epoch).BallotBox(), &box))
	return &box
}

func (n *network) lamports(key solana.PublicKey) uint64 {
	v, err := n.Lamports(key)
	require.NoError(n.t, err)
	return v
}

func defaultConfig() instruction.InitializeConfigArgs {
	return instruction.InitializeConfigArgs{
		BlockEngineFeeBps: 300,
		DaoFeeBps:         500,
		EpochsBeforeStall: 3,
	}
}

func TestConsensus(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)

	require.NoError(t, n.Snapshot(0))
	require.NoError(t, n.SnapshotOperator(0, n.opA))

	err := n.Run(n.Builder.SnapshotVaultOperatorDelegation(0, n.opA.Address, n.vault.Address))
	assert.ErrorIs(t, err, reverts.ErrDuplicateDelegation)

	// votes wait for every operator
	require.NoError(t, n.OpenVoting(0))
	assert.ErrorIs(t, n.Vote(0, n.opA, rootA), reverts.ErrEpochSnapshotNotComplete)

	require.NoError(t, n.SnapshotOperator(0, n.opB))

	var snapshot state.EpochSnapshot
	require.NoError(t, n.Load(n.Builder.Addresses(0).EpochSnapshot(), &snapshot))
	assert.True(t, snapshot.IsComplete())
	assert.Equal(t, uint64(300), snapshot.StakeWeight)

	require.NoError(t, n.Vote(0, n.opA, rootA))
	box := n.ballotBox(0)
	assert.False(t, box.HasWinningBallot())
	assert.Equal(t, uint64(1), box.OperatorsVoted)

	require.NoError(t, n.Vote(0, n.opB, rootA))
	box = n.ballotBox(0)
	require.True(t, box.HasWinningBallot())
	assert.True(t, box.IsConsensusReached())
	assert.Equal(t, rootA, box.WinningBallot.MerkleRoot)

	tally, ok := box.WinningTally()
	require.True(t, ok)
	assert.Equal(t, uint64(300), tally.StakeWeight)

	ix := n.Builder.ChangeVote(0, n.opA.Address, n.opA.Voter, state.NewBallot(rootB, 0, 0))
	_, err = n.Execute([]solana.PublicKey{n.opA.Voter}, ix)
	assert.ErrorIs(t, err, reverts.ErrConsensusAlreadyReached)
}

func TestVoteAuthorization(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)
	require.NoError(t, n.Prepare(0))

	// operator B's voter cannot vote for A
	ix := n.Builder.CastVote(0, n.opA.Address, n.opB.Voter, state.NewBallot(rootA, 0, 0))
	_, err := n.Execute([]solana.PublicKey{n.opB.Voter}, ix)
	assert.ErrorIs(t, err, reverts.ErrInvalidVoter)

	// unsigned
	ix = n.Builder.CastVote(0, n.opA.Address, n.opA.Voter, state.NewBallot(rootA, 0, 0))
	_, err = n.Execute(nil, ix)
	assert.ErrorIs(t, err, host.ErrMissingSignature)

	assert.ErrorIs(t, n.Vote(0, n.opA, tiprouter.Bytes32{}), reverts.ErrInvalidMerkleRoot)

	require.NoError(t, n.Vote(0, n.opA, rootA))
	assert.ErrorIs(t, n.Vote(0, n.opA, rootB), reverts.ErrOperatorAlreadyVoted)

	ix = n.Builder.ChangeVote(0, n.opA.Address, n.opA.Voter, state.NewBallot(rootB, 0, 0))
	_, err = n.Execute([]solana.PublicKey{n.opA.Voter}, ix)
	require.NoError(t, err)

	box := n.ballotBox(0)
	tally, ok := box.Tally(&state.Ballot{MerkleRoot: rootB, IsValid: true})
	require.True(t, ok)
	assert.Equal(t, uint64(100), tally.StakeWeight)
	tally, ok = box.Tally(&state.Ballot{MerkleRoot: rootA, IsValid: true})
	require.True(t, ok)
	assert.Zero(t, tally.StakeWeight)
}

func TestTieBreaker(t *testing.T) {
	cfg := defaultConfig()
	cfg.EpochsBeforeStall = 1
	n := newNetwork(t, cfg, 0, 0)
	require.NoError(t, n.Prepare(0))

	require.NoError(t, n.Vote(0, n.opA, rootA))
	assert.False(t, n.ballotBox(0).HasWinningBallot())

	err := n.Run(n.Builder.SetTieBreaker(0, n.Admin, rootA))
	assert.ErrorIs(t, err, reverts.ErrVotingNotStalled)

	require.NoError(t, n.Bank.WarpToEpoch(2))
	assert.ErrorIs(t, n.Vote(0, n.opB, rootB), reverts.ErrVotingStalled)

	other := solana.NewWallet().PublicKey()
	_, err = n.Execute([]solana.PublicKey{other}, n.Builder.SetTieBreaker(0, other, rootA))
	assert.ErrorIs(t, err, reverts.ErrIncorrectTieBreakerAdmin)

	err = n.Run(n.Builder.SetTieBreaker(0, n.Admin, rootB))
	assert.ErrorIs(t, err, reverts.ErrTieBreakerNotInPriorVotes)

	require.NoError(t, n.Run(n.Builder.SetTieBreaker(0, n.Admin, rootA)))
	box := n.ballotBox(0)
	assert.True(t, box.HasWinningBallot())
	assert.False(t, box.IsConsensusReached())
	assert.Equal(t, rootA, box.WinningBallot.MerkleRoot)
}

func TestRewardDistribution(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 1_000, 0)
	require.NoError(t, n.Prepare(0))
	require.NoError(t, n.Vote(0, n.opA, rootA))
	require.NoError(t, n.Vote(0, n.opB, rootA))

	require.NoError(t, n.InitRouters(0))
	require.NoError(t, n.Tip(0, 1_000_000_000))

	vaultBefore := n.lamports(n.vault.Address)
	require.NoError(t, n.Distribute(0))

	// 500 and 300 bps of the pool, the remaining 920M split 1:2 by stake
	assert.Equal(t, uint64(50_000_000), n.lamports(n.Wallets.Dao))
	assert.Equal(t, uint64(30_000_000), n.lamports(n.Wallets.BlockEngine))
	assert.Zero(t, n.lamports(n.Wallets.Ncn))

	// A: 306_666_666, of which 10% is its fee
	assert.Equal(t, uint64(30_666_666), n.lamports(n.opA.FeeWallet))
	assert.Zero(t, n.lamports(n.opB.FeeWallet))
	assert.Equal(t, uint64(276_000_000+613_333_333), n.lamports(n.vault.Address)-vaultBefore)

	var router state.EpochRewardRouter
	a := n.Builder.Addresses(0)
	require.NoError(t, n.Load(a.EpochRewardRouter(), &router))
	assert.Equal(t, uint64(1_000_000_000), router.Pool.TotalRewards)
	assert.Equal(t, uint64(1_000_000_000), router.Pool.RewardsProcessed)
	assert.Equal(t, n.Bank.Rent().MinimumBalance(len(mustAccount(t, n, a.EpochRewardRouter()).Data)),
		n.lamports(a.EpochRewardRouter()))

	// the rounding dust stays with the base router
	var base state.BaseRewardRouter
	require.NoError(t, n.Load(a.BaseRewardRouter(), &base))
	assert.Equal(t, uint64(1), base.Pool.RewardPool)
	assert.Equal(t, uint64(920_000_000), base.Pool.TotalRewards)

	// distributing again moves nothing
	require.NoError(t, n.Distribute(0))
	assert.Equal(t, uint64(50_000_000), n.lamports(n.Wallets.Dao))
	assert.Equal(t, uint64(30_666_666), n.lamports(n.opA.FeeWallet))
	assert.Equal(t, uint64(276_000_000+613_333_333), n.lamports(n.vault.Address)-vaultBefore)
}

func TestLateTips(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)
	require.NoError(t, n.Prepare(0))
	require.NoError(t, n.Vote(0, n.opA, rootA))
	require.NoError(t, n.Vote(0, n.opB, rootA))
	require.NoError(t, n.InitRouters(0))

	require.NoError(t, n.Tip(0, 10_000))
	require.NoError(t, n.Distribute(0))
	require.NoError(t, n.Tip(0, 10_000))
	require.NoError(t, n.Distribute(0))

	assert.Equal(t, uint64(1_000), n.lamports(n.Wallets.Dao))
	assert.Equal(t, uint64(600), n.lamports(n.Wallets.BlockEngine))
}

func TestTipsBeforeRouters(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 1_000, 0)
	require.NoError(t, n.Prepare(0))
	require.NoError(t, n.Vote(0, n.opA, rootA))
	require.NoError(t, n.Vote(0, n.opB, rootA))

	require.NoError(t, n.Tip(0, 1_000_000_000))
	require.NoError(t, n.InitRouters(0))

	vaultBefore := n.lamports(n.vault.Address)
	require.NoError(t, n.Distribute(0))

	assert.Equal(t, uint64(50_000_000), n.lamports(n.Wallets.Dao))
	assert.Equal(t, uint64(30_000_000), n.lamports(n.Wallets.BlockEngine))
	assert.Equal(t, uint64(30_666_666), n.lamports(n.opA.FeeWallet))
	assert.Equal(t, uint64(276_000_000+613_333_333), n.lamports(n.vault.Address)-vaultBefore)

	a := n.Builder.Addresses(0)
	var router state.EpochRewardRouter
	require.NoError(t, n.Load(a.EpochRewardRouter(), &router))
	assert.Equal(t, uint64(1_000_000_000), router.Pool.TotalRewards)
	assert.Equal(t, uint64(1_000_000_000), router.Pool.RewardsProcessed)
	assert.Equal(t, n.Bank.Rent().MinimumBalance(len(mustAccount(t, n, a.EpochRewardRouter()).Data)),
		n.lamports(a.EpochRewardRouter()))

	// every lamport but the rounding dust left the base router
	var base state.BaseRewardRouter
	require.NoError(t, n.Load(a.BaseRewardRouter(), &base))
	assert.Equal(t, uint64(1), base.Pool.RewardPool)
}

func TestRewardsNeedConsensus(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)
	require.NoError(t, n.Prepare(0))
	require.NoError(t, n.Vote(0, n.opA, rootA))
	require.NoError(t, n.InitRouters(0))
	require.NoError(t, n.Tip(0, 1_000))

	assert.ErrorIs(t, n.Run(n.Builder.ProcessRewardPool(0)), reverts.ErrConsensusNotReached)
	assert.ErrorIs(t, n.Run(n.Builder.ProcessBuckets(0)), reverts.ErrConsensusNotReached)
}

func TestDistributeToWrongWallet(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)
	require.NoError(t, n.Prepare(0))
	require.NoError(t, n.Vote(0, n.opA, rootA))
	require.NoError(t, n.Vote(0, n.opB, rootA))
	require.NoError(t, n.InitRouters(0))
	require.NoError(t, n.Tip(0, 1_000_000))
	require.NoError(t, n.Run(n.Builder.ProcessRewardPool(0)))

	thief := solana.NewWallet().PublicKey()
	assert.ErrorIs(t, n.Run(n.Builder.DistributeDaoRewards(0, thief)), reverts.ErrInvalidDestination)
	assert.ErrorIs(t, n.Run(n.Builder.DistributeOperatorFeeRewards(0, n.opA.Address, thief)), reverts.ErrInvalidDestination)
	assert.Zero(t, n.lamports(thief))
}

func TestConfigAdmin(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)

	err := n.Run(n.Builder.InitializeConfig(n.Admin, n.Admin, n.Admin, n.Wallets, defaultConfig()))
	assert.ErrorIs(t, err, reverts.ErrAccountAlreadyInitialized)

	stall := uint64(51)
	err = n.Run(n.Builder.AdminSetParameters(n.Admin, instruction.AdminSetParametersArgs{EpochsBeforeStall: &stall}))
	assert.ErrorIs(t, err, reverts.ErrInvalidEpochsBeforeStall)

	dao := uint16(9_800)
	err = n.Run(n.Builder.AdminSetConfigFees(n.Admin, instruction.AdminSetConfigFeesArgs{NewDaoFeeBps: &dao}))
	assert.ErrorIs(t, err, reverts.ErrFeeCapExceeded)

	feeAdmin := solana.NewWallet().PublicKey()
	require.NoError(t, n.Run(n.Builder.AdminSetNewAdmin(n.Admin, feeAdmin, state.RoleFeeAdmin)))

	dao = 1_000
	err = n.Run(n.Builder.AdminSetConfigFees(n.Admin, instruction.AdminSetConfigFeesArgs{NewDaoFeeBps: &dao}))
	assert.ErrorIs(t, err, reverts.ErrIncorrectFeeAdmin)
	_, err = n.Execute([]solana.PublicKey{feeAdmin},
		n.Builder.AdminSetConfigFees(feeAdmin, instruction.AdminSetConfigFeesArgs{NewDaoFeeBps: &dao}))
	require.NoError(t, err)

	var cfg state.Config
	require.NoError(t, n.Load(n.Builder.Addresses(0).Config(), &cfg))
	assert.Equal(t, feeAdmin, cfg.FeeAdmin)
	assert.Equal(t, uint16(500), cfg.Fees.Current(0).DaoFeeBps)
	require.NotNil(t, cfg.Fees.Pending(0))
	assert.Equal(t, uint16(1_000), cfg.Fees.Pending(0).DaoFeeBps)
}

func TestWeightTableNeedsEveryWeight(t *testing.T) {
	n := newNetwork(t, defaultConfig(), 0, 0)
	b := n.Builder

	require.NoError(t, n.InitWeightTable(0))
	assert.ErrorIs(t, n.Run(b.InitializeEpochSnapshot(0)), reverts.ErrWeightTableNotFinalized)

	require.NoError(t, n.Run(b.AdminSetWeight(0, n.Admin, n.vault.Mint, 2*tiprouter.WeightPrecision)))
	assert.ErrorIs(t, n.Run(b.SetWeight(0, n.vault.Mint, solana.PublicKey{})), reverts.ErrWeightAlreadySet)
	require.NoError(t, n.Run(b.InitializeEpochSnapshot(0)))

	assert.ErrorIs(t, n.Run(b.InitializeWeightTable(1)), reverts.ErrIncorrectEpoch)
}

func TestWeightFromFeed(t *testing.T) {
	bank, err := fixture.NewBank(host.DefaultConfig())
	require.NoError(t, err)
	n, err := fixture.New(bank)
	require.NoError(t, err)

	mint := solana.NewWallet().PublicKey()
	feed := solana.NewWallet().PublicKey()
	require.NoError(t, n.SetFeed(feed, 150, 2))
	require.NoError(t, n.Setup(defaultConfig()))
	require.NoError(t, n.RegisterMint(mint, instruction.AdminRegisterStMintArgs{
		RewardMultiplierBps: 20_000,
		Feed:                &feed,
	}))

	b := n.Builder
	require.NoError(t, n.InitWeightTable(0))
	other := solana.NewWallet().PublicKey()
	assert.ErrorIs(t, n.Run(b.SetWeight(0, mint, other)), reverts.ErrInvalidFeedAccount)
	require.NoError(t, n.Run(b.SetWeight(0, mint, feed)))

	var table state.WeightTable
	require.NoError(t, n.Load(b.Addresses(0).WeightTable(), &table))
	weight, err := table.Weight(mint)
	require.NoError(t, err)
	// 1.50 at a 2x multiplier
	assert.Equal(t, 3*tiprouter.WeightPrecision, weight)
}

func mustAccount(t *testing.T, n *network, key solana.PublicKey) *host.Account {
	acc, err := n.Bank.GetAccount(key)
	require.NoError(t, err)
	return acc
}
