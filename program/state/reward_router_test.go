// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
)

const rent = 1_000

func TestEpochRewardRouterSplit(t *testing.T) {
	var r EpochRewardRouter
	incoming, err := r.Reconcile(rent+1_000_000_000, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), incoming)

	f := fees.Fees{DaoFeeBps: 500, BlockEngineFeeBps: 300}
	require.NoError(t, r.Route(&f))
	assert.Equal(t, uint64(50_000_000), r.DaoRewards)
	assert.Equal(t, uint64(30_000_000), r.BlockEngineRewards)
	assert.Equal(t, uint64(920_000_000), r.OperatorPool)
	assert.Zero(t, r.Pool.RewardPool)

	// nothing new arrived
	incoming, err = r.Reconcile(rent+1_000_000_000, rent)
	require.NoError(t, err)
	assert.Zero(t, incoming)

	paid, err := r.PayDao(rent+1_000_000_000, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000_000), paid)

	// paying twice sends nothing
	paid, err = r.PayDao(rent+950_000_000, rent)
	require.NoError(t, err)
	assert.Zero(t, paid)

	_, err = r.PayOperatorPool(rent+10, rent)
	assert.ErrorIs(t, err, reverts.ErrInsufficientRouterFunds)
	assert.Equal(t, uint64(920_000_000), r.OperatorPool)

	unpaid, err := r.Unpaid()
	require.NoError(t, err)
	assert.Equal(t, r.Pool.TotalRewards, unpaid+r.Pool.RewardsProcessed+r.Pool.RewardPool)
}

func TestEpochRewardRouterGroups(t *testing.T) {
	var r EpochRewardRouter
	_, err := r.Reconcile(rent+999, rent)
	require.NoError(t, err)

	f := fees.Fees{DaoFeeBps: 1_000}
	f.NcnFeeGroupsBps[1] = 1_000
	require.NoError(t, r.Route(&f))
	assert.Equal(t, uint64(99), r.DaoRewards)
	assert.Equal(t, uint64(99), r.NcnFeeGroupRewards[1])
	assert.Equal(t, uint64(801), r.OperatorPool)

	paid, err := r.PayNcnFeeGroup(1, rent+999, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), paid)

	_, err = r.PayNcnFeeGroup(8, rent+900, rent)
	assert.ErrorIs(t, err, reverts.ErrInvalidNcnFeeGroup)
}

func winningBox(t *testing.T, weights ...uint64) *BallotBox {
	box := newBox(1)
	ballot := NewBallot(root(1), 0, 0)
	var total uint64
	for i, w := range weights {
		require.NoError(t, box.CastVote(op(byte(i+1)), ballot, w, 10))
		total += w
	}
	// a losing voter
	require.NoError(t, box.CastVote(op(0xee), NewBallot(root(2), 0, 0), 1, 10))
	require.True(t, box.TallyVotes(total+1, ballot, 10))
	return box
}

func TestBaseRewardRouter(t *testing.T) {
	var r BaseRewardRouter
	assert.ErrorIs(t, r.ProcessBuckets(newBox(1)), reverts.ErrConsensusNotReached)

	box := winningBox(t, 100, 200)
	_, err := r.Reconcile(rent+1_000, rent)
	require.NoError(t, err)
	require.NoError(t, r.ProcessBuckets(box))

	assert.Equal(t, uint64(333), r.Rewards(op(1)))
	assert.Equal(t, uint64(666), r.Rewards(op(2)))
	assert.Zero(t, r.Rewards(op(0xee)))
	// dust stays in the pool
	assert.Equal(t, uint64(1), r.Pool.RewardPool)

	// reprocessing with the same balance changes nothing
	require.NoError(t, r.ProcessBuckets(box))
	assert.Equal(t, uint64(333), r.Rewards(op(1)))
	assert.Equal(t, uint64(1), r.Pool.RewardPool)

	paid, err := r.PayOperator(op(2), rent+1_000, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(666), paid)
	paid, err = r.PayOperator(op(2), rent+334, rent)
	require.NoError(t, err)
	assert.Zero(t, paid)
	paid, err = r.PayOperator(solana.PublicKey{0x77}, rent+334, rent)
	require.NoError(t, err)
	assert.Zero(t, paid)

	// later tips are picked up together with the dust
	incoming, err := r.Reconcile(rent+334+3, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), incoming)
	require.NoError(t, r.ProcessBuckets(box))
	assert.Equal(t, uint64(334), r.Rewards(op(1)))
	assert.Equal(t, uint64(2), r.Rewards(op(2)))
	assert.Equal(t, uint64(1), r.Pool.RewardPool)
}

func TestOperatorRewardRouter(t *testing.T) {
	var s OperatorSnapshot
	s.Init(op(1), solana.PublicKey{0xaa}, 1, 1, 250, true, 0, 0, 1_000, 3)
	var r OperatorRewardRouter
	assert.ErrorIs(t, r.ProcessRewards(&s), reverts.ErrOperatorSnapshotNotFinal)

	require.NoError(t, s.RegisterDelegation(0, VaultEntry{Vault: vaultA}, 100, 2))
	require.NoError(t, s.RegisterDelegation(1, VaultEntry{Vault: vaultB}, 300, 2))
	require.NoError(t, s.RegisterDelegation(2, VaultEntry{Vault: solana.PublicKey{0x22}}, 0, 2))

	_, err := r.Reconcile(rent+10_001, rent)
	require.NoError(t, err)
	require.NoError(t, r.ProcessRewards(&s))

	assert.Equal(t, uint64(1_000), r.OperatorFeeRewards)
	assert.Equal(t, uint64(2_250), r.Rewards(vaultA))
	assert.Equal(t, uint64(6_750), r.Rewards(vaultB))
	assert.Zero(t, r.Rewards(solana.PublicKey{0x22}))
	assert.Equal(t, uint64(1), r.Pool.RewardPool)

	paid, err := r.PayOperatorFee(rent+10_001, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), paid)
	paid, err = r.PayVault(vaultB, rent+9_001, rent)
	require.NoError(t, err)
	assert.Equal(t, uint64(6_750), paid)

	unpaid, err := r.Unpaid()
	require.NoError(t, err)
	assert.Equal(t, r.Pool.TotalRewards, unpaid+r.Pool.RewardsProcessed+r.Pool.RewardPool)
}

func TestOperatorRewardRouterNoStake(t *testing.T) {
	var s OperatorSnapshot
	s.Init(op(1), solana.PublicKey{0xaa}, 1, 1, 250, false, 0, 0, 1_000, 3)

	var r OperatorRewardRouter
	_, err := r.Reconcile(rent+500, rent)
	require.NoError(t, err)
	require.NoError(t, r.ProcessRewards(&s))
	assert.Equal(t, uint64(500), r.OperatorFeeRewards)
	assert.Zero(t, r.Pool.RewardPool)
}

func TestRouterLedgerFull(t *testing.T) {
	ledger := make([]RouterEntry, 2)
	require.NoError(t, credit(ledger, op(1), 1))
	require.NoError(t, credit(ledger, op(2), 1))
	require.NoError(t, credit(ledger, op(1), 1))
	assert.Equal(t, uint64(2), ledger[0].Rewards)
	assert.ErrorIs(t, credit(ledger, op(3), 1), reverts.ErrRouterLedgerFull)
}
