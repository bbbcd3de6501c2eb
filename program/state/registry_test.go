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

	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

var (
	mintA  = solana.PublicKey{0x10}
	mintB  = solana.PublicKey{0x11}
	vaultA = solana.PublicKey{0x20}
	vaultB = solana.PublicKey{0x21}
)

func newRegistry(t *testing.T) *VaultRegistry {
	var r VaultRegistry
	require.NoError(t, r.RegisterStMint(StMintEntry{StMint: mintA, RewardMultiplierBps: 10_000, NoFeedWeight: tiprouter.WeightPrecision}))
	require.NoError(t, r.RegisterStMint(StMintEntry{StMint: mintB, NcnFeeGroup: 1, NoFeedWeight: 2 * tiprouter.WeightPrecision}))
	return &r
}

func TestVaultRegistry(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, 2, r.StMintCount())

	assert.ErrorIs(t, r.RegisterStMint(StMintEntry{StMint: mintA}), reverts.ErrMintAlreadyRegistered)
	assert.ErrorIs(t, r.RegisterStMint(StMintEntry{StMint: solana.PublicKey{0x12}, NcnFeeGroup: 8}), reverts.ErrInvalidNcnFeeGroup)

	added, err := r.RegisterVault(vaultA, mintA, 0, 50)
	require.NoError(t, err)
	assert.True(t, added)

	// registering again is a no-op
	added, err = r.RegisterVault(vaultA, mintA, 0, 60)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, r.VaultCount())
	assert.Equal(t, uint64(50), r.VaultList[0].SlotRegistered)

	_, err = r.RegisterVault(vaultB, solana.PublicKey{0x99}, 1, 60)
	assert.ErrorIs(t, err, reverts.ErrMintNotRegistered)

	group := uint8(3)
	weight := uint64(7)
	require.NoError(t, r.UpdateStMint(mintA, StMintUpdate{NcnFeeGroup: &group, NoFeedWeight: &weight}))
	entry, err := r.StMint(mintA)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), entry.NcnFeeGroup)
	assert.Equal(t, uint64(7), entry.NoFeedWeight)
	assert.Equal(t, uint64(10_000), entry.RewardMultiplierBps)

	bad := uint8(9)
	assert.ErrorIs(t, r.UpdateStMint(mintA, StMintUpdate{NcnFeeGroup: &bad}), reverts.ErrInvalidNcnFeeGroup)
	assert.Equal(t, uint8(3), entry.NcnFeeGroup)
}

func TestVaultRegistryFull(t *testing.T) {
	var r VaultRegistry
	for i := 0; i < tiprouter.MaxStMints; i++ {
		require.NoError(t, r.RegisterStMint(StMintEntry{StMint: solana.PublicKey{byte(i), 1}}))
	}
	assert.ErrorIs(t, r.RegisterStMint(StMintEntry{StMint: solana.PublicKey{0xff, 0xff}}), reverts.ErrStMintRegistryFull)

	for i := 0; i < tiprouter.MaxVaults; i++ {
		_, err := r.RegisterVault(solana.PublicKey{byte(i), 2}, solana.PublicKey{0, 1}, uint64(i), 1)
		require.NoError(t, err)
	}
	_, err := r.RegisterVault(solana.PublicKey{0xff, 2}, solana.PublicKey{0, 1}, 99, 1)
	assert.ErrorIs(t, err, reverts.ErrVaultRegistryFull)
}

func TestWeightTable(t *testing.T) {
	r := newRegistry(t)
	_, err := r.RegisterVault(vaultA, mintA, 0, 1)
	require.NoError(t, err)
	_, err = r.RegisterVault(vaultB, mintB, 1, 1)
	require.NoError(t, err)

	var w WeightTable
	w.Init(solana.PublicKey{0xaa}, 3, 10, 254, r)
	assert.Equal(t, uint64(2), w.MintCount)
	assert.Equal(t, uint64(2), w.VaultCount)
	assert.False(t, w.IsFinalized())

	_, err = w.Weight(mintA)
	assert.ErrorIs(t, err, reverts.ErrWeightTableNotFinalized)

	assert.ErrorIs(t, w.SetWeight(mintA, 0, 11), reverts.ErrInvalidWeight)
	require.NoError(t, w.SetWeight(mintA, 1_000_000, 11))
	assert.ErrorIs(t, w.SetWeight(mintA, 2, 12), reverts.ErrWeightAlreadySet)
	assert.ErrorIs(t, w.SetWeight(solana.PublicKey{0x99}, 2, 12), reverts.ErrMintNotInTable)
	require.NoError(t, w.SetWeight(mintB, 2_000_000, 12))
	assert.True(t, w.IsFinalized())

	weight, err := w.Weight(mintA)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), weight)

	pos, entry, err := w.Vault(vaultB)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, mintB, entry.StMint)

	// registry changes after creation do not leak into the table
	_, err = r.RegisterVault(solana.PublicKey{0x22}, mintA, 2, 20)
	require.NoError(t, err)
	_, _, err = w.Vault(solana.PublicKey{0x22})
	assert.ErrorIs(t, err, reverts.ErrVaultNotRegistered)
}

func TestOversizedAccounts(t *testing.T) {
	for _, b := range []account.Body{&VaultRegistry{}, &WeightTable{}, &BallotBox{}, &BaseRewardRouter{}} {
		assert.Greater(t, account.Size(b), tiprouter.MaxReallocBytes, "%T", b)
		assert.Greater(t, account.ReallocsNeeded(account.Size(b)), 0, "%T", b)
	}
	for _, b := range []account.Body{&Config{}, &EpochSnapshot{}, &OperatorSnapshot{}, &EpochRewardRouter{}, &OperatorRewardRouter{}} {
		assert.LessOrEqual(t, account.Size(b), tiprouter.MaxReallocBytes, "%T", b)
	}
}

func TestConfig(t *testing.T) {
	assert.ErrorIs(t, ValidateEpochsBeforeStall(0), reverts.ErrInvalidEpochsBeforeStall)
	assert.ErrorIs(t, ValidateEpochsBeforeStall(51), reverts.ErrInvalidEpochsBeforeStall)
	assert.NoError(t, ValidateEpochsBeforeStall(50))

	c := Config{StartingValidEpoch: 4}
	assert.ErrorIs(t, c.CheckEpoch(3), reverts.ErrEpochNotYetValid)
	assert.NoError(t, c.CheckEpoch(4))

	require.NoError(t, c.SetAdmin(RoleFeeAdmin, solana.PublicKey{5}))
	assert.Equal(t, solana.PublicKey{5}, c.FeeAdmin)
	assert.ErrorIs(t, c.SetAdmin(AdminRole(7), solana.PublicKey{5}), reverts.ErrInvalidAdminRole)
}
