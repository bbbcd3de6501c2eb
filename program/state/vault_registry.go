// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// StMintEntry describes a supported stake token mint and how it is weighed.
// A mint without feed is weighed at NoFeedWeight.
type StMintEntry struct {
	StMint              solana.PublicKey
	NcnFeeGroup         uint8
	RewardMultiplierBps uint64
	Feed                solana.PublicKey
	NoFeedWeight        uint64
	Reserved            [32]byte
}

// IsEmpty reports an unused slot.
func (e *StMintEntry) IsEmpty() bool { return e.StMint.IsZero() }

// HasFeed reports whether the weight comes from a price feed.
func (e *StMintEntry) HasFeed() bool { return !e.Feed.IsZero() }

// VaultEntry is a vault registered with the ncn.
type VaultEntry struct {
	Vault          solana.PublicKey
	StMint         solana.PublicKey
	VaultIndex     uint64
	SlotRegistered uint64
	Reserved       [16]byte
}

// IsEmpty reports an unused slot.
func (e *VaultEntry) IsEmpty() bool { return e.Vault.IsZero() }

// VaultRegistry lists the mints and vaults the ncn takes into account.
type VaultRegistry struct {
	Ncn        solana.PublicKey
	Bump       uint8
	Reserved   [127]byte
	StMintList [tiprouter.MaxStMints]StMintEntry
	VaultList  [tiprouter.MaxVaults]VaultEntry
}

func (*VaultRegistry) Discriminator() uint8 { return DiscriminatorVaultRegistry }

// StMintCount returns the number of registered mints.
func (r *VaultRegistry) StMintCount() int {
	n := 0
	for i := range r.StMintList {
		if !r.StMintList[i].IsEmpty() {
			n++
		}
	}
	return n
}

// VaultCount returns the number of registered vaults.
func (r *VaultRegistry) VaultCount() int {
	n := 0
	for i := range r.VaultList {
		if !r.VaultList[i].IsEmpty() {
			n++
		}
	}
	return n
}

// StMint finds the entry of mint.
func (r *VaultRegistry) StMint(mint solana.PublicKey) (*StMintEntry, error) {
	for i := range r.StMintList {
		if r.StMintList[i].StMint == mint && !mint.IsZero() {
			return &r.StMintList[i], nil
		}
	}
	return nil, reverts.ErrMintNotRegistered.Withf("%v", mint)
}

// RegisterStMint adds a mint. Duplicates are rejected.
func (r *VaultRegistry) RegisterStMint(entry StMintEntry) error {
	if entry.StMint.IsZero() {
		return reverts.ErrInvalidAccountData.Withf("empty st mint")
	}
	if int(entry.NcnFeeGroup) >= tiprouter.NcnFeeGroups {
		return reverts.ErrInvalidNcnFeeGroup.Withf("%d", entry.NcnFeeGroup)
	}
	if _, err := r.StMint(entry.StMint); err == nil {
		return reverts.ErrMintAlreadyRegistered.Withf("%v", entry.StMint)
	}
	for i := range r.StMintList {
		if r.StMintList[i].IsEmpty() {
			r.StMintList[i] = entry
			return nil
		}
	}
	return reverts.ErrStMintRegistryFull
}

// StMintUpdate changes a registered mint. Nil fields are kept.
type StMintUpdate struct {
	NcnFeeGroup         *uint8
	RewardMultiplierBps *uint64
	Feed                *solana.PublicKey
	NoFeedWeight        *uint64
}

// UpdateStMint applies u to mint.
func (r *VaultRegistry) UpdateStMint(mint solana.PublicKey, u StMintUpdate) error {
	entry, err := r.StMint(mint)
	if err != nil {
		return err
	}
	updated := *entry
	if u.NcnFeeGroup != nil {
		if int(*u.NcnFeeGroup) >= tiprouter.NcnFeeGroups {
			return reverts.ErrInvalidNcnFeeGroup.Withf("%d", *u.NcnFeeGroup)
		}
		updated.NcnFeeGroup = *u.NcnFeeGroup
	}
	if u.RewardMultiplierBps != nil {
		updated.RewardMultiplierBps = *u.RewardMultiplierBps
	}
	if u.Feed != nil {
		updated.Feed = *u.Feed
	}
	if u.NoFeedWeight != nil {
		updated.NoFeedWeight = *u.NoFeedWeight
	}
	*entry = updated
	return nil
}

// RegisterVault adds a vault of a registered mint. Registering a vault twice
// changes nothing and reports false.
func (r *VaultRegistry) RegisterVault(vault, mint solana.PublicKey, vaultIndex, slot uint64) (bool, error) {
	if _, err := r.StMint(mint); err != nil {
		return false, err
	}
	free := -1
	for i := range r.VaultList {
		if r.VaultList[i].Vault == vault {
			return false, nil
		}
		if free < 0 && r.VaultList[i].IsEmpty() {
			free = i
		}
	}
	if free < 0 {
		return false, reverts.ErrVaultRegistryFull
	}
	r.VaultList[free] = VaultEntry{
		Vault:          vault,
		StMint:         mint,
		VaultIndex:     vaultIndex,
		SlotRegistered: slot,
	}
	return true, nil
}
