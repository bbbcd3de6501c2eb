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

// WeightEntry is the weight of one mint for the epoch. SlotSet is NoSlot
// until the weight is set.
type WeightEntry struct {
	StMintEntry StMintEntry
	Weight      uint64
	SlotSet     uint64
	Reserved    [16]byte
}

// IsSet reports whether the weight was set.
func (e *WeightEntry) IsSet() bool { return e.SlotSet != tiprouter.NoSlot }

// WeightTable is the per epoch mint weight table. The mint and vault lists
// are copied from the registry when the table is created.
type WeightTable struct {
	Ncn         solana.PublicKey
	Epoch       uint64
	SlotCreated uint64
	MintCount   uint64
	VaultCount  uint64
	Bump        uint8
	Reserved    [127]byte
	VaultList   [tiprouter.MaxVaults]VaultEntry
	Table       [tiprouter.MaxStMints]WeightEntry
}

func (*WeightTable) Discriminator() uint8 { return DiscriminatorWeightTable }

// Init snapshots the registry into the table.
func (w *WeightTable) Init(ncn solana.PublicKey, epoch, slot uint64, bump uint8, registry *VaultRegistry) {
	*w = WeightTable{
		Ncn:         ncn,
		Epoch:       epoch,
		SlotCreated: slot,
		Bump:        bump,
	}
	for i := range w.Table {
		w.Table[i].SlotSet = tiprouter.NoSlot
	}
	n := 0
	for _, entry := range registry.StMintList {
		if entry.IsEmpty() {
			continue
		}
		w.Table[n].StMintEntry = entry
		n++
	}
	w.MintCount = uint64(n)

	n = 0
	for _, entry := range registry.VaultList {
		if entry.IsEmpty() {
			continue
		}
		w.VaultList[n] = entry
		n++
	}
	w.VaultCount = uint64(n)
}

// Entry finds the entry of mint.
func (w *WeightTable) Entry(mint solana.PublicKey) (*WeightEntry, error) {
	for i := range w.Table[:w.MintCount] {
		if w.Table[i].StMintEntry.StMint == mint {
			return &w.Table[i], nil
		}
	}
	return nil, reverts.ErrMintNotInTable.Withf("%v", mint)
}

// SetWeight sets the weight of mint once.
func (w *WeightTable) SetWeight(mint solana.PublicKey, weight, slot uint64) error {
	entry, err := w.Entry(mint)
	if err != nil {
		return err
	}
	if entry.IsSet() {
		return reverts.ErrWeightAlreadySet.Withf("%v", mint)
	}
	if weight == 0 {
		return reverts.ErrInvalidWeight.Withf("zero weight for %v", mint)
	}
	entry.Weight = weight
	entry.SlotSet = slot
	return nil
}

// Weight returns the weight of a mint, which must be set.
func (w *WeightTable) Weight(mint solana.PublicKey) (uint64, error) {
	entry, err := w.Entry(mint)
	if err != nil {
		return 0, err
	}
	if !entry.IsSet() {
		return 0, reverts.ErrWeightTableNotFinalized.Withf("no weight for %v", mint)
	}
	return entry.Weight, nil
}

// WeightCount returns how many mints have a weight.
func (w *WeightTable) WeightCount() uint64 {
	var n uint64
	for i := range w.Table[:w.MintCount] {
		if w.Table[i].IsSet() {
			n++
		}
	}
	return n
}

// IsFinalized reports whether every tracked mint has a weight.
func (w *WeightTable) IsFinalized() bool {
	return w.WeightCount() == w.MintCount
}

// Vault finds a vault of the table and its position in the vault list.
func (w *WeightTable) Vault(vault solana.PublicKey) (int, *VaultEntry, error) {
	for i := range w.VaultList[:w.VaultCount] {
		if w.VaultList[i].Vault == vault {
			return i, &w.VaultList[i], nil
		}
	}
	return 0, nil, reverts.ErrVaultNotRegistered.Withf("%v", vault)
}
