// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import "github.com/jito-foundation/jito-tip-router-sub002/tiprouter"

// AccountStorageOverhead is the per account byte overhead charged by rent.
const AccountStorageOverhead = 128

// Rent is the rent schedule. Only rent exemption is modelled.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  uint64 // in years
}

// DefaultRent is the mainnet rent schedule.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2,
}

// MinimumBalance returns the lamports an account of the given size needs to be rent exempt.
func (r Rent) MinimumBalance(size int) uint64 {
	return (uint64(size) + AccountStorageOverhead) * r.LamportsPerByteYear * r.ExemptionThreshold
}

// IsExempt reports whether the balance covers the size.
func (r Rent) IsExempt(lamports uint64, size int) bool {
	return lamports >= r.MinimumBalance(size)
}

// Clock is the clock sysvar.
type Clock struct {
	Slot          uint64
	Epoch         uint64
	SlotsPerEpoch uint64
}

// EpochStartSlot returns the first slot of the given epoch.
func (c Clock) EpochStartSlot(epoch uint64) uint64 {
	return epoch * c.SlotsPerEpoch
}

func newClock(slot, slotsPerEpoch uint64) Clock {
	if slotsPerEpoch == 0 {
		slotsPerEpoch = tiprouter.DefaultSlotsPerEpoch
	}
	return Clock{
		Slot:          slot,
		Epoch:         slot / slotsPerEpoch,
		SlotsPerEpoch: slotsPerEpoch,
	}
}
