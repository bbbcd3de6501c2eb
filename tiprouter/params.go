// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tiprouter

import "github.com/gagliardetto/solana-go"

// ProgramID is the address the tip router program is deployed at.
var ProgramID = solana.MustPublicKeyFromBase58("RouterBmuRBkPUbgEDMtdvTZ75GBdSREZR5uGUxxxpb")

// Capacities of the fixed-size arenas held by program accounts.
const (
	MaxOperators = 256 // operators per NCN, also operator votes and operator reward ledger slots
	MaxVaults    = 64  // registered vaults, also delegation slots per operator snapshot
	MaxStMints   = 64  // supported stake token mints
	MaxBallots   = MaxOperators
	NcnFeeGroups = 8
)

// Fixed-point scales.
const (
	MaxFeeBps       = uint64(10_000)
	WeightPrecision = uint64(1_000_000)

	// a ballot wins once tally * ConsensusDenominator >= total * ConsensusNumerator
	ConsensusNumerator   = uint64(2)
	ConsensusDenominator = uint64(3)
)

const (
	// MaxStaleSlots is how far a price feed may lag the current slot.
	MaxStaleSlots = uint64(100)

	// MaxReallocBytes is the per-instruction account growth limit of the host.
	MaxReallocBytes = 10_240

	MinEpochsBeforeStall = uint64(1)
	MaxEpochsBeforeStall = uint64(50)

	DefaultSlotsPerEpoch = uint64(432_000)
)

// NoSlot marks an unset slot field, e.g. consensus not yet reached.
const NoSlot = ^uint64(0)
