// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
)

// Account discriminators.
const (
	DiscriminatorConfig uint8 = iota + 1
	DiscriminatorVaultRegistry
	DiscriminatorWeightTable
	DiscriminatorEpochSnapshot
	DiscriminatorOperatorSnapshot
	DiscriminatorBallotBox
	DiscriminatorEpochRewardRouter
	DiscriminatorBaseRewardRouter
	DiscriminatorOperatorRewardRouter
)

func epochSeed(epoch uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], epoch)
	return b[:]
}

func ConfigSeeds(ncn solana.PublicKey) [][]byte {
	return [][]byte{[]byte("config"), ncn[:]}
}

func VaultRegistrySeeds(ncn solana.PublicKey) [][]byte {
	return [][]byte{[]byte("vault_registry"), ncn[:]}
}

func WeightTableSeeds(ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("weight_table"), ncn[:], epochSeed(epoch)}
}

func EpochSnapshotSeeds(ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("epoch_snapshot"), ncn[:], epochSeed(epoch)}
}

func OperatorSnapshotSeeds(operator, ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("operator_snapshot"), operator[:], ncn[:], epochSeed(epoch)}
}

func BallotBoxSeeds(ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("ballot_box"), ncn[:], epochSeed(epoch)}
}

func EpochRewardRouterSeeds(ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("epoch_reward_router"), ncn[:], epochSeed(epoch)}
}

func BaseRewardRouterSeeds(ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("base_reward_router"), ncn[:], epochSeed(epoch)}
}

func OperatorRewardRouterSeeds(operator, ncn solana.PublicKey, epoch uint64) [][]byte {
	return [][]byte{[]byte("operator_reward_router"), operator[:], ncn[:], epochSeed(epoch)}
}

// Addresses derives every program address of one ncn epoch.
type Addresses struct {
	programID solana.PublicKey
	ncn       solana.PublicKey
	epoch     uint64
}

// NewAddresses binds address derivation to a program, ncn and epoch.
func NewAddresses(programID, ncn solana.PublicKey, epoch uint64) Addresses {
	return Addresses{programID: programID, ncn: ncn, epoch: epoch}
}

func (a Addresses) find(seeds [][]byte) solana.PublicKey {
	addr, _ := account.FindAddress(a.programID, seeds...)
	return addr
}

// Ncn returns the bound ncn.
func (a Addresses) Ncn() solana.PublicKey { return a.ncn }

// Epoch returns the bound epoch.
func (a Addresses) Epoch() uint64 { return a.epoch }

func (a Addresses) Config() solana.PublicKey { return a.find(ConfigSeeds(a.ncn)) }

func (a Addresses) VaultRegistry() solana.PublicKey { return a.find(VaultRegistrySeeds(a.ncn)) }

func (a Addresses) AccountPayer() solana.PublicKey { return a.find(account.PayerSeeds(a.ncn)) }

func (a Addresses) WeightTable() solana.PublicKey { return a.find(WeightTableSeeds(a.ncn, a.epoch)) }

func (a Addresses) EpochSnapshot() solana.PublicKey { return a.find(EpochSnapshotSeeds(a.ncn, a.epoch)) }

func (a Addresses) OperatorSnapshot(operator solana.PublicKey) solana.PublicKey {
	return a.find(OperatorSnapshotSeeds(operator, a.ncn, a.epoch))
}

func (a Addresses) BallotBox() solana.PublicKey { return a.find(BallotBoxSeeds(a.ncn, a.epoch)) }

func (a Addresses) EpochRewardRouter() solana.PublicKey {
	return a.find(EpochRewardRouterSeeds(a.ncn, a.epoch))
}

func (a Addresses) BaseRewardRouter() solana.PublicKey {
	return a.find(BaseRewardRouterSeeds(a.ncn, a.epoch))
}

func (a Addresses) OperatorRewardRouter(operator solana.PublicKey) solana.PublicKey {
	return a.find(OperatorRewardRouterSeeds(operator, a.ncn, a.epoch))
}
