// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ncn

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// slot renders NoSlot as null.
func slot(s uint64) *uint64 {
	if s == tiprouter.NoSlot {
		return nil
	}
	return &s
}

type Fees struct {
	ActivationEpoch   uint64   `json:"activationEpoch"`
	BlockEngineFeeBps uint16   `json:"blockEngineFeeBps"`
	DaoFeeBps         uint16   `json:"daoFeeBps"`
	NcnFeeGroupsBps   []uint16 `json:"ncnFeeGroupsBps"`
	TotalBps          uint64   `json:"totalBps"`
}

func convertFees(f *fees.Fees) *Fees {
	total, _ := f.TotalBps()
	return &Fees{
		ActivationEpoch:   f.ActivationEpoch,
		BlockEngineFeeBps: f.BlockEngineFeeBps,
		DaoFeeBps:         f.DaoFeeBps,
		NcnFeeGroupsBps:   append([]uint16(nil), f.NcnFeeGroupsBps[:]...),
		TotalBps:          total,
	}
}

type Config struct {
	Address              solana.PublicKey `json:"address"`
	Ncn                  solana.PublicKey `json:"ncn"`
	TieBreakerAdmin      solana.PublicKey `json:"tieBreakerAdmin"`
	FeeAdmin             solana.PublicKey `json:"feeAdmin"`
	EpochsBeforeStall    uint64           `json:"epochsBeforeStall"`
	StartingValidEpoch   uint64           `json:"startingValidEpoch"`
	DaoFeeWallet         solana.PublicKey `json:"daoFeeWallet"`
	BlockEngineFeeWallet solana.PublicKey `json:"blockEngineFeeWallet"`
	NcnFeeWallet         solana.PublicKey `json:"ncnFeeWallet"`
	CurrentFees          *Fees            `json:"currentFees"`
	PendingFees          *Fees            `json:"pendingFees"`
}

func convertConfig(addr solana.PublicKey, c *state.Config, epoch uint64) *Config {
	return &Config{
		Address:              addr,
		Ncn:                  c.Ncn,
		TieBreakerAdmin:      c.TieBreakerAdmin,
		FeeAdmin:             c.FeeAdmin,
		EpochsBeforeStall:    c.EpochsBeforeStall,
		StartingValidEpoch:   c.StartingValidEpoch,
		DaoFeeWallet:         c.Fees.DaoFeeWallet,
		BlockEngineFeeWallet: c.Fees.BlockEngineFeeWallet,
		NcnFeeWallet:         c.Fees.NcnFeeWallet,
		CurrentFees:          convertFees(c.Fees.Current(epoch)),
		PendingFees:          convertFees(c.Fees.Pending(epoch)),
	}
}

type StMint struct {
	StMint              solana.PublicKey  `json:"stMint"`
	NcnFeeGroup         uint8             `json:"ncnFeeGroup"`
	RewardMultiplierBps uint64            `json:"rewardMultiplierBps"`
	Feed                *solana.PublicKey `json:"feed"`
	NoFeedWeight        uint64            `json:"noFeedWeight"`
}

func convertStMint(e *state.StMintEntry) *StMint {
	m := &StMint{
		StMint:              e.StMint,
		NcnFeeGroup:         e.NcnFeeGroup,
		RewardMultiplierBps: e.RewardMultiplierBps,
		NoFeedWeight:        e.NoFeedWeight,
	}
	if e.HasFeed() {
		feed := e.Feed
		m.Feed = &feed
	}
	return m
}

type Vault struct {
	Vault          solana.PublicKey `json:"vault"`
	StMint         solana.PublicKey `json:"stMint"`
	VaultIndex     uint64           `json:"vaultIndex"`
	SlotRegistered uint64           `json:"slotRegistered"`
}

func convertVaults(list []state.VaultEntry) []*Vault {
	vaults := make([]*Vault, 0)
	for i := range list {
		if list[i].IsEmpty() {
			continue
		}
		vaults = append(vaults, &Vault{
			Vault:          list[i].Vault,
			StMint:         list[i].StMint,
			VaultIndex:     list[i].VaultIndex,
			SlotRegistered: list[i].SlotRegistered,
		})
	}
	return vaults
}

type VaultRegistry struct {
	Address solana.PublicKey `json:"address"`
	StMints []*StMint        `json:"stMints"`
	Vaults  []*Vault         `json:"vaults"`
}

func convertVaultRegistry(addr solana.PublicKey, r *state.VaultRegistry) *VaultRegistry {
	reg := &VaultRegistry{
		Address: addr,
		StMints: make([]*StMint, 0, r.StMintCount()),
		Vaults:  convertVaults(r.VaultList[:]),
	}
	for i := range r.StMintList {
		if !r.StMintList[i].IsEmpty() {
			reg.StMints = append(reg.StMints, convertStMint(&r.StMintList[i]))
		}
	}
	return reg
}

type Weight struct {
	StMint  *StMint `json:"stMint"`
	Weight  uint64  `json:"weight"`
	SlotSet *uint64 `json:"slotSet"`
}

type WeightTable struct {
	Address     solana.PublicKey `json:"address"`
	Epoch       uint64           `json:"epoch"`
	SlotCreated uint64           `json:"slotCreated"`
	Finalized   bool             `json:"finalized"`
	Weights     []*Weight        `json:"weights"`
	Vaults      []*Vault         `json:"vaults"`
}

func convertWeightTable(addr solana.PublicKey, w *state.WeightTable) *WeightTable {
	table := &WeightTable{
		Address:     addr,
		Epoch:       w.Epoch,
		SlotCreated: w.SlotCreated,
		Finalized:   w.IsFinalized(),
		Weights:     make([]*Weight, 0, w.MintCount),
		Vaults:      convertVaults(w.VaultList[:]),
	}
	for i := range w.Table {
		e := &w.Table[i]
		if e.StMintEntry.IsEmpty() {
			continue
		}
		table.Weights = append(table.Weights, &Weight{
			StMint:  convertStMint(&e.StMintEntry),
			Weight:  e.Weight,
			SlotSet: slot(e.SlotSet),
		})
	}
	return table
}

type EpochSnapshot struct {
	Address                       solana.PublicKey `json:"address"`
	Epoch                         uint64           `json:"epoch"`
	SlotCreated                   uint64           `json:"slotCreated"`
	SlotFinalized                 *uint64          `json:"slotFinalized"`
	OperatorCount                 uint64           `json:"operatorCount"`
	VaultCount                    uint64           `json:"vaultCount"`
	OperatorsRegistered           uint64           `json:"operatorsRegistered"`
	ValidOperatorVaultDelegations uint64           `json:"validOperatorVaultDelegations"`
	StakeWeight                   uint64           `json:"stakeWeight"`
	Complete                      bool             `json:"complete"`
	Fees                          *Fees            `json:"fees"`
}

func convertEpochSnapshot(addr solana.PublicKey, s *state.EpochSnapshot) *EpochSnapshot {
	snap := &EpochSnapshot{
		Address:                       addr,
		Epoch:                         s.Epoch,
		SlotCreated:                   s.SlotCreated,
		OperatorCount:                 s.OperatorCount,
		VaultCount:                    s.VaultCount,
		OperatorsRegistered:           s.OperatorsRegistered,
		ValidOperatorVaultDelegations: s.ValidOperatorVaultDelegations,
		StakeWeight:                   s.StakeWeight,
		Complete:                      s.IsComplete(),
		Fees:                          convertFees(&s.Fees),
	}
	if snap.Complete {
		snap.SlotFinalized = slot(s.SlotFinalized)
	}
	return snap
}

type Delegation struct {
	Vault       solana.PublicKey `json:"vault"`
	StMint      solana.PublicKey `json:"stMint"`
	VaultIndex  uint64           `json:"vaultIndex"`
	StakeWeight uint64           `json:"stakeWeight"`
}

type OperatorSnapshot struct {
	Address                       solana.PublicKey `json:"address"`
	Operator                      solana.PublicKey `json:"operator"`
	Epoch                         uint64           `json:"epoch"`
	SlotCreated                   uint64           `json:"slotCreated"`
	IsActive                      bool             `json:"isActive"`
	Finalized                     bool             `json:"finalized"`
	NcnOperatorIndex              uint64           `json:"ncnOperatorIndex"`
	OperatorFeeBps                uint16           `json:"operatorFeeBps"`
	DelegationCount               uint64           `json:"delegationCount"`
	DelegationsRegistered         uint64           `json:"delegationsRegistered"`
	ValidOperatorVaultDelegations uint64           `json:"validOperatorVaultDelegations"`
	StakeWeight                   uint64           `json:"stakeWeight"`
	Delegations                   []*Delegation    `json:"delegations"`
}

func convertOperatorSnapshot(addr solana.PublicKey, s *state.OperatorSnapshot) *OperatorSnapshot {
	snap := &OperatorSnapshot{
		Address:                       addr,
		Operator:                      s.Operator,
		Epoch:                         s.Epoch,
		SlotCreated:                   s.SlotCreated,
		IsActive:                      s.IsActive,
		Finalized:                     s.IsFinalized(),
		NcnOperatorIndex:              s.NcnOperatorIndex,
		OperatorFeeBps:                s.OperatorFeeBps,
		DelegationCount:               s.VaultOperatorDelegationCount,
		DelegationsRegistered:         s.VaultOperatorDelegationsRegistered,
		ValidOperatorVaultDelegations: s.ValidOperatorVaultDelegations,
		StakeWeight:                   s.StakeWeight,
		Delegations:                   make([]*Delegation, 0),
	}
	for i := range s.Delegations {
		d := &s.Delegations[i]
		if !d.IsSet {
			continue
		}
		snap.Delegations = append(snap.Delegations, &Delegation{
			Vault:       d.Vault,
			StMint:      d.StMint,
			VaultIndex:  d.VaultIndex,
			StakeWeight: d.StakeWeight,
		})
	}
	return snap
}

type Ballot struct {
	MerkleRoot    string `json:"merkleRoot"`
	MaxTotalClaim uint64 `json:"maxTotalClaim"`
	MaxNumNodes   uint64 `json:"maxNumNodes"`
}

func convertBallot(b *state.Ballot) *Ballot {
	if !b.IsValid {
		return nil
	}
	return &Ballot{
		MerkleRoot:    b.MerkleRoot.Base58(),
		MaxTotalClaim: b.MaxTotalClaim,
		MaxNumNodes:   b.MaxNumNodes,
	}
}

type Tally struct {
	Ballot      *Ballot `json:"ballot"`
	StakeWeight uint64  `json:"stakeWeight"`
	TallyCount  uint64  `json:"tallyCount"`
}

type Vote struct {
	Operator    solana.PublicKey `json:"operator"`
	SlotVoted   uint64           `json:"slotVoted"`
	StakeWeight uint64           `json:"stakeWeight"`
	MerkleRoot  string           `json:"merkleRoot"`
}

type BallotBox struct {
	Address              solana.PublicKey `json:"address"`
	Epoch                uint64           `json:"epoch"`
	SlotCreated          uint64           `json:"slotCreated"`
	SlotConsensusReached *uint64          `json:"slotConsensusReached"`
	ConsensusReached     bool             `json:"consensusReached"`
	VotingStalled        bool             `json:"votingStalled"`
	OperatorsVoted       uint64           `json:"operatorsVoted"`
	UniqueBallots        uint64           `json:"uniqueBallots"`
	WinningBallot        *Ballot          `json:"winningBallot"`
	Tallies              []*Tally         `json:"tallies"`
	Votes                []*Vote          `json:"votes"`
}

func convertBallotBox(addr solana.PublicKey, b *state.BallotBox, currentEpoch, epochsBeforeStall uint64) *BallotBox {
	box := &BallotBox{
		Address:              addr,
		Epoch:                b.Epoch,
		SlotCreated:          b.SlotCreated,
		SlotConsensusReached: slot(b.SlotConsensusReached),
		ConsensusReached:     b.IsConsensusReached(),
		VotingStalled:        b.IsVotingStalled(currentEpoch, epochsBeforeStall),
		OperatorsVoted:       b.OperatorsVoted,
		UniqueBallots:        b.UniqueBallots,
		WinningBallot:        convertBallot(&b.WinningBallot),
		Tallies:              make([]*Tally, 0, b.UniqueBallots),
		Votes:                make([]*Vote, 0, b.OperatorsVoted),
	}
	for i := uint64(0); i < b.UniqueBallots && i < uint64(len(b.BallotTallies)); i++ {
		t := &b.BallotTallies[i]
		box.Tallies = append(box.Tallies, &Tally{
			Ballot:      convertBallot(&t.Ballot),
			StakeWeight: t.StakeWeight,
			TallyCount:  t.TallyCount,
		})
	}
	for i := range b.OperatorVotes {
		v := &b.OperatorVotes[i]
		if v.IsEmpty() {
			continue
		}
		vote := &Vote{
			Operator:    v.Operator,
			SlotVoted:   v.SlotVoted,
			StakeWeight: v.StakeWeight,
		}
		if int(v.BallotIndex) < len(b.BallotTallies) {
			vote.MerkleRoot = b.BallotTallies[v.BallotIndex].Ballot.MerkleRoot.Base58()
		}
		box.Votes = append(box.Votes, vote)
	}
	return box
}

type Pool struct {
	TotalRewards     uint64 `json:"totalRewards"`
	RewardPool       uint64 `json:"rewardPool"`
	RewardsProcessed uint64 `json:"rewardsProcessed"`
}

func convertPool(p *state.RewardPool) Pool {
	return Pool{
		TotalRewards:     p.TotalRewards,
		RewardPool:       p.RewardPool,
		RewardsProcessed: p.RewardsProcessed,
	}
}

type LedgerEntry struct {
	Recipient solana.PublicKey `json:"recipient"`
	Rewards   uint64           `json:"rewards"`
}

func convertLedger(ledger []state.RouterEntry) []*LedgerEntry {
	entries := make([]*LedgerEntry, 0)
	for i := range ledger {
		if ledger[i].Recipient.IsZero() {
			continue
		}
		entries = append(entries, &LedgerEntry{Recipient: ledger[i].Recipient, Rewards: ledger[i].Rewards})
	}
	return entries
}

type EpochRewardRouter struct {
	Address            solana.PublicKey `json:"address"`
	Lamports           uint64           `json:"lamports"`
	Pool               Pool             `json:"pool"`
	DaoRewards         uint64           `json:"daoRewards"`
	BlockEngineRewards uint64           `json:"blockEngineRewards"`
	NcnFeeGroupRewards []uint64         `json:"ncnFeeGroupRewards"`
	OperatorPool       uint64           `json:"operatorPool"`
}

type BaseRewardRouter struct {
	Address  solana.PublicKey `json:"address"`
	Lamports uint64           `json:"lamports"`
	Pool     Pool             `json:"pool"`
	Ledger   []*LedgerEntry   `json:"ledger"`
}

type OperatorRewardRouter struct {
	Address            solana.PublicKey `json:"address"`
	Operator           solana.PublicKey `json:"operator"`
	Lamports           uint64           `json:"lamports"`
	Pool               Pool             `json:"pool"`
	OperatorFeeRewards uint64           `json:"operatorFeeRewards"`
	Ledger             []*LedgerEntry   `json:"ledger"`
}

// RewardRouters holds the routers of an epoch. Routers not yet created are null.
type RewardRouters struct {
	Epoch       uint64                  `json:"epoch"`
	EpochRouter *EpochRewardRouter      `json:"epochRouter"`
	BaseRouter  *BaseRewardRouter       `json:"baseRouter"`
	Operators   []*OperatorRewardRouter `json:"operatorRouters"`
}
