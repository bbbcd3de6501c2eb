// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/safemath"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// Ballot is a proposed merkle root of the epoch tip distribution.
type Ballot struct {
	MerkleRoot    tiprouter.Bytes32
	MaxTotalClaim uint64
	MaxNumNodes   uint64
	IsValid       bool
	Reserved      [15]byte
}

// NewBallot creates a valid ballot.
func NewBallot(root tiprouter.Bytes32, maxTotalClaim, maxNumNodes uint64) Ballot {
	return Ballot{
		MerkleRoot:    root,
		MaxTotalClaim: maxTotalClaim,
		MaxNumNodes:   maxNumNodes,
		IsValid:       true,
	}
}

// Matches compares ballots by content.
func (b *Ballot) Matches(o *Ballot) bool {
	return b.MerkleRoot == o.MerkleRoot &&
		b.MaxTotalClaim == o.MaxTotalClaim &&
		b.MaxNumNodes == o.MaxNumNodes
}

// BallotTally is the stake voted for one distinct ballot.
type BallotTally struct {
	Index       uint16
	Ballot      Ballot
	StakeWeight uint64
	TallyCount  uint64
	Reserved    [16]byte
}

// OperatorVote is the current vote of one operator.
type OperatorVote struct {
	Operator    solana.PublicKey
	SlotVoted   uint64
	StakeWeight uint64
	BallotIndex uint16
	Reserved    [14]byte
}

// IsEmpty reports an unused slot.
func (v *OperatorVote) IsEmpty() bool { return v.Operator.IsZero() }

// BallotBox collects the votes of one epoch.
type BallotBox struct {
	Ncn                  solana.PublicKey
	Epoch                uint64
	SlotCreated          uint64
	SlotConsensusReached uint64
	OperatorsVoted       uint64
	UniqueBallots        uint64
	WinningBallot        Ballot
	Bump                 uint8
	Reserved             [128]byte
	OperatorVotes        [tiprouter.MaxOperators]OperatorVote
	BallotTallies        [tiprouter.MaxBallots]BallotTally
}

func (*BallotBox) Discriminator() uint8 { return DiscriminatorBallotBox }

// Init resets the box.
func (b *BallotBox) Init(ncn solana.PublicKey, epoch, slot uint64, bump uint8) {
	*b = BallotBox{
		Ncn:                  ncn,
		Epoch:                epoch,
		SlotCreated:          slot,
		SlotConsensusReached: tiprouter.NoSlot,
		Bump:                 bump,
	}
}

// IsConsensusReached reports organic consensus. A tie break resolution sets
// the winning ballot without reaching consensus.
func (b *BallotBox) IsConsensusReached() bool {
	return b.SlotConsensusReached != tiprouter.NoSlot
}

// HasWinningBallot reports whether the epoch is resolved either way.
func (b *BallotBox) HasWinningBallot() bool {
	return b.WinningBallot.IsValid
}

// IsVotingStalled reports whether the stall window has passed.
func (b *BallotBox) IsVotingStalled(currentEpoch, epochsBeforeStall uint64) bool {
	deadline, err := safemath.Add(b.Epoch, epochsBeforeStall)
	if err != nil {
		return false
	}
	return currentEpoch > deadline
}

// Vote finds the vote of operator.
func (b *BallotBox) Vote(operator solana.PublicKey) (*OperatorVote, bool) {
	for i := range b.OperatorVotes {
		if b.OperatorVotes[i].Operator == operator {
			return &b.OperatorVotes[i], true
		}
	}
	return nil, false
}

// Tally finds the tally of a ballot.
func (b *BallotBox) Tally(ballot *Ballot) (*BallotTally, bool) {
	for i := range b.BallotTallies[:b.UniqueBallots] {
		if b.BallotTallies[i].Ballot.Matches(ballot) {
			return &b.BallotTallies[i], true
		}
	}
	return nil, false
}

// WinningTally returns the tally of the winning ballot.
func (b *BallotBox) WinningTally() (*BallotTally, bool) {
	if !b.HasWinningBallot() {
		return nil, false
	}
	return b.Tally(&b.WinningBallot)
}

func (b *BallotBox) tallyOrInsert(ballot *Ballot) (*BallotTally, error) {
	if t, ok := b.Tally(ballot); ok {
		return t, nil
	}
	if b.UniqueBallots >= uint64(len(b.BallotTallies)) {
		// ballots every vote moved away from are free again
		for i := range b.BallotTallies {
			if t := &b.BallotTallies[i]; t.TallyCount == 0 {
				*t = BallotTally{Index: t.Index, Ballot: *ballot}
				return t, nil
			}
		}
		return nil, reverts.ErrBallotTallyFull
	}
	t := &b.BallotTallies[b.UniqueBallots]
	*t = BallotTally{Index: uint16(b.UniqueBallots), Ballot: *ballot}
	b.UniqueBallots++
	return t, nil
}

func (b *BallotBox) checkOpen() error {
	if b.HasWinningBallot() {
		return reverts.ErrConsensusAlreadyReached
	}
	return nil
}

func ballotIsValid(ballot *Ballot) bool {
	return !ballot.MerkleRoot.IsZero()
}

// CastVote records the first vote of operator with its stake weight. A zero
// weight vote counts for nothing but still uses up the operator's vote.
func (b *BallotBox) CastVote(operator solana.PublicKey, ballot Ballot, stakeWeight, slot uint64) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if !ballotIsValid(&ballot) {
		return reverts.ErrInvalidMerkleRoot
	}
	ballot.IsValid = true
	if _, ok := b.Vote(operator); ok {
		return reverts.ErrOperatorAlreadyVoted.Withf("%v", operator)
	}
	free := -1
	for i := range b.OperatorVotes {
		if b.OperatorVotes[i].IsEmpty() {
			free = i
			break
		}
	}
	if free < 0 {
		return reverts.ErrOperatorVotesFull
	}

	tally, err := b.tallyOrInsert(&ballot)
	if err != nil {
		return err
	}
	weight, err := safemath.Add(tally.StakeWeight, stakeWeight)
	if err != nil {
		return err
	}
	tally.StakeWeight = weight
	tally.TallyCount++

	b.OperatorVotes[free] = OperatorVote{
		Operator:    operator,
		SlotVoted:   slot,
		StakeWeight: stakeWeight,
		BallotIndex: tally.Index,
	}
	b.OperatorsVoted++
	return nil
}

// ChangeVote moves the operator's vote, with the weight it was cast with, to
// another ballot. The previous tally is reduced before the new one grows.
func (b *BallotBox) ChangeVote(operator solana.PublicKey, ballot Ballot, slot uint64) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if !ballotIsValid(&ballot) {
		return reverts.ErrInvalidMerkleRoot
	}
	ballot.IsValid = true
	vote, ok := b.Vote(operator)
	if !ok {
		return reverts.ErrOperatorHasNotVoted.Withf("%v", operator)
	}

	prev := &b.BallotTallies[vote.BallotIndex]
	if prev.Ballot.Matches(&ballot) {
		vote.SlotVoted = slot
		return nil
	}
	next, err := b.tallyOrInsert(&ballot)
	if err != nil {
		return err
	}

	prevWeight, err := safemath.Sub(prev.StakeWeight, vote.StakeWeight)
	if err != nil {
		return err
	}
	nextWeight, err := safemath.Add(next.StakeWeight, vote.StakeWeight)
	if err != nil {
		return err
	}
	prev.StakeWeight = prevWeight
	prev.TallyCount--
	next.StakeWeight = nextWeight
	next.TallyCount++

	vote.BallotIndex = next.Index
	vote.SlotVoted = slot
	return nil
}

// TallyVotes declares the ballot of the last vote the winner when its tally
// reaches the consensus threshold of totalStakeWeight. No stake means no
// consensus. It reports whether consensus was reached.
func (b *BallotBox) TallyVotes(totalStakeWeight uint64, ballot Ballot, slot uint64) bool {
	if b.HasWinningBallot() || totalStakeWeight == 0 {
		return false
	}
	ballot.IsValid = true
	tally, ok := b.Tally(&ballot)
	if !ok {
		return false
	}
	if !safemath.AtLeastFraction(tally.StakeWeight, totalStakeWeight,
		tiprouter.ConsensusNumerator, tiprouter.ConsensusDenominator) {
		return false
	}
	b.WinningBallot = tally.Ballot
	b.SlotConsensusReached = slot
	return true
}

// SetTieBreaker resolves a stalled epoch to a ballot that holds votes.
func (b *BallotBox) SetTieBreaker(root tiprouter.Bytes32, currentEpoch, epochsBeforeStall uint64) error {
	if b.HasWinningBallot() {
		return reverts.ErrConsensusAlreadyReached
	}
	if !b.IsVotingStalled(currentEpoch, epochsBeforeStall) {
		return reverts.ErrVotingNotStalled.Withf("epoch %d, stall after %d", currentEpoch, b.Epoch+epochsBeforeStall)
	}
	for i := range b.BallotTallies[:b.UniqueBallots] {
		t := &b.BallotTallies[i]
		if t.Ballot.MerkleRoot == root && t.TallyCount > 0 {
			b.WinningBallot = t.Ballot
			return nil
		}
	}
	return reverts.ErrTieBreakerNotInPriorVotes.Withf("%v", root)
}

// TotalTallied sums the stake of every tally.
func (b *BallotBox) TotalTallied() (uint64, error) {
	var total uint64
	for i := range b.BallotTallies[:b.UniqueBallots] {
		var err error
		if total, err = safemath.Add(total, b.BallotTallies[i].StakeWeight); err != nil {
			return 0, err
		}
	}
	return total, nil
}
