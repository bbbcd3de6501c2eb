// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/safemath"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// RewardPool is the bookkeeping every router shares. At rest
// RewardPool + unpaid ledger == lamports above rent, and
// TotalRewards == RewardPool + unpaid + RewardsProcessed.
type RewardPool struct {
	TotalRewards     uint64
	RewardPool       uint64
	RewardsProcessed uint64
	Reserved         [16]byte
}

// Reconcile moves lamports received since the last call into the pool.
func (p *RewardPool) Reconcile(lamports, rentExempt, unpaid uint64) (uint64, error) {
	tracked, err := safemath.Add(p.RewardPool, unpaid)
	if err != nil {
		return 0, err
	}
	available, err := safemath.Sub(lamports, rentExempt)
	if err != nil {
		return 0, err
	}
	incoming, err := safemath.Sub(available, tracked)
	if err != nil {
		return 0, err
	}
	if p.TotalRewards, err = safemath.Add(p.TotalRewards, incoming); err != nil {
		return 0, err
	}
	if p.RewardPool, err = safemath.Add(p.RewardPool, incoming); err != nil {
		return 0, err
	}
	return incoming, nil
}

// pay zeroes a ledger amount and accounts it as processed. The router must
// hold at least the amount above rent.
func (p *RewardPool) pay(amount *uint64, lamports, rentExempt uint64) (uint64, error) {
	due := *amount
	if due == 0 {
		return 0, nil
	}
	available, err := safemath.Sub(lamports, rentExempt)
	if err != nil || available < due {
		return 0, reverts.ErrInsufficientRouterFunds.Withf("holds %d, owes %d", available, due)
	}
	processed, err := safemath.Add(p.RewardsProcessed, due)
	if err != nil {
		return 0, err
	}
	p.RewardsProcessed = processed
	*amount = 0
	return due, nil
}

// RouterEntry is the unpaid reward of one recipient.
type RouterEntry struct {
	Recipient solana.PublicKey
	Rewards   uint64
	Reserved  [8]byte
}

func credit(ledger []RouterEntry, recipient solana.PublicKey, amount uint64) error {
	free := -1
	for i := range ledger {
		if ledger[i].Recipient == recipient {
			sum, err := safemath.Add(ledger[i].Rewards, amount)
			if err != nil {
				return err
			}
			ledger[i].Rewards = sum
			return nil
		}
		if free < 0 && ledger[i].Recipient.IsZero() {
			free = i
		}
	}
	if free < 0 {
		return reverts.ErrRouterLedgerFull
	}
	ledger[free] = RouterEntry{Recipient: recipient, Rewards: amount}
	return nil
}

func find(ledger []RouterEntry, recipient solana.PublicKey) (*RouterEntry, bool) {
	for i := range ledger {
		if ledger[i].Recipient == recipient && !recipient.IsZero() {
			return &ledger[i], true
		}
	}
	return nil, false
}

func unpaid(ledger []RouterEntry) (uint64, error) {
	var total uint64
	for i := range ledger {
		var err error
		if total, err = safemath.Add(total, ledger[i].Rewards); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// EpochRewardRouter receives the epoch's tips and splits them into the fee
// buckets and the pool handed to operators.
type EpochRewardRouter struct {
	Ncn                solana.PublicKey
	Epoch              uint64
	SlotCreated        uint64
	Pool               RewardPool
	DaoRewards         uint64
	BlockEngineRewards uint64
	NcnFeeGroupRewards [tiprouter.NcnFeeGroups]uint64
	OperatorPool       uint64
	Bump               uint8
	Reserved           [127]byte
}

func (*EpochRewardRouter) Discriminator() uint8 { return DiscriminatorEpochRewardRouter }

// Unpaid sums every bucket.
func (r *EpochRewardRouter) Unpaid() (uint64, error) {
	total, err := safemath.Sum(r.DaoRewards, r.BlockEngineRewards, r.OperatorPool)
	if err != nil {
		return 0, err
	}
	for _, v := range r.NcnFeeGroupRewards {
		if total, err = safemath.Add(total, v); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Reconcile pulls newly received lamports into the pool.
func (r *EpochRewardRouter) Reconcile(lamports, rentExempt uint64) (uint64, error) {
	unpaid, err := r.Unpaid()
	if err != nil {
		return 0, err
	}
	return r.Pool.Reconcile(lamports, rentExempt, unpaid)
}

// Route splits the pool by the fee schedule. Fee buckets take their basis
// points of the pool; the remainder, rounding included, goes to operators.
func (r *EpochRewardRouter) Route(f *fees.Fees) error {
	pool := r.Pool.RewardPool
	if pool == 0 {
		return nil
	}
	dao, err := safemath.Bps(pool, uint64(f.DaoFeeBps))
	if err != nil {
		return err
	}
	blockEngine, err := safemath.Bps(pool, uint64(f.BlockEngineFeeBps))
	if err != nil {
		return err
	}
	var groups [tiprouter.NcnFeeGroups]uint64
	for i, bps := range f.NcnFeeGroupsBps {
		if groups[i], err = safemath.Bps(pool, uint64(bps)); err != nil {
			return err
		}
	}

	taken, err := safemath.Add(dao, blockEngine)
	if err != nil {
		return err
	}
	for _, v := range groups {
		if taken, err = safemath.Add(taken, v); err != nil {
			return err
		}
	}
	rest, err := safemath.Sub(pool, taken)
	if err != nil {
		return err
	}

	next := *r
	if next.DaoRewards, err = safemath.Add(r.DaoRewards, dao); err != nil {
		return err
	}
	if next.BlockEngineRewards, err = safemath.Add(r.BlockEngineRewards, blockEngine); err != nil {
		return err
	}
	for i := range groups {
		if next.NcnFeeGroupRewards[i], err = safemath.Add(r.NcnFeeGroupRewards[i], groups[i]); err != nil {
			return err
		}
	}
	if next.OperatorPool, err = safemath.Add(r.OperatorPool, rest); err != nil {
		return err
	}
	next.Pool.RewardPool = 0
	*r = next
	return nil
}

// PayDao empties the dao bucket and returns its amount.
func (r *EpochRewardRouter) PayDao(lamports, rentExempt uint64) (uint64, error) {
	return r.Pool.pay(&r.DaoRewards, lamports, rentExempt)
}

// PayBlockEngine empties the block engine bucket and returns its amount.
func (r *EpochRewardRouter) PayBlockEngine(lamports, rentExempt uint64) (uint64, error) {
	return r.Pool.pay(&r.BlockEngineRewards, lamports, rentExempt)
}

// PayNcnFeeGroup empties the bucket of group and returns its amount.
func (r *EpochRewardRouter) PayNcnFeeGroup(group uint8, lamports, rentExempt uint64) (uint64, error) {
	if int(group) >= tiprouter.NcnFeeGroups {
		return 0, reverts.ErrInvalidNcnFeeGroup.Withf("%d", group)
	}
	return r.Pool.pay(&r.NcnFeeGroupRewards[group], lamports, rentExempt)
}

// PayOperatorPool empties the operator pool and returns its amount.
func (r *EpochRewardRouter) PayOperatorPool(lamports, rentExempt uint64) (uint64, error) {
	return r.Pool.pay(&r.OperatorPool, lamports, rentExempt)
}

// BaseRewardRouter splits the operator pool among the operators that voted
// for the winning ballot.
type BaseRewardRouter struct {
	Ncn         solana.PublicKey
	Epoch       uint64
	SlotCreated uint64
	Pool        RewardPool
	Bump        uint8
	Reserved    [127]byte
	Ledger      [tiprouter.MaxOperators]RouterEntry
}

func (*BaseRewardRouter) Discriminator() uint8 { return DiscriminatorBaseRewardRouter }

// Unpaid sums the ledger.
func (r *BaseRewardRouter) Unpaid() (uint64, error) { return unpaid(r.Ledger[:]) }

// Reconcile pulls newly received lamports into the pool.
func (r *BaseRewardRouter) Reconcile(lamports, rentExempt uint64) (uint64, error) {
	unpaid, err := r.Unpaid()
	if err != nil {
		return 0, err
	}
	return r.Pool.Reconcile(lamports, rentExempt, unpaid)
}

// ProcessBuckets credits each winning voter pool * stake / winning stake.
// Rounding dust stays in the pool.
func (r *BaseRewardRouter) ProcessBuckets(box *BallotBox) error {
	tally, ok := box.WinningTally()
	if !ok {
		return reverts.ErrConsensusNotReached
	}
	pool := r.Pool.RewardPool
	if pool == 0 || tally.StakeWeight == 0 {
		return nil
	}

	ledger := r.Ledger
	var distributed uint64
	for i := range box.OperatorVotes {
		vote := &box.OperatorVotes[i]
		if vote.IsEmpty() || vote.BallotIndex != tally.Index || vote.StakeWeight == 0 {
			continue
		}
		share, err := safemath.MulDiv(pool, vote.StakeWeight, tally.StakeWeight)
		if err != nil {
			return err
		}
		if share == 0 {
			continue
		}
		if err := credit(ledger[:], vote.Operator, share); err != nil {
			return err
		}
		if distributed, err = safemath.Add(distributed, share); err != nil {
			return err
		}
	}
	rest, err := safemath.Sub(pool, distributed)
	if err != nil {
		return err
	}
	r.Ledger = ledger
	r.Pool.RewardPool = rest
	return nil
}

// Rewards returns the unpaid reward of operator.
func (r *BaseRewardRouter) Rewards(operator solana.PublicKey) uint64 {
	if e, ok := find(r.Ledger[:], operator); ok {
		return e.Rewards
	}
	return 0
}

// PayOperator empties the entry of operator and returns its amount. A
// missing or already paid entry pays nothing.
func (r *BaseRewardRouter) PayOperator(operator solana.PublicKey, lamports, rentExempt uint64) (uint64, error) {
	e, ok := find(r.Ledger[:], operator)
	if !ok {
		return 0, nil
	}
	return r.Pool.pay(&e.Rewards, lamports, rentExempt)
}

// OperatorRewardRouter splits one operator's rewards between its fee and
// the vaults that delegate to it.
type OperatorRewardRouter struct {
	Operator           solana.PublicKey
	Ncn                solana.PublicKey
	Epoch              uint64
	SlotCreated        uint64
	Pool               RewardPool
	OperatorFeeRewards uint64
	Bump               uint8
	Reserved           [127]byte
	Ledger             [tiprouter.MaxVaults]RouterEntry
}

func (*OperatorRewardRouter) Discriminator() uint8 { return DiscriminatorOperatorRewardRouter }

// Unpaid sums the operator fee and the vault ledger.
func (r *OperatorRewardRouter) Unpaid() (uint64, error) {
	vaults, err := unpaid(r.Ledger[:])
	if err != nil {
		return 0, err
	}
	return safemath.Add(vaults, r.OperatorFeeRewards)
}

// Reconcile pulls newly received lamports into the pool.
func (r *OperatorRewardRouter) Reconcile(lamports, rentExempt uint64) (uint64, error) {
	unpaid, err := r.Unpaid()
	if err != nil {
		return 0, err
	}
	return r.Pool.Reconcile(lamports, rentExempt, unpaid)
}

// ProcessRewards takes the operator fee out of the pool and splits the rest
// across vaults by stake weight. Without vault stake everything is the
// operator's. Rounding dust stays in the pool.
func (r *OperatorRewardRouter) ProcessRewards(snapshot *OperatorSnapshot) error {
	if !snapshot.IsFinalized() {
		return reverts.ErrOperatorSnapshotNotFinal
	}
	pool := r.Pool.RewardPool
	if pool == 0 {
		return nil
	}

	fee, err := safemath.Bps(pool, uint64(snapshot.OperatorFeeBps))
	if err != nil {
		return err
	}
	if snapshot.StakeWeight == 0 {
		fee = pool
	}
	rest, err := safemath.Sub(pool, fee)
	if err != nil {
		return err
	}

	ledger := r.Ledger
	distributed := fee
	if rest > 0 {
		for i := range snapshot.Delegations {
			d := &snapshot.Delegations[i]
			if !d.IsSet || d.StakeWeight == 0 {
				continue
			}
			share, err := safemath.MulDiv(rest, d.StakeWeight, snapshot.StakeWeight)
			if err != nil {
				return err
			}
			if share == 0 {
				continue
			}
			if err := credit(ledger[:], d.Vault, share); err != nil {
				return err
			}
			if distributed, err = safemath.Add(distributed, share); err != nil {
				return err
			}
		}
	}

	feeRewards, err := safemath.Add(r.OperatorFeeRewards, fee)
	if err != nil {
		return err
	}
	left, err := safemath.Sub(pool, distributed)
	if err != nil {
		return err
	}
	r.Ledger = ledger
	r.OperatorFeeRewards = feeRewards
	r.Pool.RewardPool = left
	return nil
}

// Rewards returns the unpaid reward of vault.
func (r *OperatorRewardRouter) Rewards(vault solana.PublicKey) uint64 {
	if e, ok := find(r.Ledger[:], vault); ok {
		return e.Rewards
	}
	return 0
}

// PayOperatorFee empties the operator fee bucket and returns its amount.
func (r *OperatorRewardRouter) PayOperatorFee(lamports, rentExempt uint64) (uint64, error) {
	return r.Pool.pay(&r.OperatorFeeRewards, lamports, rentExempt)
}

// PayVault empties the entry of vault and returns its amount.
func (r *OperatorRewardRouter) PayVault(vault solana.PublicKey, lamports, rentExempt uint64) (uint64, error) {
	e, ok := find(r.Ledger[:], vault)
	if !ok {
		return 0, nil
	}
	return r.Pool.pay(&e.Rewards, lamports, rentExempt)
}
