// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sim plays a scenario through the tip router on a local bank: it
// seeds the ncn, snapshots stake, collects votes, tips the epoch and
// distributes the rewards.
package sim

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/kv"
	"github.com/jito-foundation/jito-tip-router-sub002/log"
	"github.com/jito-foundation/jito-tip-router-sub002/program/fixture"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
)

var logger = log.WithContext("pkg", "sim")

// Options configures a run.
type Options struct {
	// Store backs the bank. Nil runs in memory.
	Store kv.Store
	// Bank defaults to host.DefaultConfig.
	Bank host.Config
	// Clock drives slot progress between votes.
	Clock *clockwork.FakeClock
}

type runner struct {
	sc   *Scenario
	opts Options
	net  *fixture.Network

	mints     map[string]solana.PublicKey
	vaults    map[string]fixture.Vault
	operators []fixture.Operator
	report    *Report
}

// Run plays sc and reports its outcome. A scenario that ends without a
// winning ballot distributes nothing.
func Run(ctx context.Context, sc *Scenario, opts Options) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewFakeClock()
	}
	if opts.Bank == (host.Config{}) {
		opts.Bank = host.DefaultConfig()
	}
	var (
		bank *host.Bank
		err  error
	)
	if opts.Store != nil {
		bank, err = fixture.NewBankWithStore(opts.Store, opts.Bank)
	} else {
		bank, err = fixture.NewBank(opts.Bank)
	}
	if err != nil {
		return nil, err
	}
	switch cur := bank.Clock().Epoch; {
	case cur > sc.Epoch:
		return nil, errors.Errorf("bank is at epoch %d, past epoch %d", cur, sc.Epoch)
	case cur < sc.Epoch:
		if err := bank.WarpToEpoch(sc.Epoch); err != nil {
			return nil, err
		}
	}

	net, err := fixture.New(bank)
	if err != nil {
		return nil, err
	}
	r := &runner{
		sc:     sc,
		opts:   opts,
		net:    net,
		mints:  make(map[string]solana.PublicKey),
		vaults: make(map[string]fixture.Vault),
		report: &Report{Scenario: sc.Name, Ncn: net.Ncn.String(), Epoch: sc.Epoch},
	}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"seed", r.seed},
		{"snapshot", r.snapshot},
		{"vote", r.vote},
		{"distribute", r.distribute},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(ctx); err != nil {
			return nil, errors.WithMessage(err, step.name)
		}
	}
	logger.Info("scenario done",
		"name", sc.Name,
		"consensus", r.report.Consensus,
		"tie_broken", r.report.TieBroken,
		"tipped", r.report.Tipped,
		"paid", r.report.Paid())
	return r.report, nil
}

// seed creates the mints, vaults, operators and delegations, then the
// program config and registry.
func (r *runner) seed(context.Context) error {
	n := r.net
	n.MintArgs = make(map[solana.PublicKey]instruction.AdminRegisterStMintArgs, len(r.sc.Mints))
	for _, m := range r.sc.Mints {
		key := solana.NewWallet().PublicKey()
		r.mints[m.Name] = key
		args := instruction.AdminRegisterStMintArgs{
			NcnFeeGroup:         m.NcnFeeGroup,
			RewardMultiplierBps: m.RewardMultiplierBps,
			NoFeedWeight:        m.NoFeedWeight,
		}
		if args.RewardMultiplierBps == 0 {
			args.RewardMultiplierBps = 10_000
		}
		if m.Feed != nil {
			feed := solana.NewWallet().PublicKey()
			args.Feed = &feed
		}
		n.MintArgs[key] = args
	}
	for _, v := range r.sc.Vaults {
		vault, err := n.AddVault(r.mints[v.Mint])
		if err != nil {
			return err
		}
		r.vaults[v.Name] = vault
	}
	for _, o := range r.sc.Operators {
		op, err := n.AddOperator(o.FeeBps)
		if err != nil {
			return err
		}
		r.operators = append(r.operators, op)
		for vault, amount := range o.Stake {
			if err := n.Delegate(r.vaults[vault], op, amount); err != nil {
				return err
			}
		}
	}
	return n.Setup(instruction.InitializeConfigArgs{
		BlockEngineFeeBps: r.sc.Fees.BlockEngineBps,
		DaoFeeBps:         r.sc.Fees.DaoBps,
		DefaultNcnFeeBps:  r.sc.Fees.DefaultNcnBps,
		EpochsBeforeStall: r.sc.Fees.EpochsBeforeStall,
	})
}

// snapshot publishes the feeds, sets the weights and snapshots every
// operator concurrently.
func (r *runner) snapshot(ctx context.Context) error {
	n := r.net
	for _, m := range r.sc.Mints {
		if m.Feed == nil {
			continue
		}
		if err := n.SetFeed(*n.MintArgs[r.mints[m.Name]].Feed, m.Feed.Value, m.Feed.Scale); err != nil {
			return err
		}
	}
	if err := n.Snapshot(r.sc.Epoch); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, op := range r.operators {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return n.SnapshotOperator(r.sc.Epoch, op)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var snap state.EpochSnapshot
	if err := n.Load(n.Builder.Addresses(r.sc.Epoch).EpochSnapshot(), &snap); err != nil {
		return err
	}
	r.report.StakeWeight = snap.StakeWeight
	return n.OpenVoting(r.sc.Epoch)
}

// vote casts the votes in scenario order, letting the slot clock run
// between them. Votes arriving after consensus are rejected. A stalled
// epoch is resolved by the tie breaker when the scenario names one.
func (r *runner) vote(context.Context) error {
	n := r.net
	epoch := r.sc.Epoch
	slots := host.NewSlotClock(r.opts.Clock, n.Bank.Clock().Slot, host.DefaultSlotDuration)

	for i, o := range r.sc.Operators {
		if o.Vote == nil {
			continue
		}
		r.opts.Clock.Advance(r.sc.VoteInterval)
		if slot := slots.Slot(); slot > n.Bank.Clock().Slot {
			if err := n.Bank.WarpToSlot(slot); err != nil {
				return err
			}
		}

		op := r.operators[i]
		var snap state.OperatorSnapshot
		if err := n.Load(n.Builder.Addresses(epoch).OperatorSnapshot(op.Address), &snap); err != nil {
			return err
		}
		res := &VoteResult{
			Operator:    o.Name,
			Root:        o.Vote.Base58(),
			Slot:        n.Bank.Clock().Slot,
			StakeWeight: snap.StakeWeight,
			Accepted:    true,
		}
		if err := n.Vote(epoch, op, *o.Vote); err != nil {
			if !errors.Is(err, reverts.ErrConsensusAlreadyReached) {
				return errors.WithMessagef(err, "operator %s", o.Name)
			}
			res.Accepted = false
			res.Reason = "consensus already reached"
		}
		r.report.Votes = append(r.report.Votes, res)
	}

	box, err := r.ballotBox()
	if err != nil {
		return err
	}
	if !box.HasWinningBallot() && r.sc.TieBreaker != nil {
		stalled := epoch + r.sc.Fees.EpochsBeforeStall + 1
		logger.Info("voting stalled, breaking the tie", "epoch", epoch, "at_epoch", stalled)
		if err := n.Bank.WarpToEpoch(stalled); err != nil {
			return err
		}
		if err := n.Run(n.Builder.SetTieBreaker(epoch, n.Admin, *r.sc.TieBreaker)); err != nil {
			return errors.WithMessage(err, "tie breaker")
		}
		if box, err = r.ballotBox(); err != nil {
			return err
		}
		r.report.TieBroken = true
	}
	r.report.Consensus = box.IsConsensusReached()
	if box.HasWinningBallot() {
		r.report.WinningRoot = box.WinningBallot.MerkleRoot.Base58()
	}
	return nil
}

func (r *runner) ballotBox() (*state.BallotBox, error) {
	var box state.BallotBox
	if err := r.net.Load(r.net.Builder.Addresses(r.sc.Epoch).BallotBox(), &box); err != nil {
		return nil, err
	}
	return &box, nil
}

// recipients lists every account rewards can end up in.
func (r *runner) recipients() []*Payout {
	n := r.net
	list := []*Payout{
		{Recipient: "dao", Address: n.Wallets.Dao},
		{Recipient: "block_engine", Address: n.Wallets.BlockEngine},
		{Recipient: "ncn", Address: n.Wallets.Ncn},
	}
	for i, o := range r.sc.Operators {
		list = append(list, &Payout{Recipient: "operator/" + o.Name, Address: r.operators[i].FeeWallet})
	}
	for _, v := range r.sc.Vaults {
		list = append(list, &Payout{Recipient: "vault/" + v.Name, Address: r.vaults[v.Name].Address})
	}
	return list
}

// distribute tips the epoch router and walks the rewards down to every
// recipient. Payouts are balance deltas.
func (r *runner) distribute(context.Context) error {
	if r.report.WinningRoot == "" {
		logger.Warn("no winning ballot, nothing distributed", "epoch", r.sc.Epoch)
		return nil
	}
	n := r.net
	epoch := r.sc.Epoch
	if err := n.InitRouters(epoch); err != nil {
		return err
	}

	payouts := r.recipients()
	before := make([]uint64, len(payouts))
	for i, p := range payouts {
		lamports, err := n.Lamports(p.Address)
		if err != nil {
			return err
		}
		before[i] = lamports
	}

	for _, tip := range r.sc.Tips {
		if err := n.Tip(epoch, tip); err != nil {
			return errors.WithMessagef(err, "tip %d", tip)
		}
		r.report.Tipped += tip
	}
	if err := n.Distribute(epoch); err != nil {
		return err
	}

	for i, p := range payouts {
		lamports, err := n.Lamports(p.Address)
		if err != nil {
			return err
		}
		if p.Lamports = lamports - before[i]; p.Lamports > 0 {
			r.report.Payouts = append(r.report.Payouts, p)
		}
	}

	a := n.Builder.Addresses(epoch)
	routers := []solana.PublicKey{a.EpochRewardRouter(), a.BaseRewardRouter()}
	for _, op := range r.operators {
		routers = append(routers, a.OperatorRewardRouter(op.Address))
	}
	for _, key := range routers {
		left, err := r.surplus(key)
		if err != nil {
			return err
		}
		r.report.Undistributed += left
	}
	return nil
}

// surplus is what the account at key holds above its rent reserve.
func (r *runner) surplus(key solana.PublicKey) (uint64, error) {
	acc, err := r.net.Bank.GetAccount(key)
	if err != nil {
		return 0, err
	}
	reserve := r.net.Bank.Rent().MinimumBalance(len(acc.Data))
	if acc.Lamports < reserve {
		return 0, errors.Errorf("%v below rent reserve", key)
	}
	return acc.Lamports - reserve, nil
}

