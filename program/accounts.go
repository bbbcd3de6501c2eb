// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/safemath"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/restaking"
)

// load reads a program account after checking it lives at seeds.
func load[T any, PT interface {
	*T
	account.Body
}](e *env, info *host.AccountInfo, writable bool, seeds [][]byte) (PT, error) {
	if _, err := account.CheckAddress(info, e.ctx.ProgramID(), seeds...); err != nil {
		return nil, err
	}
	return account.Load[T, PT](info, e.ctx.ProgramID(), writable)
}

func (e *env) loadConfig(info *host.AccountInfo, ncn solana.PublicKey, writable bool) (*state.Config, error) {
	return load[state.Config](e, info, writable, state.ConfigSeeds(ncn))
}

func (e *env) loadWeightTable(info *host.AccountInfo, ncn solana.PublicKey, epoch uint64, writable bool) (*state.WeightTable, error) {
	return load[state.WeightTable](e, info, writable, state.WeightTableSeeds(ncn, epoch))
}

func (e *env) loadEpochSnapshot(info *host.AccountInfo, ncn solana.PublicKey, epoch uint64, writable bool) (*state.EpochSnapshot, error) {
	return load[state.EpochSnapshot](e, info, writable, state.EpochSnapshotSeeds(ncn, epoch))
}

func (e *env) loadOperatorSnapshot(info *host.AccountInfo, operator, ncn solana.PublicKey, epoch uint64, writable bool) (*state.OperatorSnapshot, error) {
	return load[state.OperatorSnapshot](e, info, writable, state.OperatorSnapshotSeeds(operator, ncn, epoch))
}

func (e *env) loadBallotBox(info *host.AccountInfo, ncn solana.PublicKey, epoch uint64, writable bool) (*state.BallotBox, error) {
	return load[state.BallotBox](e, info, writable, state.BallotBoxSeeds(ncn, epoch))
}

// requireAuthority checks that info is the expected authority and signed.
func requireAuthority(info *host.AccountInfo, want solana.PublicKey, mismatch *reverts.ErrRevert) error {
	if info.Key != want {
		return mismatch.Withf("have %v", info.Key)
	}
	return account.RequireSigner(info)
}

// requireNcnAdmin loads the ncn and checks its admin signed.
func requireNcnAdmin(ncnInfo, adminInfo *host.AccountInfo) error {
	ncn, err := restaking.LoadNcn(ncnInfo)
	if err != nil {
		return err
	}
	return requireAuthority(adminInfo, ncn.Admin, reverts.ErrIncorrectNcnAdmin)
}

// checkEpoch rejects epochs before the configured start and epochs that
// have not begun.
func (e *env) checkEpoch(cfg *state.Config, epoch uint64) error {
	if err := cfg.CheckEpoch(epoch); err != nil {
		return err
	}
	if epoch > e.epoch() {
		return reverts.ErrIncorrectEpoch.Withf("epoch %d has not started", epoch)
	}
	return nil
}

// create makes target through the ncn account payer. Bodies larger than one
// allocation step are written by the realloc that completes them.
func (e *env) create(
	payerInfo, target *host.AccountInfo,
	ncn solana.PublicKey,
	body account.Body,
	seeds [][]byte,
	initBody func(bump uint8) error,
) error {
	bump, err := account.CheckAddress(target, e.ctx.ProgramID(), seeds...)
	if err != nil {
		return err
	}
	payer, err := account.NewPayer(e.ctx, payerInfo, ncn)
	if err != nil {
		return err
	}
	full, err := payer.Create(target, account.Size(body), seeds...)
	if err != nil {
		return err
	}
	if !full {
		e.ctx.Log("account created, realloc required", "account", target.Key,
			"reallocs", account.ReallocsNeeded(account.Size(body)))
		return nil
	}
	if err := initBody(bump); err != nil {
		return err
	}
	return account.Store(target, body)
}

// grow extends target by one step and initializes it once it is full size.
// Growing an initialized account does nothing.
func (e *env) grow(
	payerInfo, target *host.AccountInfo,
	ncn solana.PublicKey,
	body account.Body,
	seeds [][]byte,
	initBody func(bump uint8) error,
) error {
	bump, err := account.CheckAddress(target, e.ctx.ProgramID(), seeds...)
	if err != nil {
		return err
	}
	payer, err := account.NewPayer(e.ctx, payerInfo, ncn)
	if err != nil {
		return err
	}
	full, err := payer.Realloc(target, account.Size(body))
	if err != nil {
		return err
	}
	if !full || account.IsInitialized(target) {
		return nil
	}
	if err := initBody(bump); err != nil {
		return err
	}
	return account.Store(target, body)
}

// transfer moves lamports out of a program owned account.
func transfer(from, to *host.AccountInfo, lamports uint64) error {
	if lamports == 0 {
		return nil
	}
	if from.Key == to.Key {
		return reverts.ErrInvalidDestination.Withf("%v", to.Key)
	}
	if err := account.RequireWritable(to); err != nil {
		return err
	}
	debited, err := safemath.Sub(from.Lamports, lamports)
	if err != nil {
		return err
	}
	credited, err := safemath.Add(to.Lamports, lamports)
	if err != nil {
		return err
	}
	from.Lamports = debited
	to.Lamports = credited
	return nil
}
