// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// PayerSeed tags the system owned account that funds rent for every account
// the program creates on behalf of an NCN.
const PayerSeed = "account_payer"

// PayerSeeds returns the seeds of the account payer of ncn.
func PayerSeeds(ncn solana.PublicKey) [][]byte {
	return [][]byte{[]byte(PayerSeed), ncn[:]}
}

// Payer funds account creation and growth from the account payer PDA.
type Payer struct {
	ctx   *host.InvokeContext
	info  *host.AccountInfo
	seeds [][]byte
}

// NewPayer validates info as the account payer of ncn.
func NewPayer(ctx *host.InvokeContext, info *host.AccountInfo, ncn solana.PublicKey) (*Payer, error) {
	seeds := PayerSeeds(ncn)
	bump, err := CheckAddress(info, ctx.ProgramID(), seeds...)
	if err != nil {
		return nil, err
	}
	if err := RequireWritable(info); err != nil {
		return nil, err
	}
	if info.Owner != solana.SystemProgramID {
		return nil, reverts.ErrInvalidAccountOwner.Withf("account payer %v", info.Key)
	}
	return &Payer{ctx: ctx, info: info, seeds: WithBump(seeds, bump)}, nil
}

// Create allocates target at the program address of seeds, owned by the
// program. Accounts larger than the per instruction growth limit are created
// at the limit and must be grown with Realloc. It reports whether the account
// reached fullSize.
//
// An address that already received lamports, such as a reward router tipped
// before its epoch was set up, is adopted: the payer still funds the full
// rent so the pre-funded lamports stay above it, and the account is
// allocated and assigned in place.
func (p *Payer) Create(target *host.AccountInfo, fullSize int, seeds ...[]byte) (bool, error) {
	bump, err := CheckAddress(target, p.ctx.ProgramID(), seeds...)
	if err != nil {
		return false, err
	}
	if err := RequireWritable(target); err != nil {
		return false, err
	}
	if target.Owner != solana.SystemProgramID || len(target.Data) > 0 {
		return false, reverts.ErrAccountAlreadyInitialized.Withf("%v", target.Key)
	}

	space := min(fullSize, tiprouter.MaxReallocBytes)
	lamports := p.ctx.Rent().MinimumBalance(space)
	if p.info.Lamports < lamports {
		return false, reverts.ErrAccountPayerUnderfunded.Withf("have %d, want %d", p.info.Lamports, lamports)
	}
	signer := WithBump(seeds, bump)

	if target.Lamports == 0 {
		ix := system.NewCreateAccountInstruction(lamports, uint64(space), p.ctx.ProgramID(), p.info.Key, target.Key).Build()
		if err := p.ctx.Invoke(ix, p.seeds, signer); err != nil {
			return false, err
		}
		return space == fullSize, nil
	}

	p.ctx.Log("adopting funded account", "account", target.Key, "lamports", target.Lamports)
	if err := p.ctx.Invoke(system.NewTransferInstruction(lamports, p.info.Key, target.Key).Build(), p.seeds); err != nil {
		return false, err
	}
	if err := p.ctx.Invoke(system.NewAllocateInstruction(uint64(space), target.Key).Build(), signer); err != nil {
		return false, err
	}
	if err := p.ctx.Invoke(system.NewAssignInstruction(p.ctx.ProgramID(), target.Key).Build(), signer); err != nil {
		return false, err
	}
	return space == fullSize, nil
}

// Realloc grows target towards fullSize by at most the per instruction limit
// and tops up its rent. It reports whether the account reached fullSize.
func (p *Payer) Realloc(target *host.AccountInfo, fullSize int) (bool, error) {
	if err := RequireWritable(target); err != nil {
		return false, err
	}
	if target.Owner != p.ctx.ProgramID() {
		return false, reverts.ErrInvalidAccountOwner.Withf("%v", target.Key)
	}
	if len(target.Data) >= fullSize {
		return true, nil
	}

	rent := p.ctx.Rent()
	size := min(len(target.Data)+tiprouter.MaxReallocBytes, fullSize)
	// the payer covers the rent growth, lamports above rent are left alone
	need := rent.MinimumBalance(size)
	topUp := need - rent.MinimumBalance(len(target.Data))
	if target.Lamports+topUp < need {
		topUp = need - target.Lamports
	}
	target.Realloc(size)

	if topUp > 0 {
		if p.info.Lamports < topUp {
			return false, reverts.ErrAccountPayerUnderfunded.Withf("have %d, want %d", p.info.Lamports, topUp)
		}
		ix := system.NewTransferInstruction(topUp, p.info.Key, target.Key).Build()
		if err := p.ctx.Invoke(ix, p.seeds); err != nil {
			return false, err
		}
	}
	return size == fullSize, nil
}

// ReallocsNeeded returns how many realloc instructions follow the creating
// instruction before an account of size is complete.
func ReallocsNeeded(size int) int {
	if size <= tiprouter.MaxReallocBytes {
		return 0
	}
	return (size - 1) / tiprouter.MaxReallocBytes
}
