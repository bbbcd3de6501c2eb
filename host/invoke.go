// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// MaxInvokeDepth bounds nested cross-program invocations.
const MaxInvokeDepth = 4

// Program processes instructions addressed to it.
type Program interface {
	Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error

func (f ProgramFunc) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	return f(ctx, accounts, data)
}

// frameAccount tracks one account of an executing instruction frame.
type frameAccount struct {
	info *AccountInfo
	pre  *Account
}

// InvokeContext is handed to a program for the duration of one instruction.
type InvokeContext struct {
	bank      *Bank
	programID solana.PublicKey
	clock     Clock
	depth     int
	accounts  map[solana.PublicKey]*frameAccount
	logs      *[]string
}

// ProgramID returns the id of the executing program.
func (c *InvokeContext) ProgramID() solana.PublicKey { return c.programID }

// Clock returns the clock sysvar.
func (c *InvokeContext) Clock() Clock { return c.clock }

// Rent returns the rent sysvar.
func (c *InvokeContext) Rent() Rent { return c.bank.cfg.Rent }

// Log records a program log line and mirrors it to the debug log.
func (c *InvokeContext) Log(msg string, kv ...any) {
	var sb strings.Builder
	sb.WriteString("Program log: ")
	sb.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", kv[i], kv[i+1])
	}
	*c.logs = append(*c.logs, sb.String())
	logger.Debug(msg, append([]any{"program", c.programID}, kv...)...)
}

func (c *InvokeContext) snapshot() {
	for _, fa := range c.accounts {
		fa.pre = fa.info.Account.Clone()
	}
}

// Invoke executes an instruction of another program with the accounts of the
// current instruction. Accounts whose address derives from one of signerSeeds
// under the calling program are granted signer privilege.
func (c *InvokeContext) Invoke(ix solana.Instruction, signerSeeds ...[][]byte) error {
	if c.depth+1 > MaxInvokeDepth {
		return ErrCallDepth
	}
	// changes made by the caller so far are its own
	if err := c.verify(false); err != nil {
		return err
	}

	signers := make(map[solana.PublicKey]bool)
	for _, seeds := range signerSeeds {
		addr, err := solana.CreateProgramAddress(seeds, c.programID)
		if err != nil {
			return errors.Wrap(err, "invalid signer seeds")
		}
		signers[addr] = true
	}

	callee := &InvokeContext{
		bank:      c.bank,
		programID: ix.ProgramID(),
		clock:     c.clock,
		depth:     c.depth + 1,
		accounts:  make(map[solana.PublicKey]*frameAccount),
		logs:      c.logs,
	}
	infos := make([]*AccountInfo, 0, len(ix.Accounts()))
	for _, meta := range ix.Accounts() {
		fa, ok := c.accounts[meta.PublicKey]
		if !ok {
			return errors.Wrapf(ErrUnknownAccount, "%v", meta.PublicKey)
		}
		if meta.IsSigner && !fa.info.IsSigner && !signers[meta.PublicKey] {
			return errors.Wrapf(ErrPrivilegeEscalation, "signer %v", meta.PublicKey)
		}
		if meta.IsWritable && !fa.info.IsWritable {
			return errors.Wrapf(ErrPrivilegeEscalation, "writable %v", meta.PublicKey)
		}
		info := &AccountInfo{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    fa.info.Account,
		}
		if prev, ok := callee.accounts[meta.PublicKey]; ok {
			prev.info.IsSigner = prev.info.IsSigner || info.IsSigner
			prev.info.IsWritable = prev.info.IsWritable || info.IsWritable
		} else {
			callee.accounts[meta.PublicKey] = &frameAccount{info: info}
		}
		infos = append(infos, info)
	}
	callee.snapshot()

	data, err := ix.Data()
	if err != nil {
		return errors.Wrap(err, "instruction data")
	}
	if err := c.bank.execute(callee, infos, data); err != nil {
		return err
	}
	// everything the callee did is now the baseline of the caller
	c.snapshot()
	return nil
}

// verify checks the account rules for the frame's program against the state
// captured by the last snapshot.
func (c *InvokeContext) verify(checkRent bool) error {
	var pre, post uint64
	for key, fa := range c.accounts {
		before, after := fa.pre, fa.info.Account

		var overflow bool
		if pre, overflow = math.SafeAdd(pre, before.Lamports); overflow {
			return ErrUnbalancedInstruction
		}
		if post, overflow = math.SafeAdd(post, after.Lamports); overflow {
			return ErrUnbalancedInstruction
		}

		if before.equal(after) {
			continue
		}
		if !fa.info.IsWritable {
			return errors.Wrapf(ErrReadonlyModified, "%v", key)
		}
		owned := before.Owner == c.programID
		if before.Owner != after.Owner && (!owned || !isZeroed(after.Data)) {
			return errors.Wrapf(ErrIllegalOwnerChange, "%v", key)
		}
		if after.Lamports < before.Lamports && !owned {
			return errors.Wrapf(ErrExternalLamportSpend, "%v", key)
		}
		if !owned && (len(before.Data) != len(after.Data) || string(before.Data) != string(after.Data)) {
			return errors.Wrapf(ErrExternalDataModified, "%v", key)
		}
		if len(after.Data) > len(before.Data)+tiprouter.MaxReallocBytes {
			return errors.Wrapf(ErrInvalidRealloc, "%v", key)
		}
		if checkRent && len(after.Data) > 0 && !c.bank.cfg.Rent.IsExempt(after.Lamports, len(after.Data)) {
			return errors.Wrapf(ErrInsufficientFundsForRent, "%v", key)
		}
	}
	if pre != post {
		return ErrUnbalancedInstruction
	}
	return nil
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
