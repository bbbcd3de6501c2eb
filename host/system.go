// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/pkg/errors"
)

// Errors of the system program.
var (
	ErrAccountAlreadyInUse  = errors.New("system: account already in use")
	ErrInsufficientLamports = errors.New("system: insufficient lamports")
	ErrTransferFromData     = errors.New("system: from account must not carry data")
	ErrInvalidSystemAccount = errors.New("system: invalid account arguments")
)

// systemProgram is the native system program: account creation and
// lamport transfers between system owned accounts.
type systemProgram struct{}

func (systemProgram) Process(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	metas := make([]*solana.AccountMeta, 0, len(accounts))
	for _, info := range accounts {
		metas = append(metas, solana.NewAccountMeta(info.Key, info.IsWritable, info.IsSigner))
	}
	inst, err := system.DecodeInstruction(metas, data)
	if err != nil {
		return errors.Wrap(err, "system: decode instruction")
	}

	switch ix := inst.Impl.(type) {
	case *system.CreateAccount:
		if len(accounts) < 2 || ix.Lamports == nil || ix.Space == nil || ix.Owner == nil {
			return ErrInvalidSystemAccount
		}
		from, to := accounts[0], accounts[1]
		if err := requireSigners(from, to); err != nil {
			return err
		}
		if !to.IsEmpty() {
			return errors.Wrapf(ErrAccountAlreadyInUse, "%v", to.Key)
		}
		if err := transfer(from, to, *ix.Lamports); err != nil {
			return err
		}
		to.Realloc(int(*ix.Space))
		to.Assign(*ix.Owner)
		ctx.Log("create account", "account", to.Key, "space", *ix.Space, "owner", *ix.Owner)
		return nil

	case *system.Transfer:
		if len(accounts) < 2 || ix.Lamports == nil {
			return ErrInvalidSystemAccount
		}
		from, to := accounts[0], accounts[1]
		if err := requireSigners(from); err != nil {
			return err
		}
		if len(from.Data) > 0 {
			return errors.Wrapf(ErrTransferFromData, "%v", from.Key)
		}
		return transfer(from, to, *ix.Lamports)

	case *system.Allocate:
		if len(accounts) < 1 || ix.Space == nil {
			return ErrInvalidSystemAccount
		}
		acc := accounts[0]
		if err := requireSigners(acc); err != nil {
			return err
		}
		if len(acc.Data) > 0 || acc.Owner != solana.SystemProgramID {
			return errors.Wrapf(ErrAccountAlreadyInUse, "%v", acc.Key)
		}
		acc.Realloc(int(*ix.Space))
		return nil

	case *system.Assign:
		if len(accounts) < 1 || ix.Owner == nil {
			return ErrInvalidSystemAccount
		}
		acc := accounts[0]
		if err := requireSigners(acc); err != nil {
			return err
		}
		acc.Assign(*ix.Owner)
		return nil
	}
	return errors.Errorf("system: unsupported instruction %T", inst.Impl)
}

func requireSigners(infos ...*AccountInfo) error {
	for _, info := range infos {
		if !info.IsSigner {
			return errors.Wrapf(ErrMissingSignature, "%v", info.Key)
		}
	}
	return nil
}

func transfer(from, to *AccountInfo, lamports uint64) error {
	if from.Lamports < lamports {
		return errors.Wrapf(ErrInsufficientLamports, "%v has %d, needs %d", from.Key, from.Lamports, lamports)
	}
	if from.Key == to.Key {
		return nil
	}
	from.Lamports -= lamports
	to.Lamports += lamports
	return nil
}
