// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
)

// Account is the persisted state of an address.
type Account struct {
	Lamports   uint64
	Owner      solana.PublicKey
	Executable bool
	Data       []byte
}

// NewAccount returns an empty system owned account.
func NewAccount() *Account {
	return &Account{Owner: solana.SystemProgramID}
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	cpy := *a
	cpy.Data = append([]byte(nil), a.Data...)
	return &cpy
}

// IsEmpty reports whether the account holds nothing and is not allocated.
func (a *Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == solana.SystemProgramID
}

func (a *Account) equal(b *Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// AccountInfo is an account as passed to a program, together with the
// privileges the instruction grants on it. Infos for the same key within one
// instruction, including nested invocations, share the underlying Account.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool

	*Account
}

// Realloc resizes the account data, zero filling any new bytes.
func (info *AccountInfo) Realloc(size int) {
	switch {
	case size <= len(info.Data):
		info.Data = info.Data[:size]
	default:
		info.Data = append(info.Data, make([]byte, size-len(info.Data))...)
	}
}

// Assign changes the account owner.
func (info *AccountInfo) Assign(owner solana.PublicKey) {
	info.Owner = owner
}

// IsOwnedBy reports whether the account is owned by the given program.
func (info *AccountInfo) IsOwnedBy(program solana.PublicKey) bool {
	return info.Owner == program
}
