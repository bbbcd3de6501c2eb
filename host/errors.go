// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import "github.com/pkg/errors"

// Errors raised by the runtime itself, as opposed to program errors.
var (
	ErrUnknownProgram           = errors.New("unknown program")
	ErrMissingSignature         = errors.New("missing required signature")
	ErrPrivilegeEscalation      = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrUnknownAccount           = errors.New("instruction references an account not passed to the caller")
	ErrReadonlyModified         = errors.New("instruction modified a read-only account")
	ErrExternalLamportSpend     = errors.New("instruction spent from the balance of an account it does not own")
	ErrExternalDataModified     = errors.New("instruction modified data of an account it does not own")
	ErrIllegalOwnerChange       = errors.New("instruction changed the owner of an account it does not own")
	ErrUnbalancedInstruction    = errors.New("sum of account balances before and after instruction do not match")
	ErrInvalidRealloc           = errors.New("account data grew beyond the per instruction limit")
	ErrInsufficientFundsForRent = errors.New("account is not rent exempt")
	ErrCallDepth                = errors.New("cross-program invocation call depth too deep")
	ErrEmptyTransaction         = errors.New("transaction has no instructions")
)
