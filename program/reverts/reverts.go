// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert so callers can branch without knowing every code.
type Kind uint8

const (
	KindAccountShape Kind = iota + 1
	KindAuthorization
	KindState
	KindArithmetic
	KindExternalData
)

func (k Kind) String() string {
	switch k {
	case KindAccountShape:
		return "account-shape"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindArithmetic:
		return "arithmetic"
	case KindExternalData:
		return "external-data"
	}
	return "unknown"
}

// Code is the numeric error code surfaced to clients.
type Code uint32

// ErrRevert is a program error. Two reverts are the same error when their
// codes match, whatever detail was attached.
type ErrRevert struct {
	code    Code
	kind    Kind
	message string
	detail  string
}

// New creates a state revert with no code, for failures that need no branching.
func New(message string) *ErrRevert {
	return &ErrRevert{
		kind:    KindState,
		message: message,
	}
}

func define(code Code, kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	if e.detail != "" {
		return e.message + ": " + e.detail
	}
	return e.message
}

// Code returns the error code.
func (e *ErrRevert) Code() Code { return e.code }

// Kind returns the error kind.
func (e *ErrRevert) Kind() Kind { return e.kind }

// Is matches reverts by code.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	if e.code == 0 && t.code == 0 {
		return e.message == t.message
	}
	return e.code == t.code
}

// Withf returns a copy of the revert carrying extra detail.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	cpy := *e
	cpy.detail = fmt.Sprintf(format, args...)
	return &cpy
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf extracts the revert code from err, zero if err is not a revert.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return 0
}

// KindOf extracts the revert kind from err, zero if err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}
