// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package safemath provides checked integer arithmetic. Every failure maps to
// an arithmetic revert, nothing wraps.
package safemath

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

func Add(a, b uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticOverflow
	}
	return sum, nil
}

func Sub(a, b uint64) (uint64, error) {
	diff, overflow := math.SafeSub(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticUnderflow
	}
	return diff, nil
}

func Mul(a, b uint64) (uint64, error) {
	prod, overflow := math.SafeMul(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticOverflow
	}
	return prod, nil
}

func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, reverts.ErrDivisionByZero
	}
	return a / b, nil
}

// Sum adds all values.
func Sum(values ...uint64) (uint64, error) {
	var total uint64
	for _, v := range values {
		var err error
		if total, err = Add(total, v); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// MulDiv computes a * b / c with a 256-bit intermediate, rounding down.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, reverts.ErrDivisionByZero
	}
	var x uint256.Int
	x.Mul(uint256.NewInt(a), uint256.NewInt(b))
	x.Div(&x, uint256.NewInt(c))
	if !x.IsUint64() {
		return 0, reverts.ErrCastOverflow
	}
	return x.Uint64(), nil
}

// Bps returns amount * bps / 10000.
func Bps(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, tiprouter.MaxFeeBps)
}

// AtLeastFraction reports whether part / whole >= num / den, compared exactly
// as part * den >= whole * num.
func AtLeastFraction(part, whole, num, den uint64) bool {
	var lhs, rhs uint256.Int
	lhs.Mul(uint256.NewInt(part), uint256.NewInt(den))
	rhs.Mul(uint256.NewInt(whole), uint256.NewInt(num))
	return !lhs.Lt(&rhs)
}
