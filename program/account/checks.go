// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
)

// FindAddress derives the program address for seeds.
func FindAddress(programID solana.PublicKey, seeds ...[]byte) (solana.PublicKey, uint8) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		// only possible when every bump lands on the curve
		panic(err)
	}
	return addr, bump
}

// CheckAddress verifies info sits at the program address for seeds and
// returns the bump.
func CheckAddress(info *host.AccountInfo, programID solana.PublicKey, seeds ...[]byte) (uint8, error) {
	addr, bump := FindAddress(programID, seeds...)
	if info.Key != addr {
		return 0, reverts.ErrInvalidPDA.Withf("have %v, want %v", info.Key, addr)
	}
	return bump, nil
}

// WithBump appends the bump seed.
func WithBump(seeds [][]byte, bump uint8) [][]byte {
	out := make([][]byte, 0, len(seeds)+1)
	out = append(out, seeds...)
	return append(out, []byte{bump})
}

// Expect fails when fewer than n accounts were supplied.
func Expect(accounts []*host.AccountInfo, n int) error {
	if len(accounts) < n {
		return reverts.ErrNotEnoughAccountKeys.Withf("have %d, want %d", len(accounts), n)
	}
	return nil
}

// RequireSigner fails when info did not sign.
func RequireSigner(info *host.AccountInfo) error {
	if !info.IsSigner {
		return reverts.ErrMissingSigner.Withf("%v", info.Key)
	}
	return nil
}

// RequireWritable fails when info is read-only.
func RequireWritable(info *host.AccountInfo) error {
	if !info.IsWritable {
		return reverts.ErrAccountNotWritable.Withf("%v", info.Key)
	}
	return nil
}

// RequireSystemProgram fails unless info is the system program.
func RequireSystemProgram(info *host.AccountInfo) error {
	if info.Key != solana.SystemProgramID {
		return reverts.ErrInvalidSystemProgram.Withf("%v", info.Key)
	}
	return nil
}
