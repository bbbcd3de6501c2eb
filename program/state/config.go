// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// AdminRole names an admin that the ncn admin can replace.
type AdminRole uint8

const (
	RoleTieBreaker AdminRole = iota
	RoleFeeAdmin
)

// Config is the per ncn program configuration.
type Config struct {
	Ncn                solana.PublicKey
	TieBreakerAdmin    solana.PublicKey
	FeeAdmin           solana.PublicKey
	EpochsBeforeStall  uint64
	StartingValidEpoch uint64
	Fees               fees.FeeConfig
	Bump               uint8
	Reserved           [127]byte
}

func (*Config) Discriminator() uint8 { return DiscriminatorConfig }

// ValidateEpochsBeforeStall checks the stall window bounds.
func ValidateEpochsBeforeStall(epochs uint64) error {
	if epochs < tiprouter.MinEpochsBeforeStall || epochs > tiprouter.MaxEpochsBeforeStall {
		return reverts.ErrInvalidEpochsBeforeStall.Withf("%d", epochs)
	}
	return nil
}

// CheckEpoch fails for epochs before the starting valid epoch.
func (c *Config) CheckEpoch(epoch uint64) error {
	if epoch < c.StartingValidEpoch {
		return reverts.ErrEpochNotYetValid.Withf("epoch %d, starting %d", epoch, c.StartingValidEpoch)
	}
	return nil
}

// SetAdmin replaces the admin of role.
func (c *Config) SetAdmin(role AdminRole, admin solana.PublicKey) error {
	switch role {
	case RoleTieBreaker:
		c.TieBreakerAdmin = admin
	case RoleFeeAdmin:
		c.FeeAdmin = admin
	default:
		return reverts.ErrInvalidAdminRole.Withf("%d", role)
	}
	return nil
}
