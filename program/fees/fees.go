// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fees holds the basis point fee schedule and its epoch gated updates.
package fees

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/safemath"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// Fees is one schedule, in effect from ActivationEpoch.
type Fees struct {
	ActivationEpoch   uint64
	BlockEngineFeeBps uint16
	DaoFeeBps         uint16
	NcnFeeGroupsBps   [tiprouter.NcnFeeGroups]uint16
	Reserved          [32]byte
}

// NcnFeeBps returns the fee of group.
func (f *Fees) NcnFeeBps(group uint8) (uint64, error) {
	if int(group) >= tiprouter.NcnFeeGroups {
		return 0, reverts.ErrInvalidNcnFeeGroup.Withf("%d", group)
	}
	return uint64(f.NcnFeeGroupsBps[group]), nil
}

// TotalBps sums every component.
func (f *Fees) TotalBps() (uint64, error) {
	total, err := safemath.Add(uint64(f.BlockEngineFeeBps), uint64(f.DaoFeeBps))
	if err != nil {
		return 0, err
	}
	for _, bps := range f.NcnFeeGroupsBps {
		if total, err = safemath.Add(total, uint64(bps)); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Validate enforces the fee cap.
func (f *Fees) Validate() error {
	total, err := f.TotalBps()
	if err != nil {
		return err
	}
	if total > tiprouter.MaxFeeBps {
		return reverts.ErrFeeCapExceeded.Withf("%d bps", total)
	}
	return nil
}

// FeeConfig keeps the active schedule and at most one pending schedule, plus
// the wallets fees are paid to.
type FeeConfig struct {
	DaoFeeWallet         solana.PublicKey
	BlockEngineFeeWallet solana.PublicKey
	NcnFeeWallet         solana.PublicKey
	Fee1                 Fees
	Fee2                 Fees
	Reserved             [64]byte
}

// New creates a fee config whose schedule is active from epoch.
func New(
	daoWallet, blockEngineWallet, ncnWallet solana.PublicKey,
	blockEngineFeeBps, daoFeeBps, defaultNcnFeeBps uint16,
	epoch uint64,
) (*FeeConfig, error) {
	fees := Fees{
		ActivationEpoch:   epoch,
		BlockEngineFeeBps: blockEngineFeeBps,
		DaoFeeBps:         daoFeeBps,
	}
	fees.NcnFeeGroupsBps[0] = defaultNcnFeeBps
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	return &FeeConfig{
		DaoFeeWallet:         daoWallet,
		BlockEngineFeeWallet: blockEngineWallet,
		NcnFeeWallet:         ncnWallet,
		Fee1:                 fees,
		Fee2:                 fees,
	}, nil
}

// Current returns the schedule in effect at epoch: the one with the latest
// activation epoch not after epoch.
func (c *FeeConfig) Current(epoch uint64) *Fees {
	cur, _ := c.split(epoch)
	return cur
}

// Pending returns the schedule that takes effect after epoch, if any.
func (c *FeeConfig) Pending(epoch uint64) *Fees {
	cur, other := c.split(epoch)
	if other.ActivationEpoch > epoch && other.ActivationEpoch > cur.ActivationEpoch {
		return other
	}
	return nil
}

func (c *FeeConfig) split(epoch uint64) (cur, other *Fees) {
	a, b := &c.Fee1, &c.Fee2
	aLive, bLive := a.ActivationEpoch <= epoch, b.ActivationEpoch <= epoch
	switch {
	case aLive && bLive:
		if b.ActivationEpoch > a.ActivationEpoch {
			return b, a
		}
		return a, b
	case aLive:
		return a, b
	case bLive:
		return b, a
	}
	// nothing active yet, the earliest schedule stands in
	if b.ActivationEpoch < a.ActivationEpoch {
		return b, a
	}
	return a, b
}

// Update describes a fee change. Nil fields keep their current value.
type Update struct {
	BlockEngineFeeBps *uint16
	DaoFeeBps         *uint16
	NcnFeeGroup       *uint8
	NcnFeeBps         *uint16
	DaoFeeWallet      *solana.PublicKey
}

// Apply schedules the update from currentEpoch+1. The active schedule is
// never touched; a pending schedule is replaced. The DAO wallet is not part
// of a schedule and switches at once, so DAO distributions still pending for
// earlier epochs pay the new wallet.
func (c *FeeConfig) Apply(u Update, currentEpoch uint64) error {
	cur, next := c.split(currentEpoch)

	updated := *cur
	updated.ActivationEpoch = currentEpoch + 1
	if u.BlockEngineFeeBps != nil {
		updated.BlockEngineFeeBps = *u.BlockEngineFeeBps
	}
	if u.DaoFeeBps != nil {
		updated.DaoFeeBps = *u.DaoFeeBps
	}
	if u.NcnFeeBps != nil {
		group := uint8(0)
		if u.NcnFeeGroup != nil {
			group = *u.NcnFeeGroup
		}
		if int(group) >= tiprouter.NcnFeeGroups {
			return reverts.ErrInvalidNcnFeeGroup.Withf("%d", group)
		}
		updated.NcnFeeGroupsBps[group] = *u.NcnFeeBps
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*next = updated
	if u.DaoFeeWallet != nil {
		c.DaoFeeWallet = *u.DaoFeeWallet
	}
	return nil
}
