// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle parses price feed accounts.
package oracle

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/safemath"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// ProgramID owns feed accounts.
var ProgramID = solana.MustPublicKeyFromBase58("SW1TCH7qEPTdLsDHRgPuMQjbQxKdH2aBStViMFnt64f")

// maxScale keeps 10^scale within 64 bits.
const maxScale = 18

// Feed is the latest aggregated price: Value / 10^Scale.
type Feed struct {
	Value          uint64
	Scale          uint8
	LastUpdateSlot uint64
	Reserved       [64]byte
}

func (*Feed) Discriminator() uint8 { return 1 }

// Parse reads a feed account, failing on anything malformed.
func Parse(info *host.AccountInfo) (*Feed, error) {
	feed, err := account.Load[Feed](info, ProgramID, false)
	if err != nil {
		return nil, reverts.ErrInvalidFeed.Withf("%v: %v", info.Key, err)
	}
	if feed.Value == 0 || feed.Scale > maxScale {
		return nil, reverts.ErrInvalidFeed.Withf("%v: value %d scale %d", info.Key, feed.Value, feed.Scale)
	}
	return feed, nil
}

// CheckStaleness fails when the feed lags currentSlot by more than the
// staleness bound.
func (f *Feed) CheckStaleness(currentSlot uint64) error {
	if currentSlot > f.LastUpdateSlot && currentSlot-f.LastUpdateSlot > tiprouter.MaxStaleSlots {
		return reverts.ErrStaleFeed.Withf("updated at %d, now %d", f.LastUpdateSlot, currentSlot)
	}
	return nil
}

// Price returns the price as a fixed point number with the given precision.
func (f *Feed) Price(precision uint64) (uint64, error) {
	denom := uint64(1)
	for range f.Scale {
		denom *= 10
	}
	return safemath.MulDiv(f.Value, precision, denom)
}

// Weight converts the feed price into a weight table weight scaled by the
// reward multiplier.
func (f *Feed) Weight(rewardMultiplierBps uint64) (uint64, error) {
	price, err := f.Price(tiprouter.WeightPrecision)
	if err != nil {
		return 0, err
	}
	return safemath.Bps(price, rewardMultiplierBps)
}
