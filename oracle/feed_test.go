// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
)

func feedInfo(t *testing.T, f *Feed, owner solana.PublicKey) *host.AccountInfo {
	data, err := account.Encode(f)
	require.NoError(t, err)
	return &host.AccountInfo{
		Key:     solana.NewWallet().PublicKey(),
		Account: &host.Account{Owner: owner, Data: data},
	}
}

func TestParse(t *testing.T) {
	// 1.05 with 2 decimals
	feed, err := Parse(feedInfo(t, &Feed{Value: 105, Scale: 2, LastUpdateSlot: 1000}, ProgramID))
	require.NoError(t, err)

	price, err := feed.Price(1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_050_000), price)

	weight, err := feed.Weight(20_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_100_000), weight)

	_, err = Parse(feedInfo(t, &Feed{Value: 0, LastUpdateSlot: 1000}, ProgramID))
	assert.ErrorIs(t, err, reverts.ErrInvalidFeed)

	_, err = Parse(feedInfo(t, &Feed{Value: 1, Scale: 19}, ProgramID))
	assert.ErrorIs(t, err, reverts.ErrInvalidFeed)

	_, err = Parse(feedInfo(t, &Feed{Value: 1}, solana.SystemProgramID))
	assert.ErrorIs(t, err, reverts.ErrInvalidFeed)

	info := feedInfo(t, &Feed{Value: 1}, ProgramID)
	info.Data = info.Data[:12]
	_, err = Parse(info)
	assert.ErrorIs(t, err, reverts.ErrInvalidFeed)
	assert.Equal(t, reverts.KindExternalData, reverts.KindOf(err))
}

func TestStaleness(t *testing.T) {
	feed := &Feed{Value: 1, LastUpdateSlot: 1000}
	assert.NoError(t, feed.CheckStaleness(900))
	assert.NoError(t, feed.CheckStaleness(1100))
	assert.ErrorIs(t, feed.CheckStaleness(1101), reverts.ErrStaleFeed)
}
