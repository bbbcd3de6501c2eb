// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotClock(t *testing.T) {
	fake := clockwork.NewFakeClock()
	sc := NewSlotClock(fake, 10, 0)

	assert.Equal(t, uint64(10), sc.Slot())
	fake.Advance(DefaultSlotDuration*3 + DefaultSlotDuration/2)
	assert.Equal(t, uint64(13), sc.Slot())
}

func TestBankFollowsSlotClock(t *testing.T) {
	bank := newTestBank(t)
	fake := clockwork.NewFakeClock()
	sc := NewSlotClock(fake, 0, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bank.Follow(ctx, sc) }()

	require.NoError(t, fake.BlockUntilContext(ctx, 1))
	fake.Advance(5 * time.Second)

	assert.Eventually(t, func() bool {
		return bank.Clock().Slot == 5
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
