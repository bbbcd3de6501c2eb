// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultSlotDuration is the target slot time.
const DefaultSlotDuration = 400 * time.Millisecond

// SlotClock maps wall clock time to slots.
type SlotClock struct {
	clock        clockwork.Clock
	genesis      time.Time
	startSlot    uint64
	slotDuration time.Duration
}

// NewSlotClock creates a slot clock where the current instant is startSlot.
func NewSlotClock(clock clockwork.Clock, startSlot uint64, slotDuration time.Duration) *SlotClock {
	if slotDuration <= 0 {
		slotDuration = DefaultSlotDuration
	}
	return &SlotClock{
		clock:        clock,
		genesis:      clock.Now(),
		startSlot:    startSlot,
		slotDuration: slotDuration,
	}
}

// Slot returns the current slot.
func (c *SlotClock) Slot() uint64 {
	elapsed := c.clock.Since(c.genesis)
	if elapsed < 0 {
		return c.startSlot
	}
	return c.startSlot + uint64(elapsed/c.slotDuration)
}

// Follow advances the bank along the slot clock until ctx is done.
func (b *Bank) Follow(ctx context.Context, sc *SlotClock) error {
	ticker := sc.clock.NewTicker(sc.slotDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			slot := sc.Slot()
			if slot <= b.Clock().Slot {
				continue
			}
			if err := b.WarpToSlot(slot); err != nil {
				return err
			}
			if slot%b.cfg.SlotsPerEpoch == 0 {
				logger.Info("new epoch", "epoch", slot/b.cfg.SlotsPerEpoch, "slot", slot)
			}
		}
	}
}
