// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsSnapshot(t *testing.T) {
	var cs Stats
	snap, changed := cs.Snapshot()
	assert.Equal(t, StatsSnapshot{}, snap)
	assert.False(t, changed)

	cs.Hit()
	cs.Hit()
	cs.Hit()
	cs.Miss()
	snap, changed = cs.Snapshot()
	assert.Equal(t, StatsSnapshot{Hit: 3, Miss: 1}, snap)
	assert.Equal(t, int64(750), snap.PerMille())
	assert.True(t, changed)

	// same rate
	cs.Hit()
	cs.Hit()
	cs.Hit()
	cs.Miss()
	_, changed = cs.Snapshot()
	assert.False(t, changed)

	cs.Miss()
	snap, changed = cs.Snapshot()
	assert.True(t, changed)
	assert.Equal(t, int64(666), snap.PerMille())
}
