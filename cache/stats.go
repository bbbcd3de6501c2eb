// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts cache lookups. It is safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	reported  atomic.Int64 // last reported hit rate in per mille
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	Hit, Miss int64
}

// PerMille returns the hit rate in per mille, 0 when nothing was looked up.
func (s StatsSnapshot) PerMille() int64 {
	if total := s.Hit + s.Miss; total > 0 {
		return s.Hit * 1000 / total
	}
	return 0
}

func (cs *Stats) Hit()  { cs.hit.Add(1) }
func (cs *Stats) Miss() { cs.miss.Add(1) }

// Snapshot reads the counters. changed tells whether the hit rate moved
// since the previous call.
func (cs *Stats) Snapshot() (snap StatsSnapshot, changed bool) {
	snap = StatsSnapshot{Hit: cs.hit.Load(), Miss: cs.miss.Load()}
	rate := snap.PerMille()
	return snap, cs.reported.Swap(rate) != rate
}
