// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import lru "github.com/hashicorp/golang-lru"

// LRU a typed LRU cache extends golang-lru.
type LRU[K comparable, V any] struct {
	c     *lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{c: c}, nil
}

// Get looks up a key's value from the cache.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.c.Get(key); ok {
		l.stats.Hit()
		return v.(V), true
	}
	l.stats.Miss()
	var zero V
	return zero, false
}

// Add adds a value to the cache.
func (l *LRU[K, V]) Add(key K, value V) {
	l.c.Add(key, value)
}

// Remove removes the provided key from the cache.
func (l *LRU[K, V]) Remove(key K) {
	l.c.Remove(key)
}

// Len returns the number of items in the cache.
func (l *LRU[K, V]) Len() int {
	return l.c.Len()
}

// Stats returns the lookup counters and whether the hit rate moved since
// the last call.
func (l *LRU[K, V]) Stats() (StatsSnapshot, bool) {
	return l.stats.Snapshot()
}

// Loader defines loader to load value.
type Loader[K comparable, V any] func(key K) (V, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader Loader[K, V]) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		var zero V
		return zero, err
	}

	l.Add(key, v)
	return v, nil
}
