// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the ordered key value store the accounts db sits on.
package kv

// Getter reads values. Get fails for missing keys, the error can be
// told apart with IsNotFound.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write applies them atomically.
type Bulk interface {
	Putter
	Write() error
}

// Iterator walks keys in ascending order. Key and Value are only valid
// until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range selects keys in [Start, Limit). A nil Limit means no upper bound.
type Range struct {
	Start []byte
	Limit []byte
}

// Store is a full ordered kv store.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
	Iterate(r Range) Iterator
}
