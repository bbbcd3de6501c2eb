// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket namespaces keys of a shared store by prefixing them.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewStore returns a view of src holding only the keys of the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucket: b, src: src}
}

type bucketStore struct {
	bucket Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.bucket.key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.bucket.key(key)) }

func (s *bucketStore) Bulk() Bulk {
	return &bucketBulk{bucket: s.bucket, src: s.src.Bulk()}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	limit := util.BytesPrefix([]byte(s.bucket)).Limit
	if len(r.Limit) > 0 {
		limit = s.bucket.key(r.Limit)
	}
	return &bucketIterator{
		Iterator: s.src.Iterate(Range{Start: s.bucket.key(r.Start), Limit: limit}),
		n:        len(s.bucket),
	}
}

type bucketBulk struct {
	bucket Bucket
	src    Bulk
}

func (b *bucketBulk) Put(key, val []byte) error { return b.src.Put(b.bucket.key(key), val) }
func (b *bucketBulk) Delete(key []byte) error   { return b.src.Delete(b.bucket.key(key)) }
func (b *bucketBulk) Write() error              { return b.src.Write() }

// bucketIterator strips the bucket prefix from keys.
type bucketIterator struct {
	Iterator
	n int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.n:] }
