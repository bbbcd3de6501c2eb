// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs kv.Store with goleveldb, on disk or in memory.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/jito-foundation/jito-tip-router-sub002/kv"
)

var _ kv.Store = (*LevelDB)(nil)

const minCacheMiB = 16

// Options tunes the database. Values below 16 are raised to 16.
type Options struct {
	CacheSize              int // MiB, split between block cache and write buffers
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, minCacheMiB)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minCacheMiB),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // two are kept during compaction
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a kv.Store on goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage at '%v'", path)
	}
	return open(stg, opts)
}

// NewMem creates a database that lives only in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error satisfying IsNotFound for missing keys.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// Close releases the database. Later calls fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: ldb.db}
}

func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

type bulk struct {
	db    *leveldb.DB
	batch leveldb.Batch
}

func (b *bulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

// Write applies the buffered ops and resets the bulk for reuse.
func (b *bulk) Write() error {
	if err := b.db.Write(&b.batch, nil); err != nil {
		return err
	}
	b.batch.Reset()
	return nil
}
