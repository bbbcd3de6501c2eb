// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/jito-foundation/jito-tip-router-sub002/cache"
	"github.com/jito-foundation/jito-tip-router-sub002/kv"
)

const (
	accountsBucket = kv.Bucket("a")
	metaBucket     = kv.Bucket("m")
)

var slotKey = []byte("slot")

// AccountsDB persists accounts into a kv store. Blobs are borsh encoded and
// snappy compressed, decoded accounts are kept in an LRU cache.
type AccountsDB struct {
	accounts kv.Store
	meta     kv.Store
	cache    *cache.LRU[solana.PublicKey, *Account]
}

// NewAccountsDB creates an accounts db over the given store.
func NewAccountsDB(store kv.Store, cacheSize int) (*AccountsDB, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	c, err := cache.NewLRU[solana.PublicKey, *Account](cacheSize)
	if err != nil {
		return nil, err
	}
	return &AccountsDB{
		accounts: accountsBucket.NewStore(store),
		meta:     metaBucket.NewStore(store),
		cache:    c,
	}, nil
}

// Get returns a copy of the stored account. The bool result is false when
// nothing is stored at key.
func (db *AccountsDB) Get(key solana.PublicKey) (*Account, bool, error) {
	if acc, ok := db.cache.Get(key); ok {
		if acc == nil {
			return nil, false, nil
		}
		return acc.Clone(), true, nil
	}

	blob, err := db.accounts.Get(key[:])
	if err != nil {
		if db.accounts.IsNotFound(err) {
			db.cache.Add(key, nil)
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "get account")
	}
	acc, err := decodeAccount(blob)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decode account %v", key)
	}
	db.cache.Add(key, acc)
	return acc.Clone(), true, nil
}

// Commit writes the given accounts in one batch. Empty accounts are deleted.
func (db *AccountsDB) Commit(changes map[solana.PublicKey]*Account) error {
	bulk := db.accounts.Bulk()
	for key, acc := range changes {
		if acc.IsEmpty() {
			if err := bulk.Delete(key[:]); err != nil {
				return err
			}
			continue
		}
		blob, err := encodeAccount(acc)
		if err != nil {
			return errors.Wrapf(err, "encode account %v", key)
		}
		if err := bulk.Put(key[:], blob); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit accounts")
	}

	for key, acc := range changes {
		if acc.IsEmpty() {
			db.cache.Add(key, nil)
		} else {
			db.cache.Add(key, acc.Clone())
		}
	}

	if snap, changed := db.cache.Stats(); changed {
		metricCacheHitRate().Set(snap.PerMille())
		logger.Debug("accounts cache stats", "hit", snap.Hit, "miss", snap.Miss)
	}
	return nil
}

// Iterate walks all stored accounts in key order until fn returns false.
func (db *AccountsDB) Iterate(fn func(key solana.PublicKey, acc *Account) bool) error {
	iter := db.accounts.Iterate(kv.Range{})
	defer iter.Release()

	for iter.Next() {
		acc, err := decodeAccount(iter.Value())
		if err != nil {
			return errors.Wrap(err, "decode account")
		}
		if !fn(solana.PublicKeyFromBytes(iter.Key()), acc) {
			break
		}
	}
	return iter.Error()
}

func (db *AccountsDB) loadSlot() (uint64, bool, error) {
	val, err := db.meta.Get(slotKey)
	if err != nil {
		if db.meta.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "load slot")
	}
	if len(val) != 8 {
		return 0, false, errors.New("corrupted slot record")
	}
	return binary.BigEndian.Uint64(val), true, nil
}

func (db *AccountsDB) saveSlot(slot uint64) error {
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], slot)
	return errors.Wrap(db.meta.Put(slotKey, val[:]), "save slot")
}

func encodeAccount(acc *Account) ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(acc); err != nil {
		return nil, err
	}
	return snappy.Encode(nil, buf.Bytes()), nil
}

func decodeAccount(blob []byte) (*Account, error) {
	raw, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := bin.NewBorshDecoder(raw).Decode(&acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
