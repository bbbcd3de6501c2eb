// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/kv"
	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
)

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBucketGetPut(t *testing.T) {
	db := newStore(t)
	a := kv.Bucket("a").NewStore(db)
	b := kv.Bucket("b").NewStore(db)

	require.NoError(t, a.Put([]byte("k"), []byte("va")))
	require.NoError(t, b.Put([]byte("k"), []byte("vb")))

	v, err := a.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("va"), v)

	raw, err := db.Get([]byte("bk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("vb"), raw)

	require.NoError(t, a.Delete([]byte("k")))
	has, err := a.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = a.Get([]byte("k"))
	assert.True(t, a.IsNotFound(err))

	has, err = b.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketBulk(t *testing.T) {
	db := newStore(t)
	a := kv.Bucket("a").NewStore(db)

	bulk := a.Bulk()
	require.NoError(t, bulk.Put([]byte("1"), []byte("x")))
	require.NoError(t, bulk.Put([]byte("2"), []byte("y")))

	has, err := a.Has([]byte("1"))
	require.NoError(t, err)
	assert.False(t, has, "not written before Write")

	require.NoError(t, bulk.Write())
	has, err = a.Has([]byte("1"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketIterate(t *testing.T) {
	db := newStore(t)
	a := kv.Bucket("a").NewStore(db)
	require.NoError(t, db.Put([]byte("_before"), nil))
	require.NoError(t, db.Put([]byte("b_after"), nil))
	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, a.Put([]byte(k), []byte("v"+k)))
	}

	collect := func(r kv.Range) []string {
		it := a.Iterate(r)
		defer it.Release()
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		return keys
	}
	assert.Equal(t, []string{"1", "2", "3"}, collect(kv.Range{}))
	assert.Equal(t, []string{"2"}, collect(kv.Range{Start: []byte("2"), Limit: []byte("3")}))
}
