// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBulkAndBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	accounts := kv.Bucket("a").NewStore(db)
	bulk := accounts.Bulk()
	require.NoError(t, bulk.Put([]byte("1"), []byte("one")))
	require.NoError(t, bulk.Put([]byte("2"), []byte("two")))
	require.NoError(t, db.Put([]byte("b1"), []byte("other bucket")))

	_, err = accounts.Get([]byte("1"))
	assert.True(t, accounts.IsNotFound(err), "bulk not written yet")

	require.NoError(t, bulk.Write())

	iter := accounts.Iterate(kv.Range{})
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
}
