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

	"github.com/parastake/parastake/kv"
)

func TestLevelDB(t *testing.T) {
	persistent, err := New(filepath.Join(t.TempDir(), "state.db"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put([]byte("123"), []byte("456")))

		val, err := db.Get([]byte("123"))
		require.NoError(t, err)
		assert.Equal(t, []byte("456"), val)

		has, err := db.Has([]byte("abc"))
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete([]byte("123")))
		_, err = db.Get([]byte("123"))
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	bucket := kv.Bucket("s")
	putter := bucket.NewPutter(batch)
	for _, k := range []string{"b", "a", "c"} {
		require.NoError(t, putter.Put([]byte(k), []byte("v"+k)))
	}
	require.NoError(t, db.Put([]byte("t"), []byte("other")))
	assert.Equal(t, 3, batch.Len())

	has, err := bucket.NewGetter(db).Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has, "batch must not be visible before write")

	require.NoError(t, batch.Write())

	it := bucket.Iterate(db, kv.Range{})
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"sa", "sb", "sc"}, keys)
}
