// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/state"
)

type testStruct struct {
	Field1 uint64
	Addr   para.Address
	Amount *uint256.Int
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(para.NamedAddress("test"), state.NewStater(db).NewState(para.Bytes32{}))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[para.Address, *testStruct](ctx, para.BytesToBytes32([]byte("structs")))

	addr := para.NamedAddress("alice")
	v, err := m.Get(addr)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, m.Set(addr, &testStruct{Field1: 1, Addr: addr, Amount: uint256.NewInt(10)}))
	v, err = m.Get(addr)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(1), v.Field1)
	assert.Equal(t, addr, v.Addr)
	assert.Equal(t, uint256.NewInt(10), v.Amount)

	m.Delete(addr)
	v, err = m.Get(addr)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMappingKeysDoNotCollide(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[Uint64Key, uint64](ctx, para.BytesToBytes32([]byte("a")))
	b := NewMapping[Uint64Key, uint64](ctx, para.BytesToBytes32([]byte("b")))

	require.NoError(t, a.Set(1, 100))
	got, err := b.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	pair := NewMapping[PairKey, uint64](ctx, para.BytesToBytes32([]byte("pair")))
	alice, bob := para.NamedAddress("alice"), para.NamedAddress("bob")
	require.NoError(t, pair.Set(PairKey{alice, bob}, 1))
	got, err = pair.Get(PairKey{bob, alice})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, para.BytesToBytes32([]byte("total")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	require.NoError(t, u.Add(uint256.NewInt(5)))
	require.NoError(t, u.Sub(uint256.NewInt(2)))
	v, _ = u.Get()
	assert.Equal(t, uint64(3), v.Uint64())

	assert.Error(t, u.Sub(uint256.NewInt(4)))
	v, _ = u.Get()
	assert.Equal(t, uint64(3), v.Uint64())
}

func TestValue(t *testing.T) {
	ctx := newTestContext(t)
	v := NewValue[[]para.Address](ctx, para.BytesToBytes32([]byte("list")))

	list, err := v.Get()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, v.Set([]para.Address{para.NamedAddress("a"), para.NamedAddress("b")}))
	list, err = v.Get()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
