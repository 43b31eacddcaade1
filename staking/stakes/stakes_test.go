// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/parastake/parastake/para"
)

func bond(name string, amount uint64) Bond {
	return Bond{Owner: para.NamedAddress(name), Amount: uint256.NewInt(amount)}
}

func owners(bs Bonds) []para.Address {
	out := make([]para.Address, len(bs))
	for i, b := range bs {
		out[i] = b.Owner
	}
	return out
}

func TestBondsOrder(t *testing.T) {
	var bs Bonds
	bs = bs.Insert(bond("a", 10))
	bs = bs.Insert(bond("b", 30))
	bs = bs.Insert(bond("c", 20))

	assert.Equal(t, []para.Address{
		para.NamedAddress("b"), para.NamedAddress("c"), para.NamedAddress("a"),
	}, owners(bs))
	assert.Equal(t, uint64(60), bs.Sum().Uint64())

	// replacing moves the bond
	bs = bs.Insert(bond("a", 40))
	assert.Equal(t, para.NamedAddress("a"), bs[0].Owner)
	assert.Len(t, bs, 3)
	assert.Equal(t, uint64(90), bs.Sum().Uint64())

	top := bs.Top(2)
	assert.Equal(t, uint64(70), top.Sum().Uint64())
	assert.Len(t, bs.Top(10), 3)
}

func TestBondsTieBreak(t *testing.T) {
	x, y := bond("x", 5), bond("y", 5)
	var bs Bonds
	bs = bs.Insert(y).Insert(x)

	first, second := x.Owner, y.Owner
	if first.Compare(second) > 0 {
		first, second = second, first
	}
	assert.Equal(t, []para.Address{first, second}, owners(bs))
}

func TestBondsRemoveDoesNotAlias(t *testing.T) {
	bs := Bonds{bond("a", 2), bond("b", 1)}
	removed := bs.Remove(para.NamedAddress("a"))

	assert.Len(t, removed, 1)
	assert.Len(t, bs, 2)
	assert.Equal(t, para.NamedAddress("a"), bs[0].Owner)

	_, ok := removed.Find(para.NamedAddress("a"))
	assert.False(t, ok)
	found, ok := bs.Find(para.NamedAddress("b"))
	assert.True(t, ok)
	assert.Equal(t, uint64(1), found.Amount.Uint64())
}
