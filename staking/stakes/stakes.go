// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/parastake/parastake/para"
)

// Bond is an amount bonded by an owner.
type Bond struct {
	Owner  para.Address
	Amount *uint256.Int
}

// Bonds is a list of bonds ordered by amount descending, then owner ascending.
type Bonds []Bond

func compare(a, b Bond) int {
	if c := b.Amount.Cmp(a.Amount); c != 0 {
		return c
	}
	return a.Owner.Compare(b.Owner)
}

// Insert adds or replaces the bond of an owner, keeping the order.
func (bs Bonds) Insert(bond Bond) Bonds {
	out := bs.Remove(bond.Owner)
	i, _ := slices.BinarySearchFunc(out, bond, compare)
	return slices.Insert(out, i, bond)
}

// Remove drops the bond of an owner.
func (bs Bonds) Remove(owner para.Address) Bonds {
	return slices.DeleteFunc(slices.Clone(bs), func(b Bond) bool { return b.Owner == owner })
}

// Find returns the bond of an owner.
func (bs Bonds) Find(owner para.Address) (Bond, bool) {
	for _, b := range bs {
		if b.Owner == owner {
			return b, true
		}
	}
	return Bond{}, false
}

// Top returns at most n leading bonds.
func (bs Bonds) Top(n int) Bonds {
	if len(bs) > n {
		return bs[:n]
	}
	return bs
}

// Sum adds up all amounts. Amounts are bounded by the issuance, the sum can not overflow.
func (bs Bonds) Sum() *uint256.Int {
	sum := new(uint256.Int)
	for _, b := range bs {
		sum.Add(sum, b.Amount)
	}
	return sum
}

// Clone deep copies the bonds.
func (bs Bonds) Clone() Bonds {
	out := make(Bonds, len(bs))
	for i, b := range bs {
		out[i] = Bond{Owner: b.Owner, Amount: b.Amount.Clone()}
	}
	return out
}
