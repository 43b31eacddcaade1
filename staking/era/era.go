// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"github.com/holiman/uint256"

	"github.com/parastake/parastake/staking/stakes"
)

// Info is the era counter and cadence.
type Info struct {
	Current uint64 // era index, the first era is 1
	First   uint64 // block number the current era started
	Length  uint32 // blocks in the current era
}

// ShouldUpdate reports whether the block starts a new era.
func (i *Info) ShouldUpdate(block uint64) bool {
	return block >= i.First && block-i.First >= uint64(i.Length)
}

// Next returns the info of the era starting at block.
func (i *Info) Next(block uint64, length uint32) *Info {
	return &Info{
		Current: i.Current + 1,
		First:   block,
		Length:  length,
	}
}

// Snapshot is the stake of a selected candidate frozen at the start of an era.
type Snapshot struct {
	Bond        *uint256.Int
	Nominations stakes.Bonds // counted nominations only
	Total       *uint256.Int
}
