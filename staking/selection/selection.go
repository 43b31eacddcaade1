// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package selection computes the collator set of an era from the stake ledger.
package selection

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/parastake/parastake/para"
)

// Candidate is the stake ledger view of a candidate at rollover.
type Candidate struct {
	ID     para.Address
	Active bool
	Bond   *uint256.Int
	Total  *uint256.Int
}

// Eligible reports whether the candidate may be selected.
func (c *Candidate) Eligible(minStake *uint256.Int) bool {
	return c.Active && c.Bond != nil && c.Bond.Cmp(minStake) >= 0
}

// compare orders by total stake descending then identity ascending.
func compare(a, b *Candidate) int {
	if c := b.Total.Cmp(a.Total); c != 0 {
		return c
	}
	return a.ID.Compare(b.ID)
}

// Select returns the top n eligible candidates in ascending identity order.
// The input is not modified and its order does not affect the result.
func Select(candidates []*Candidate, minStake *uint256.Int, n int) []para.Address {
	eligible := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Eligible(minStake) {
			eligible = append(eligible, c)
		}
	}
	slices.SortFunc(eligible, compare)
	if len(eligible) > n {
		eligible = eligible[:n]
	}

	selected := make([]para.Address, 0, len(eligible))
	for _, c := range eligible {
		selected = append(selected, c.ID)
	}
	slices.SortFunc(selected, para.Address.Compare)
	return selected
}
