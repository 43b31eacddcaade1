// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/holiman/uint256"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/stakes"
)

type Status uint8

const (
	StatusUnknown Status = iota
	StatusActive
	StatusLeaving
	StatusLeft
	StatusIdle
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusLeaving:
		return "leaving"
	case StatusLeft:
		return "left"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Candidate is the stake ledger entry of a collator candidate.
type Candidate struct {
	Bond     *uint256.Int
	Status   Status
	LeaveEra uint64 // era the leave request executes, set while leaving

	// Nominations holds the active nominations, amount descending.
	Nominations stakes.Bonds
	// TotalCounted is the bond plus the counted nominations.
	TotalCounted *uint256.Int

	UnbondAmount *uint256.Int
	UnbondEra    uint64 // era the self bond decrease executes, 0 when none is pending
}

func (c *Candidate) IsEmpty() bool {
	return c == nil || c.Status == StatusUnknown
}

// HasUnbondRequest reports whether a self bond decrease is pending.
func (c *Candidate) HasUnbondRequest() bool {
	return c.UnbondEra != 0
}

// CountedNominations returns the nominations counted toward the backed stake.
func (c *Candidate) CountedNominations() stakes.Bonds {
	return c.Nominations.Top(int(para.MaxCountedNominations()))
}

// TotalBacking is the bond plus every active nomination, counted or not.
func (c *Candidate) TotalBacking() *uint256.Int {
	return new(uint256.Int).Add(c.Bond, c.Nominations.Sum())
}

func (c *Candidate) recompute() {
	c.TotalCounted = new(uint256.Int).Add(c.Bond, c.CountedNominations().Sum())
}
