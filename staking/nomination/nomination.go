// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nomination

import (
	"github.com/holiman/uint256"

	"github.com/parastake/parastake/para"
)

type Status uint8

const (
	StatusActive Status = iota + 1
	StatusRevoking
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRevoking:
		return "revoking"
	default:
		return "unknown"
	}
}

// Nomination is a bond of a nominator backing one candidate.
type Nomination struct {
	Candidate para.Address
	Amount    *uint256.Int
	Status    Status
	RevokeEra uint64 // era the revoke executes, set while revoking

	LessAmount *uint256.Int
	LessEra    uint64 // era the decrease executes, 0 when none is pending
}

// HasDecrease reports whether a decrease is pending.
func (n *Nomination) HasDecrease() bool {
	return n.LessEra != 0
}

// Nominator holds the nominations of an account, ordered by candidate.
type Nominator struct {
	Nominations []*Nomination
}

func (n *Nominator) IsEmpty() bool {
	return n == nil || len(n.Nominations) == 0
}

// Total returns the sum of all nominations, revoking ones included.
func (n *Nominator) Total() *uint256.Int {
	total := new(uint256.Int)
	if n == nil {
		return total
	}
	for _, nom := range n.Nominations {
		total.Add(total, nom.Amount)
	}
	return total
}

// Find returns the nomination to a candidate.
func (n *Nominator) Find(candidate para.Address) *Nomination {
	if n == nil {
		return nil
	}
	for _, nom := range n.Nominations {
		if nom.Candidate == candidate {
			return nom
		}
	}
	return nil
}
