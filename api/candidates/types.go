// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidates

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/candidate"
)

type Nomination struct {
	Nominator para.Address          `json:"nominator"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Counted   bool                  `json:"counted"`
}

// Request is a pending self bond decrease.
type Request struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
	Era    uint64                `json:"era"`
}

// Candidate is a candidate ledger entry.
type Candidate struct {
	ID           para.Address          `json:"id"`
	Status       string                `json:"status"`
	Bond         *math.HexOrDecimal256 `json:"bond"`
	TotalCounted *math.HexOrDecimal256 `json:"totalCounted"`
	TotalBacking *math.HexOrDecimal256 `json:"totalBacking"`
	LeaveEra     uint64                `json:"leaveEra,omitempty"`
	Unbond       *Request              `json:"unbond,omitempty"`
	Nominations  []Nomination          `json:"nominations"`
}

func convertCandidate(id para.Address, c *candidate.Candidate) *Candidate {
	counted := len(c.CountedNominations())
	noms := make([]Nomination, 0, len(c.Nominations))
	for i, b := range c.Nominations {
		noms = append(noms, Nomination{
			Nominator: b.Owner,
			Amount:    utils.Amount(b.Amount),
			Counted:   i < counted,
		})
	}
	var unbond *Request
	if c.HasUnbondRequest() {
		unbond = &Request{Amount: utils.Amount(c.UnbondAmount), Era: c.UnbondEra}
	}
	return &Candidate{
		ID:           id,
		Status:       c.Status.String(),
		Bond:         utils.Amount(c.Bond),
		TotalCounted: utils.Amount(c.TotalCounted),
		TotalBacking: utils.Amount(c.TotalBacking()),
		LeaveEra:     c.LeaveEra,
		Unbond:       unbond,
		Nominations:  noms,
	}
}
