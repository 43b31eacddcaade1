// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payouts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reward"
)

type Share struct {
	Account para.Address          `json:"account"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type Payout struct {
	Candidate   para.Address          `json:"candidate"`
	Points      uint64                `json:"points"`
	Reward      *math.HexOrDecimal256 `json:"reward"`
	Self        *math.HexOrDecimal256 `json:"self"`
	Nominations []Share               `json:"nominations"`
	Paid        bool                  `json:"paid"`
}

// LedgerSummary is a reward ledger without its payouts.
type LedgerSummary struct {
	Era         uint64                `json:"era"`
	State       string                `json:"state"`
	TotalPoints uint64                `json:"totalPoints"`
	TotalReward *math.HexOrDecimal256 `json:"totalReward"`
	Allocated   *math.HexOrDecimal256 `json:"allocated"`
	Paid        *math.HexOrDecimal256 `json:"paid"`
	Forfeited   *math.HexOrDecimal256 `json:"forfeited"`
	Remaining   uint64                `json:"remaining"`
}

type Ledger struct {
	LedgerSummary
	Payouts []*Payout `json:"payouts"`
}

type Overview struct {
	Locked    *math.HexOrDecimal256 `json:"locked"`
	Available *math.HexOrDecimal256 `json:"available"`
	Paying    []uint64              `json:"paying"`
	Ledgers   []*LedgerSummary      `json:"ledgers"`
}

func convertSummary(l *reward.Ledger) *LedgerSummary {
	return &LedgerSummary{
		Era:         l.Era,
		State:       l.State.String(),
		TotalPoints: l.TotalPoints,
		TotalReward: utils.Amount(l.TotalReward),
		Allocated:   utils.Amount(l.Allocated),
		Paid:        utils.Amount(l.Paid),
		Forfeited:   utils.Amount(l.Forfeited),
		Remaining:   l.Remaining(),
	}
}

func convertLedger(l *reward.Ledger) *Ledger {
	out := &Ledger{
		LedgerSummary: *convertSummary(l),
		Payouts:       make([]*Payout, 0, len(l.Payouts)),
	}
	for i, p := range l.Payouts {
		shares := make([]Share, 0, len(p.Nominations))
		for _, s := range p.Nominations {
			shares = append(shares, Share{Account: s.Account, Amount: utils.Amount(s.Amount)})
		}
		out.Payouts = append(out.Payouts, &Payout{
			Candidate:   p.Candidate,
			Points:      p.Points,
			Reward:      utils.Amount(p.Reward),
			Self:        utils.Amount(p.Self),
			Nominations: shares,
			Paid:        uint64(i) < l.Cursor,
		})
	}
	return out
}
