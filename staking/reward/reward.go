// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes the era rewards owed to selected candidates and their nominators.
package reward

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/stakes"
)

// ErrRewardArithmeticOverflow is returned when an intermediate product does not fit 256 bits.
var ErrRewardArithmeticOverflow = errors.New("reward arithmetic overflow")

// Input is the points and frozen stake of one selected candidate.
type Input struct {
	Candidate   para.Address
	Points      uint64
	Bond        *uint256.Int
	Nominations stakes.Bonds
	Total       *uint256.Int
}

// Share is an amount owed to one account.
type Share struct {
	Account para.Address
	Amount  *uint256.Int
}

// Payout is the reward of a candidate and its counted nominations.
type Payout struct {
	Candidate   para.Address
	Points      uint64
	Reward      *uint256.Int // candidate era reward before the stake split
	Self        *uint256.Int
	Nominations []Share
}

// Shares returns every transfer of the payout, candidate first.
func (p *Payout) Shares() []Share {
	shares := make([]Share, 0, len(p.Nominations)+1)
	shares = append(shares, Share{Account: p.Candidate, Amount: p.Self})
	return append(shares, p.Nominations...)
}

// Allocated is the sum of the shares, never more than Reward.
func (p *Payout) Allocated() *uint256.Int {
	sum := new(uint256.Int).Set(p.Self)
	for _, n := range p.Nominations {
		sum.Add(sum, n.Amount)
	}
	return sum
}

// mulDiv returns x*y/z rounded toward zero. z must not be zero.
func mulDiv(x, y, z *uint256.Int) (*uint256.Int, error) {
	prod, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrRewardArithmeticOverflow
	}
	return prod.Div(prod, z), nil
}

// Compute splits totalReward across the inputs by points, then each candidate
// share by stake. Candidates without points are left out. Remainders are not
// redistributed. Payouts are ordered by candidate identity.
func Compute(totalReward *uint256.Int, totalPoints uint64, inputs []*Input) ([]*Payout, error) {
	if totalPoints == 0 || totalReward.IsZero() {
		return nil, nil
	}
	var (
		total    = uint256.NewInt(totalPoints)
		payouts  = make([]*Payout, 0, len(inputs))
		assigned uint64
	)
	for _, in := range inputs {
		if in.Points == 0 {
			continue
		}
		assigned += in.Points
		if assigned > totalPoints || assigned < in.Points {
			return nil, errors.Errorf("candidate points exceed era total %d", totalPoints)
		}

		eraReward, err := mulDiv(totalReward, uint256.NewInt(in.Points), total)
		if err != nil {
			return nil, err
		}
		payout := &Payout{
			Candidate: in.Candidate,
			Points:    in.Points,
			Reward:    eraReward,
		}

		if in.Total == nil || in.Total.IsZero() {
			payout.Self = new(uint256.Int).Set(eraReward)
		} else {
			if payout.Self, err = mulDiv(eraReward, in.Bond, in.Total); err != nil {
				return nil, err
			}
			for _, n := range in.Nominations {
				amount, err := mulDiv(eraReward, n.Amount, in.Total)
				if err != nil {
					return nil, err
				}
				payout.Nominations = append(payout.Nominations, Share{Account: n.Owner, Amount: amount})
			}
		}
		payouts = append(payouts, payout)
	}

	slices.SortFunc(payouts, func(a, b *Payout) int {
		return a.Candidate.Compare(b.Candidate)
	})
	return payouts, nil
}
