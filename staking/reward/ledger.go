// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"github.com/holiman/uint256"
)

// State is the lifecycle of an era reward ledger.
type State uint8

const (
	StateComputed State = iota
	StatePaying
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateComputed:
		return "computed"
	case StatePaying:
		return "paying"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Ledger is the computed reward of one era and its payment progress.
type Ledger struct {
	Era         uint64
	TotalPoints uint64
	TotalReward *uint256.Int // pot amount reserved for the era
	Allocated   *uint256.Int // sum of all payouts
	Payouts     []*Payout
	Cursor      uint64 // index of the next unpaid payout
	State       State
	Paid        *uint256.Int
	Forfeited   *uint256.Int
}

// NewLedger returns a ledger in the computed state.
func NewLedger(era, totalPoints uint64, totalReward *uint256.Int, payouts []*Payout) *Ledger {
	allocated := new(uint256.Int)
	for _, p := range payouts {
		allocated.Add(allocated, p.Allocated())
	}
	return &Ledger{
		Era:         era,
		TotalPoints: totalPoints,
		TotalReward: new(uint256.Int).Set(totalReward),
		Allocated:   allocated,
		Payouts:     payouts,
		State:       StateComputed,
		Paid:        new(uint256.Int),
		Forfeited:   new(uint256.Int),
	}
}

// Next returns the next unpaid payout, nil once the cursor is exhausted.
func (l *Ledger) Next() *Payout {
	if l.Cursor >= uint64(len(l.Payouts)) {
		return nil
	}
	return l.Payouts[l.Cursor]
}

// Remaining is the number of unpaid payouts.
func (l *Ledger) Remaining() uint64 {
	return uint64(len(l.Payouts)) - l.Cursor
}

// Outstanding is the allocated amount neither paid nor forfeited yet.
func (l *Ledger) Outstanding() *uint256.Int {
	released := new(uint256.Int).Add(l.Paid, l.Forfeited)
	if released.Cmp(l.Allocated) >= 0 {
		return new(uint256.Int)
	}
	return released.Sub(l.Allocated, released)
}
