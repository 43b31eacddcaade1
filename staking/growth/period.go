// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package growth

import (
	"github.com/holiman/uint256"

	"github.com/parastake/parastake/para"
)

// Status is the lifecycle of a growth period.
type Status uint8

const (
	StatusAccumulating Status = iota
	StatusClosed              // snapshot frozen, waiting for a mint request
	StatusTriggered           // mint requested, waiting for the lift
	StatusCompleted
	StatusSkipped // gating failed, no mint request
)

func (s Status) String() string {
	switch s {
	case StatusAccumulating:
		return "accumulating"
	case StatusClosed:
		return "closed"
	case StatusTriggered:
		return "triggered"
	case StatusCompleted:
		return "completed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Snapshot is the frozen pair sent with a mint request.
type Snapshot struct {
	AverageStake *uint256.Int
	TotalRewards *uint256.Int
}

// Period aggregates the matured eras [StartEra, StartEra+Length).
type Period struct {
	Index        uint64
	StartEra     uint64
	Length       uint64
	Count        uint64 // accumulated eras
	TotalStake   *uint256.Int
	TotalRewards *uint256.Int
	TotalPoints  uint64
	Status       Status

	RequestID   uint64
	Snapshot    Snapshot
	Lifted      *uint256.Int
	Distributed *uint256.Int
	Dust        *uint256.Int
}

func newPeriod(index, start, length uint64) *Period {
	return &Period{
		Index:        index,
		StartEra:     start,
		Length:       length,
		TotalStake:   new(uint256.Int),
		TotalRewards: new(uint256.Int),
		Snapshot:     Snapshot{AverageStake: new(uint256.Int), TotalRewards: new(uint256.Int)},
		Lifted:       new(uint256.Int),
		Distributed:  new(uint256.Int),
		Dust:         new(uint256.Int),
	}
}

// EndEra is the first era past the period.
func (p *Period) EndEra() uint64 {
	return p.StartEra + p.Length
}

// gate reports whether a closed period may request growth.
func (p *Period) gate(enabled bool) bool {
	return enabled && p.Count > 0 && !p.TotalStake.IsZero() && !p.TotalRewards.IsZero()
}

// Score is the points a collator earned across a period.
type Score struct {
	Collator para.Address
	Points   uint64
}
