// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eras

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/era"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/staking/stakes"
)

type Settings struct {
	Delay                    uint64                `json:"delay"`
	MinCollatorStake         *math.HexOrDecimal256 `json:"minCollatorStake"`
	MinNominationPerCollator *math.HexOrDecimal256 `json:"minNominationPerCollator"`
	TotalSelected            uint32                `json:"totalSelected"`
	BlocksPerEra             uint32                `json:"blocksPerEra"`
	RewardPaymentDelay       uint64                `json:"rewardPaymentDelay"`
	ErasPerGrowthPeriod      uint64                `json:"erasPerGrowthPeriod"`
	GrowthEnabled            bool                  `json:"growthEnabled"`
	EraRewardAllocation      *math.HexOrDecimal256 `json:"eraRewardAllocation"`
}

func convertSettings(s *params.Settings) *Settings {
	return &Settings{
		Delay:                    s.Delay,
		MinCollatorStake:         utils.Amount(s.MinCollatorStake),
		MinNominationPerCollator: utils.Amount(s.MinNominationPerCollator),
		TotalSelected:            s.TotalSelected,
		BlocksPerEra:             s.BlocksPerEra,
		RewardPaymentDelay:       s.RewardPaymentDelay,
		ErasPerGrowthPeriod:      s.ErasPerGrowthPeriod,
		GrowthEnabled:            s.GrowthEnabled,
		EraRewardAllocation:      utils.Amount(s.EraRewardAllocation),
	}
}

// Era is the current era together with the reward pot position.
type Era struct {
	Head      uint64                `json:"head"`
	Current   uint64                `json:"current"`
	First     uint64                `json:"first"`
	Length    uint32                `json:"length"`
	Staked    *math.HexOrDecimal256 `json:"staked"`
	RewardPot *math.HexOrDecimal256 `json:"rewardPot"`
	Locked    *math.HexOrDecimal256 `json:"locked"`
	Available *math.HexOrDecimal256 `json:"available"`
	Settings  *Settings             `json:"settings"`
}

type Bond struct {
	Owner  para.Address          `json:"owner"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func convertBonds(bonds stakes.Bonds) []Bond {
	out := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		out = append(out, Bond{Owner: b.Owner, Amount: utils.Amount(b.Amount)})
	}
	return out
}

// Collator is a selected collator with its frozen stake.
type Collator struct {
	ID          para.Address          `json:"id"`
	Bond        *math.HexOrDecimal256 `json:"bond"`
	Total       *math.HexOrDecimal256 `json:"total"`
	Nominations []Bond                `json:"nominations"`
	Points      uint64                `json:"points"`
}

func convertCollator(id para.Address, snap *era.Snapshot, points uint64) *Collator {
	return &Collator{
		ID:          id,
		Bond:        utils.Amount(snap.Bond),
		Total:       utils.Amount(snap.Total),
		Nominations: convertBonds(snap.Nominations),
		Points:      points,
	}
}

type Selected struct {
	Era         uint64                `json:"era"`
	Staked      *math.HexOrDecimal256 `json:"staked"`
	TotalPoints uint64                `json:"totalPoints"`
	Collators   []*Collator           `json:"collators"`
}
