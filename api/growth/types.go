// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package growth

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/growth"
)

type Score struct {
	Collator para.Address `json:"collator"`
	Points   uint64       `json:"points"`
}

// Period is a growth period. Scores are only filled when a single period is queried.
type Period struct {
	Index        uint64                `json:"index"`
	Status       string                `json:"status"`
	StartEra     uint64                `json:"startEra"`
	Length       uint64                `json:"length"`
	Count        uint64                `json:"count"`
	TotalStake   *math.HexOrDecimal256 `json:"totalStake"`
	TotalRewards *math.HexOrDecimal256 `json:"totalRewards"`
	TotalPoints  uint64                `json:"totalPoints"`
	RequestID    uint64                `json:"requestId,omitempty"`
	AverageStake *math.HexOrDecimal256 `json:"averageStake"`
	Lifted       *math.HexOrDecimal256 `json:"lifted"`
	Distributed  *math.HexOrDecimal256 `json:"distributed"`
	Dust         *math.HexOrDecimal256 `json:"dust"`
	Scores       []Score               `json:"scores,omitempty"`
}

type Overview struct {
	Current     *Period  `json:"current"`
	Last        uint64   `json:"last"`
	Queue       []uint64 `json:"queue"`
	Outstanding uint64   `json:"outstanding,omitempty"`
}

func convertPeriod(p *growth.Period) *Period {
	if p == nil {
		return nil
	}
	return &Period{
		Index:        p.Index,
		Status:       p.Status.String(),
		StartEra:     p.StartEra,
		Length:       p.Length,
		Count:        p.Count,
		TotalStake:   utils.Amount(p.TotalStake),
		TotalRewards: utils.Amount(p.TotalRewards),
		TotalPoints:  p.TotalPoints,
		RequestID:    p.RequestID,
		AverageStake: utils.Amount(p.Snapshot.AverageStake),
		Lifted:       utils.Amount(p.Lifted),
		Distributed:  utils.Amount(p.Distributed),
		Dust:         utils.Amount(p.Dust),
	}
}
