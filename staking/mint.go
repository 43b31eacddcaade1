// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reverts"
)

// OnMintConfirmed distributes a confirmed growth mint, already credited to the
// growth pot, across the collators of the correlated period. Unknown or
// already processed requests are rejected without any balance change.
func (s *Staker) OnMintConfirmed(requestID uint64, amount *uint256.Int) error {
	err := s.atomic(func() error {
		p, err := s.growth.Lift(requestID, amount, func(to para.Address, share *uint256.Int) error {
			return s.atomic(func() error {
				return s.balances.Transfer(GrowthPot, to, share)
			})
		})
		if err != nil {
			return err
		}
		logger.Info("growth lifted",
			"index", p.Index,
			"request", requestID,
			"amount", amount,
			"distributed", p.Distributed,
			"dust", p.Dust)
		return nil
	})
	if err != nil {
		if reverts.IsRevertErr(err) {
			metricGrowthLifts().AddWithLabel(1, map[string]string{"result": "rejected"})
			logger.Warn("growth lift rejected", "request", requestID, "amount", amount, "err", err)
		}
		return err
	}
	metricGrowthLifts().AddWithLabel(1, map[string]string{"result": "completed"})
	return nil
}

// OnMintRequestResult records whether the bridge accepted a mint request. A
// rejected request is issued again at a later rollover.
func (s *Staker) OnMintRequestResult(requestID uint64, succeeded bool) error {
	return s.atomic(func() error {
		p, err := s.growth.OnRequestResult(requestID, succeeded)
		if err != nil {
			return err
		}
		if !succeeded {
			logger.Warn("growth mint request failed, period requeued", "index", p.Index, "request", requestID)
		}
		return nil
	})
}
