// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/candidate"
	"github.com/parastake/parastake/staking/era"
	"github.com/parastake/parastake/staking/growth"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/reward"
	"github.com/parastake/parastake/staking/selection"
)

// Initialize writes the genesis settings.
func (s *Staker) Initialize(settings *params.Settings) error {
	return s.params.Init(settings)
}

// Start opens era 1 at block with the collators selected from the genesis ledger.
func (s *Staker) Start(block uint64) error {
	info, err := s.eras.Info()
	if err != nil {
		return err
	}
	if info != nil {
		return errors.New("staking already started")
	}
	settings, err := s.params.Load()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.eras.SetInfo(&era.Info{Current: 1, First: block, Length: settings.BlocksPerEra}); err != nil {
		return err
	}
	selected, err := s.selectCollators(1, settings)
	if err != nil {
		return err
	}
	logger.Info("staking started", "block", block, "collators", len(selected))
	s.notifySession(1, selected)
	return nil
}

// OnInitialize runs at the start of every block: it rolls the era over when
// due, then releases at most one payout.
func (s *Staker) OnInitialize(block uint64) error {
	info, err := s.Era()
	if err != nil {
		return err
	}
	if info.ShouldUpdate(block) {
		if err := s.rollover(block, info); err != nil {
			return errors.Wrapf(err, "era rollover at block %d", block)
		}
	}
	return s.payNext()
}

// NoteAuthor awards the block points to its author. Authors outside the
// current collator set earn nothing.
func (s *Staker) NoteAuthor(author para.Address) error {
	info, err := s.Era()
	if err != nil {
		return err
	}
	selected, err := s.eras.IsSelected(info.Current, author)
	if err != nil {
		return err
	}
	if !selected {
		logger.Debug("author is not a selected collator, no points", "author", author, "era", info.Current)
		return nil
	}
	return s.points.Award(info.Current, author, uint64(para.PointsPerBlock()))
}

func (s *Staker) rollover(block uint64, info *era.Info) error {
	start := time.Now()

	settings, err := s.params.Load()
	if err != nil {
		return err
	}
	next := info.Next(block, settings.BlocksPerEra)
	if err := s.eras.SetInfo(next); err != nil {
		return err
	}
	current := next.Current

	if err := s.executeDueRequests(current); err != nil {
		return err
	}
	if err := s.rewardMaturedEras(current, settings); err != nil {
		return err
	}
	if err := s.triggerGrowth(); err != nil {
		return err
	}
	selected, err := s.selectCollators(current, settings)
	if err != nil {
		return err
	}
	if err := s.prune(current, settings); err != nil {
		return err
	}
	s.notifySession(current, selected)

	logger.Info("💫new era", "era", current, "block", block, "length", next.Length, "collators", len(selected))
	metricErasStarted().Add(1)
	metricCurrentEra().Set(int64(current))
	metricSelected().Set(int64(len(selected)))
	metricRolloverMillis().Observe(time.Since(start).Milliseconds())
	return nil
}

// executeDueRequests applies the leave, unbond, revoke and decrease requests
// due in the era. A request failing validation is logged and skipped.
func (s *Staker) executeDueRequests(current uint64) error {
	leaves, err := s.candidates.DueLeaves(current)
	if err != nil {
		return err
	}
	for _, id := range leaves {
		if err := s.runDue("leave", func() error { return s.executeLeave(id, current) }, "candidate", id); err != nil {
			return err
		}
	}

	unbonds, err := s.candidates.DueUnbonds(current)
	if err != nil {
		return err
	}
	for _, id := range unbonds {
		if err := s.runDue("unbond", func() error { return s.executeCandidateUnbond(id, current) }, "candidate", id); err != nil {
			return err
		}
	}

	revokes, err := s.nominations.DueRevokes(current)
	if err != nil {
		return err
	}
	for _, pair := range revokes {
		if err := s.runDue("revoke", func() error { return s.executeRevoke(pair.First, pair.Second, current) },
			"nominator", pair.First, "candidate", pair.Second); err != nil {
			return err
		}
	}

	decreases, err := s.nominations.DueDecreases(current)
	if err != nil {
		return err
	}
	for _, pair := range decreases {
		if err := s.runDue("decrease", func() error { return s.executeDecrease(pair.First, pair.Second, current) },
			"nominator", pair.First, "candidate", pair.Second); err != nil {
			return err
		}
	}
	return nil
}

func (s *Staker) runDue(kind string, fn func() error, ctx ...any) error {
	err := s.atomic(fn)
	if err == nil || !reverts.IsRevertErr(err) {
		return err
	}
	logger.Warn("due "+kind+" not executed", append(ctx, "err", err)...)
	return nil
}

// rewardMaturedEras computes the rewards of every era that reached the payment
// delay since the last rollover, oldest first, and feeds growth with them.
func (s *Staker) rewardMaturedEras(current uint64, settings *params.Settings) error {
	last, err := s.rewardedEra.Get()
	if err != nil {
		return err
	}
	for matured := last + 1; matured+settings.RewardPaymentDelay <= current; matured++ {
		ledger, err := s.prepareRewards(matured, settings)
		if err != nil {
			return err
		}
		if err := s.accumulateGrowth(matured, ledger, settings); err != nil {
			return err
		}
		if err := s.rewardedEra.Set(matured); err != nil {
			return err
		}
	}
	return nil
}

// eraReward returns the amount the era may distribute from the reward pot.
func (s *Staker) eraReward(settings *params.Settings) (*uint256.Int, error) {
	available, err := s.AvailableReward()
	if err != nil {
		return nil, err
	}
	allocation := settings.EraRewardAllocation
	if allocation == nil || allocation.IsZero() {
		return available, nil
	}
	if available.Lt(allocation) {
		logger.Info("reward pot below the era allocation", "available", available, "allocation", allocation)
		return new(uint256.Int), nil
	}
	return allocation.Clone(), nil
}

func (s *Staker) prepareRewards(matured uint64, settings *params.Settings) (*reward.Ledger, error) {
	totalPoints, err := s.points.Total(matured)
	if err != nil {
		return nil, err
	}
	totalReward, err := s.eraReward(settings)
	if err != nil {
		return nil, err
	}
	selected, err := s.eras.Selected(matured)
	if err != nil {
		return nil, err
	}

	inputs := make([]*reward.Input, 0, len(selected))
	for _, id := range selected {
		snap, err := s.eras.Snapshot(matured, id)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			continue
		}
		pts, err := s.points.Points(matured, id)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, &reward.Input{
			Candidate:   id,
			Points:      pts,
			Bond:        snap.Bond,
			Nominations: snap.Nominations,
			Total:       snap.Total,
		})
	}

	payouts, err := reward.Compute(totalReward, totalPoints, inputs)
	if errors.Is(err, reward.ErrRewardArithmeticOverflow) {
		logger.Error("era reward overflow, era pays nothing", "era", matured, "reward", totalReward, "points", totalPoints)
		payouts, totalReward = nil, new(uint256.Int)
	} else if err != nil {
		return nil, err
	}
	if len(payouts) == 0 {
		metricRewardsSkipped().Add(1)
		logger.Info("era reward skipped", "era", matured, "reward", totalReward, "points", totalPoints)
	}

	ledger := reward.NewLedger(matured, totalPoints, totalReward, payouts)
	if err := s.payouts.Schedule(ledger); err != nil {
		return nil, err
	}
	logger.Debug("era reward scheduled", "era", matured, "payouts", len(payouts), "allocated", ledger.Allocated)
	return ledger, nil
}

func (s *Staker) accumulateGrowth(matured uint64, ledger *reward.Ledger, settings *params.Settings) error {
	staked, err := s.eras.Staked(matured)
	if err != nil {
		return err
	}
	authors, err := s.points.Authors(matured)
	if err != nil {
		return err
	}
	scores := make([]growth.Score, 0, len(authors))
	for _, author := range authors {
		pts, err := s.points.Points(matured, author)
		if err != nil {
			return err
		}
		scores = append(scores, growth.Score{Collator: author, Points: pts})
	}

	closed, err := s.growth.Accumulate(matured, settings.ErasPerGrowthPeriod, staked, ledger.TotalReward, scores, settings.GrowthEnabled)
	if err != nil {
		return err
	}
	if closed != nil {
		logger.Info("growth period closed", "index", closed.Index, "status", closed.Status, "eras", closed.Count)
	}
	return nil
}

func (s *Staker) triggerGrowth() error {
	p, err := s.growth.Trigger(func(snap growth.Snapshot) (uint64, error) {
		var id uint64
		err := s.atomic(func() (err error) {
			id, err = s.bridge.RequestMint(snap.AverageStake, snap.TotalRewards)
			return
		})
		return id, err
	})
	if err != nil || p == nil {
		return err
	}
	metricGrowthTriggered().Add(1)
	logger.Info("growth mint requested",
		"index", p.Index,
		"request", p.RequestID,
		"average_stake", p.Snapshot.AverageStake,
		"rewards", p.Snapshot.TotalRewards)
	return nil
}

// selectCollators freezes the collator set of the era. When nobody is
// eligible the previous set is kept.
func (s *Staker) selectCollators(eraNum uint64, settings *params.Settings) ([]para.Address, error) {
	var candidates []*selection.Candidate
	err := s.candidates.Iter(func(id para.Address, c *candidate.Candidate) error {
		candidates = append(candidates, &selection.Candidate{
			ID:     id,
			Active: c.Status == candidate.StatusActive,
			Bond:   c.Bond,
			Total:  c.TotalCounted,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	selected := selection.Select(candidates, settings.MinCollatorStake, int(settings.TotalSelected))
	if len(selected) == 0 {
		logger.Warn("no eligible candidate, previous collators kept", "era", eraNum)
		return s.eras.CarryOver(eraNum)
	}

	snapshots := make([]*era.Snapshot, 0, len(selected))
	for _, id := range selected {
		c, err := s.candidates.Get(id)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &era.Snapshot{
			Bond:        c.Bond.Clone(),
			Nominations: c.CountedNominations().Clone(),
			Total:       c.TotalCounted.Clone(),
		})
	}
	return selected, s.eras.Freeze(eraNum, selected, snapshots)
}

// prune drops the snapshots, points and settled ledgers past retention.
func (s *Staker) prune(current uint64, settings *params.Settings) error {
	retention := uint64(para.PayoutRetentionEras())
	if current <= settings.RewardPaymentDelay+retention {
		return nil
	}
	target := current - settings.RewardPaymentDelay - retention
	rewarded, err := s.rewardedEra.Get()
	if err != nil {
		return err
	}
	target = min(target, rewarded)

	pruned, err := s.prunedEra.Get()
	if err != nil {
		return err
	}
	if target <= pruned {
		return nil
	}
	for e := pruned + 1; e <= target; e++ {
		if err := s.eras.Prune(e); err != nil {
			return err
		}
		if err := s.points.Prune(e); err != nil {
			return err
		}
	}
	if _, err := s.payouts.Prune(target + 1); err != nil {
		return err
	}
	return s.prunedEra.Set(target)
}

func (s *Staker) notifySession(eraNum uint64, collators []para.Address) {
	if s.session != nil {
		s.session.NewSession(eraNum, collators)
	}
}

// payNext releases one payout of the oldest paying ledger.
func (s *Staker) payNext() error {
	receipt, err := s.payouts.Pay(func(to para.Address, amount *uint256.Int) error {
		return s.atomic(func() error {
			return s.balances.Transfer(RewardPot, to, amount)
		})
	})
	if err != nil || receipt == nil {
		return err
	}

	result := "paid"
	if receipt.Failures > 0 {
		result = "forfeited"
	}
	metricPayouts().AddWithLabel(1, map[string]string{"result": result})
	logger.Debug("payout released",
		"era", receipt.Era,
		"candidate", receipt.Candidate,
		"paid", receipt.Paid,
		"forfeited", receipt.Forfeited)

	if receipt.Settled {
		paying, err := s.payouts.Paying()
		if err != nil {
			return err
		}
		metricPayingLedgers().Set(int64(len(paying)))
	}
	return nil
}
