// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package growth accumulates growth periods over matured eras, requests the
// growth mint through the bridge and distributes the lifted amount.
package growth

import (
	"slices"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/store"
)

var logger = log.WithContext("pkg", "growth")

var (
	slotPeriods     = para.BytesToBytes32([]byte("growth-periods"))
	slotScores      = para.BytesToBytes32([]byte("growth-scores"))
	slotCollators   = para.BytesToBytes32([]byte("growth-collators"))
	slotLast        = para.BytesToBytes32([]byte("growth-last-index"))
	slotCurrent     = para.BytesToBytes32([]byte("growth-current"))
	slotQueue       = para.BytesToBytes32([]byte("growth-queue"))
	slotOutstanding = para.BytesToBytes32([]byte("growth-outstanding"))
	slotRequests    = para.BytesToBytes32([]byte("growth-requests"))
)

// RequestFunc issues a mint request for the snapshot and returns its identifier.
type RequestFunc func(snapshot Snapshot) (uint64, error)

// TransferFunc moves a lifted share to the collator.
type TransferFunc func(to para.Address, amount *uint256.Int) error

type Service struct {
	periods     *store.Mapping[store.Uint64Key, *Period]
	scores      *store.Mapping[store.EraAddressKey, uint64]
	collators   *store.Mapping[store.Uint64Key, []para.Address]
	last        *store.Value[uint64]   // highest period index opened
	current     *store.Value[uint64]   // accumulating period, 0 if none
	queue       *store.Value[[]uint64] // closed periods waiting for a request
	outstanding *store.Value[uint64]   // triggered period, 0 if none
	requests    *store.Mapping[store.Uint64Key, uint64]
}

func New(sctx *store.Context) *Service {
	return &Service{
		periods:     store.NewMapping[store.Uint64Key, *Period](sctx, slotPeriods),
		scores:      store.NewMapping[store.EraAddressKey, uint64](sctx, slotScores),
		collators:   store.NewMapping[store.Uint64Key, []para.Address](sctx, slotCollators),
		last:        store.NewValue[uint64](sctx, slotLast),
		current:     store.NewValue[uint64](sctx, slotCurrent),
		queue:       store.NewValue[[]uint64](sctx, slotQueue),
		outstanding: store.NewValue[uint64](sctx, slotOutstanding),
		requests:    store.NewMapping[store.Uint64Key, uint64](sctx, slotRequests),
	}
}

// Period returns the period by index, nil if unknown.
func (s *Service) Period(index uint64) (*Period, error) {
	return s.periods.Get(store.Uint64Key(index))
}

// Current returns the accumulating period, nil if none is open.
func (s *Service) Current() (*Period, error) {
	index, err := s.current.Get()
	if err != nil || index == 0 {
		return nil, err
	}
	return s.Period(index)
}

// Last returns the highest period index opened so far.
func (s *Service) Last() (uint64, error) {
	return s.last.Get()
}

// Queue returns the closed periods waiting for a mint request, in request order.
func (s *Service) Queue() ([]uint64, error) {
	return s.queue.Get()
}

// Outstanding returns the triggered period waiting for its lift, 0 if none.
func (s *Service) Outstanding() (uint64, error) {
	return s.outstanding.Get()
}

// Scores returns the collator points of the period in ascending identity order.
func (s *Service) Scores(index uint64) ([]Score, error) {
	collators, err := s.collators.Get(store.Uint64Key(index))
	if err != nil {
		return nil, err
	}
	scores := make([]Score, 0, len(collators))
	for _, c := range collators {
		pts, err := s.scores.Get(store.EraAddressKey{Era: index, Address: c})
		if err != nil {
			return nil, err
		}
		scores = append(scores, Score{Collator: c, Points: pts})
	}
	return scores, nil
}

func (s *Service) addScore(index uint64, score Score) error {
	key := store.EraAddressKey{Era: index, Address: score.Collator}
	current, err := s.scores.Get(key)
	if err != nil {
		return err
	}
	if current == 0 {
		collators, err := s.collators.Get(store.Uint64Key(index))
		if err != nil {
			return err
		}
		i, _ := slices.BinarySearchFunc(collators, score.Collator, para.Address.Compare)
		if err := s.collators.Set(store.Uint64Key(index), slices.Insert(collators, i, score.Collator)); err != nil {
			return err
		}
	}
	sum, overflow := math.SafeAdd(current, score.Points)
	if overflow {
		return errors.New("collator score overflow")
	}
	return s.scores.Set(key, sum)
}

func (s *Service) open(era, length uint64) (*Period, error) {
	last, err := s.last.Get()
	if err != nil {
		return nil, err
	}
	p := newPeriod(last+1, era, length)
	if err := s.last.Set(p.Index); err != nil {
		return nil, err
	}
	if err := s.current.Set(p.Index); err != nil {
		return nil, err
	}
	logger.Debug("growth period opened", "index", p.Index, "start", era, "length", length)
	return p, nil
}

// Accumulate adds a matured era to the accumulating period, opening one at era
// with the given length when none is open. The period closes with the last era
// of its range; it returns the period when that happens.
func (s *Service) Accumulate(era, length uint64, stake, rewards *uint256.Int, scores []Score, enabled bool) (*Period, error) {
	p, err := s.Current()
	if err != nil {
		return nil, err
	}
	if p == nil {
		if p, err = s.open(era, length); err != nil {
			return nil, err
		}
	}
	if era < p.StartEra+p.Count {
		return nil, errors.Errorf("era %d already accumulated in growth period %d", era, p.Index)
	}

	p.Count++
	p.TotalStake.Add(p.TotalStake, stake)
	p.TotalRewards.Add(p.TotalRewards, rewards)
	for _, score := range scores {
		if score.Points == 0 {
			continue
		}
		total, overflow := math.SafeAdd(p.TotalPoints, score.Points)
		if overflow {
			return nil, errors.New("growth points overflow")
		}
		p.TotalPoints = total
		if err := s.addScore(p.Index, score); err != nil {
			return nil, err
		}
	}

	if era+1 < p.EndEra() {
		return nil, s.periods.Set(store.Uint64Key(p.Index), p)
	}
	if err := s.close(p, enabled); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) close(p *Period, enabled bool) error {
	if err := s.current.Set(0); err != nil {
		return err
	}
	if !p.gate(enabled) {
		p.Status = StatusSkipped
		logger.Info("growth period skipped",
			"index", p.Index,
			"enabled", enabled,
			"eras", p.Count,
			"stake", p.TotalStake,
			"rewards", p.TotalRewards)
		return s.periods.Set(store.Uint64Key(p.Index), p)
	}

	p.Status = StatusClosed
	p.Snapshot = Snapshot{
		AverageStake: new(uint256.Int).Div(p.TotalStake, uint256.NewInt(p.Count)),
		TotalRewards: new(uint256.Int).Set(p.TotalRewards),
	}
	queue, err := s.queue.Get()
	if err != nil {
		return err
	}
	if err := s.queue.Set(append(queue, p.Index)); err != nil {
		return err
	}
	logger.Debug("growth period closed", "index", p.Index, "average_stake", p.Snapshot.AverageStake, "rewards", p.Snapshot.TotalRewards)
	return s.periods.Set(store.Uint64Key(p.Index), p)
}

// Trigger requests the mint of the oldest closed period. Nothing happens while
// another request is outstanding. A failed request leaves the period queued.
func (s *Service) Trigger(request RequestFunc) (*Period, error) {
	outstanding, err := s.outstanding.Get()
	if err != nil {
		return nil, err
	}
	queue, err := s.queue.Get()
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, nil
	}
	if outstanding != 0 {
		logger.Debug("growth request pending, trigger deferred", "outstanding", outstanding, "queued", len(queue))
		return nil, nil
	}

	p, err := s.Period(queue[0])
	if err != nil {
		return nil, err
	}
	if p == nil || p.Status != StatusClosed {
		return nil, errors.Errorf("queued growth period %d is not closed", queue[0])
	}

	id, err := request(p.Snapshot)
	if err != nil {
		logger.Warn("growth mint request failed", "index", p.Index, "err", err)
		return nil, nil
	}
	known, err := s.requests.Get(store.Uint64Key(id))
	if err != nil {
		return nil, err
	}
	if known != 0 {
		return nil, errors.Errorf("growth request %d already used by period %d", id, known)
	}

	p.Status = StatusTriggered
	p.RequestID = id
	if err := s.requests.Set(store.Uint64Key(id), p.Index); err != nil {
		return nil, err
	}
	if err := s.outstanding.Set(p.Index); err != nil {
		return nil, err
	}
	if err := s.queue.Set(queue[1:]); err != nil {
		return nil, err
	}
	return p, s.periods.Set(store.Uint64Key(p.Index), p)
}

func (s *Service) triggered(id uint64) (*Period, error) {
	index, err := s.requests.Get(store.Uint64Key(id))
	if err != nil {
		return nil, err
	}
	if index == 0 {
		return nil, reverts.ErrUnknownGrowthRequest
	}
	p, err := s.Period(index)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, reverts.ErrUnknownGrowthRequest
	}
	if p.Status != StatusTriggered {
		return nil, reverts.ErrGrowthAlreadyProcessed
	}
	return p, nil
}

// OnRequestResult handles the bridge outcome of a mint request. A failure
// returns the period to the front of the queue so it is requested again.
func (s *Service) OnRequestResult(id uint64, succeeded bool) (*Period, error) {
	p, err := s.triggered(id)
	if err != nil {
		return nil, err
	}
	if succeeded {
		return p, nil
	}

	p.Status = StatusClosed
	p.RequestID = 0
	s.requests.Delete(store.Uint64Key(id))
	if err := s.outstanding.Set(0); err != nil {
		return nil, err
	}
	queue, err := s.queue.Get()
	if err != nil {
		return nil, err
	}
	if err := s.queue.Set(slices.Insert(queue, 0, p.Index)); err != nil {
		return nil, err
	}
	return p, s.periods.Set(store.Uint64Key(p.Index), p)
}

// Lift distributes the minted amount of a triggered period across its
// collators by points and completes the period. Shares that fail to transfer
// and rounding remainders are kept as dust.
func (s *Service) Lift(id uint64, amount *uint256.Int, transfer TransferFunc) (*Period, error) {
	p, err := s.triggered(id)
	if err != nil {
		return nil, err
	}
	scores, err := s.Scores(p.Index)
	if err != nil {
		return nil, err
	}

	shares, err := split(amount, p.TotalPoints, scores)
	if err != nil {
		logger.Error("growth lift not distributed", "index", p.Index, "amount", amount, "err", err)
		shares = nil
	}
	distributed := new(uint256.Int)
	for i, share := range shares {
		if share.IsZero() {
			continue
		}
		if err := transfer(scores[i].Collator, share); err != nil {
			logger.Warn("growth share transfer failed", "index", p.Index, "collator", scores[i].Collator, "amount", share, "err", err)
			continue
		}
		distributed.Add(distributed, share)
	}

	p.Status = StatusCompleted
	p.Lifted = new(uint256.Int).Set(amount)
	p.Distributed = distributed
	p.Dust = new(uint256.Int).Sub(amount, distributed)
	if err := s.outstanding.Set(0); err != nil {
		return nil, err
	}
	return p, s.periods.Set(store.Uint64Key(p.Index), p)
}

// split returns amount*points/total for each score, rounded toward zero.
func split(amount *uint256.Int, total uint64, scores []Score) ([]*uint256.Int, error) {
	if total == 0 {
		return nil, nil
	}
	shares := make([]*uint256.Int, 0, len(scores))
	for _, score := range scores {
		share, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(score.Points))
		if overflow {
			return nil, errors.New("growth share overflow")
		}
		shares = append(shares, share.Div(share, uint256.NewInt(total)))
	}
	return shares, nil
}
