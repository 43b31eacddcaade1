// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking is the collator staking engine: stake ledger operations,
// era rollover, reward payouts and growth.
package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/candidate"
	"github.com/parastake/parastake/staking/era"
	"github.com/parastake/parastake/staking/growth"
	"github.com/parastake/parastake/staking/nomination"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/staking/payout"
	"github.com/parastake/parastake/staking/points"
	"github.com/parastake/parastake/staking/reward"
	"github.com/parastake/parastake/staking/store"
	"github.com/parastake/parastake/state"
)

var logger = log.WithContext("pkg", "staker")

var (
	// Address is the storage account of the engine.
	Address = para.NamedAddress("staking")
	// RewardPot funds the era rewards.
	RewardPot = para.NamedAddress("reward-pot")
	// GrowthPot receives the minted growth before it is distributed.
	GrowthPot = para.NamedAddress("growth-pot")
)

var (
	slotRewardedEra = para.BytesToBytes32([]byte("rewarded-era"))
	slotPrunedEra   = para.BytesToBytes32([]byte("pruned-era"))
)

// Balances is the account ledger the engine reserves bonds and pays rewards with.
type Balances interface {
	FreeBalance(addr para.Address) (*uint256.Int, error)
	Reserve(addr para.Address, amount *uint256.Int) error
	Unreserve(addr para.Address, amount *uint256.Int) error
	Transfer(from, to para.Address, amount *uint256.Int) error
}

// Bridge carries growth mint requests to the counterparty chain.
type Bridge interface {
	RequestMint(averageStake, totalRewards *uint256.Int) (uint64, error)
}

// SessionHandler is notified of the collator set of every new era.
type SessionHandler interface {
	NewSession(eraNum uint64, collators []para.Address)
}

// Staker implements the staking engine over a state.
type Staker struct {
	state    *state.State
	balances Balances
	bridge   Bridge
	session  SessionHandler

	params      *params.Params
	candidates  *candidate.Service
	nominations *nomination.Service
	points      *points.Tracker
	eras        *era.Service
	payouts     *payout.Scheduler
	growth      *growth.Service
	rewardedEra *store.Value[uint64] // last era with a reward ledger
	prunedEra   *store.Value[uint64]
}

// New creates a staker bound to the state. The session handler may be nil.
func New(st *state.State, balances Balances, bridge Bridge, session SessionHandler) *Staker {
	sctx := store.NewContext(Address, st)
	return &Staker{
		state:    st,
		balances: balances,
		bridge:   bridge,
		session:  session,

		params:      params.New(sctx),
		candidates:  candidate.New(sctx),
		nominations: nomination.New(sctx),
		points:      points.New(sctx),
		eras:        era.New(sctx),
		payouts:     payout.New(sctx),
		growth:      growth.New(sctx),
		rewardedEra: store.NewValue[uint64](sctx, slotRewardedEra),
		prunedEra:   store.NewValue[uint64](sctx, slotPrunedEra),
	}
}

// atomic runs fn and rolls back every write it made when it fails.
func (s *Staker) atomic(fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

//
// Getters - no state change
//

// Era returns the current era, an error before Start.
func (s *Staker) Era() (*era.Info, error) {
	info, err := s.eras.Info()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.New("staking not started")
	}
	return info, nil
}

// Settings returns the current administrative settings.
func (s *Staker) Settings() (*params.Settings, error) {
	return s.params.Load()
}

// Candidate returns the ledger entry of a candidate, nil if unknown.
func (s *Staker) Candidate(id para.Address) (*candidate.Candidate, error) {
	c, err := s.candidates.Get(id)
	if err != nil || c.IsEmpty() {
		return nil, err
	}
	return c, nil
}

// CandidateEntry pairs a candidate with its identity.
type CandidateEntry struct {
	ID para.Address
	*candidate.Candidate
}

// Candidates lists the candidates which have not left, in registration order.
func (s *Staker) Candidates() ([]CandidateEntry, error) {
	var entries []CandidateEntry
	err := s.candidates.Iter(func(id para.Address, c *candidate.Candidate) error {
		entries = append(entries, CandidateEntry{ID: id, Candidate: c})
		return nil
	})
	return entries, err
}

// Nominator returns the nominations of an account, nil if it has none.
func (s *Staker) Nominator(addr para.Address) (*nomination.Nominator, error) {
	n, err := s.nominations.Get(addr)
	if err != nil || n.IsEmpty() {
		return nil, err
	}
	return n, nil
}

// Selected returns the collator set of the era, ascending.
func (s *Staker) Selected(eraNum uint64) ([]para.Address, error) {
	return s.eras.Selected(eraNum)
}

// AtStake returns the frozen stake of a collator in the era, nil if it was not selected.
func (s *Staker) AtStake(eraNum uint64, id para.Address) (*era.Snapshot, error) {
	return s.eras.Snapshot(eraNum, id)
}

// Staked returns the total stake frozen for the era.
func (s *Staker) Staked(eraNum uint64) (*uint256.Int, error) {
	return s.eras.Staked(eraNum)
}

// Points returns the points of a collator in the era.
func (s *Staker) Points(eraNum uint64, id para.Address) (uint64, error) {
	return s.points.Points(eraNum, id)
}

// TotalPoints returns the points awarded in the era.
func (s *Staker) TotalPoints(eraNum uint64) (uint64, error) {
	return s.points.Total(eraNum)
}

// Ledger returns the reward ledger of the era, nil if not computed or pruned.
func (s *Staker) Ledger(eraNum uint64) (*reward.Ledger, error) {
	return s.payouts.Get(eraNum)
}

// LedgerEras returns the eras with a stored reward ledger.
func (s *Staker) LedgerEras() ([]uint64, error) {
	return s.payouts.Eras()
}

// PayingEras returns the eras being paid, oldest first.
func (s *Staker) PayingEras() ([]uint64, error) {
	return s.payouts.Paying()
}

// Locked returns the reward pot amount promised to paying ledgers.
func (s *Staker) Locked() (*uint256.Int, error) {
	return s.payouts.Locked()
}

// AvailableReward returns the reward pot balance not promised to paying ledgers.
func (s *Staker) AvailableReward() (*uint256.Int, error) {
	pot, err := s.balances.FreeBalance(RewardPot)
	if err != nil {
		return nil, err
	}
	locked, err := s.payouts.Locked()
	if err != nil {
		return nil, err
	}
	if pot.Cmp(locked) <= 0 {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(pot, locked), nil
}

// GrowthPeriod returns a growth period by index, nil if unknown.
func (s *Staker) GrowthPeriod(index uint64) (*growth.Period, error) {
	return s.growth.Period(index)
}

// CurrentGrowthPeriod returns the accumulating growth period, nil if none is open.
func (s *Staker) CurrentGrowthPeriod() (*growth.Period, error) {
	return s.growth.Current()
}

// LastGrowthPeriod returns the highest growth period index.
func (s *Staker) LastGrowthPeriod() (uint64, error) {
	return s.growth.Last()
}

// GrowthQueue returns the closed growth periods waiting for a mint request.
func (s *Staker) GrowthQueue() ([]uint64, error) {
	return s.growth.Queue()
}

// OutstandingGrowth returns the growth period waiting for its lift, 0 if none.
func (s *Staker) OutstandingGrowth() (uint64, error) {
	return s.growth.Outstanding()
}

// GrowthScores returns the collator points of a growth period.
func (s *Staker) GrowthScores(index uint64) ([]growth.Score, error) {
	return s.growth.Scores(index)
}
