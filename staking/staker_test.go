// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/candidate"
	"github.com/parastake/parastake/staking/growth"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/reward"
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// singleCollator starts with alice bonding 50 and bob nominating her with 50.
func singleCollator(t *testing.T, pot uint64, opts ...func(*params.Settings)) *stakerTest {
	ts := newTest(t, opts...).
		Fund(alice, 100).
		Fund(bob, 100).
		Join(alice, 50).
		Nominates(bob, alice, 50)
	if pot > 0 {
		ts.Fund(RewardPot, pot)
	}
	return ts.Begin()
}

func TestStart(t *testing.T) {
	ts := singleCollator(t, 0)

	assert.Equal(t, uint64(1), ts.CurrentEra())
	assert.Equal(t, []para.Address{alice}, ts.sessions[1])

	snap, err := ts.AtStake(1, alice)
	require.NoError(t, err)
	assert.Equal(t, u(50), snap.Bond)
	assert.Equal(t, u(100), snap.Total)
	require.Len(t, snap.Nominations, 1)
	assert.Equal(t, bob, snap.Nominations[0].Owner)

	assert.Equal(t, uint64(50), ts.Reserved(alice))
	assert.Equal(t, uint64(50), ts.Reserved(bob))
	assert.Error(t, ts.Start(0))
}

func TestEraRollover(t *testing.T) {
	ts := singleCollator(t, 0)

	ts.ProduceN(5, alice)
	assert.Equal(t, uint64(1), ts.CurrentEra())
	pts, err := ts.TotalPoints(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), pts)

	ts.Produce(alice)
	assert.Equal(t, uint64(2), ts.CurrentEra())
	assert.Equal(t, []para.Address{alice}, ts.sessions[2])

	pts, err = ts.Points(2, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), pts)
}

func TestRewardExample(t *testing.T) {
	ts := singleCollator(t, 1000)

	// era 1 matures at the start of era 3
	ts.ProduceN(10, alice)
	l, err := ts.Ledger(1)
	require.NoError(t, err)
	assert.Nil(t, l)

	ts.Produce(alice)
	l, err = ts.Ledger(1)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, uint64(100), l.TotalPoints)
	assert.Equal(t, u(1000), l.TotalReward)
	require.Len(t, l.Payouts, 1)

	p := l.Payouts[0]
	assert.Equal(t, u(1000), p.Reward)
	assert.Equal(t, u(500), p.Self)
	assert.Equal(t, []reward.Share{{Account: bob, Amount: u(500)}}, p.Nominations)

	assert.Equal(t, reward.StateSettled, l.State)
	assert.Equal(t, uint64(550), ts.Free(alice))
	assert.Equal(t, uint64(550), ts.Free(bob))
	assert.Zero(t, ts.Free(RewardPot))

	locked, err := ts.Locked()
	require.NoError(t, err)
	assert.True(t, locked.IsZero())
}

func TestEmptyPotSettlesImmediately(t *testing.T) {
	ts := singleCollator(t, 0)
	ts.ProduceN(11, alice)

	l, err := ts.Ledger(1)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, reward.StateSettled, l.State)
	assert.Empty(t, l.Payouts)
	assert.True(t, l.TotalReward.IsZero())
	assert.Equal(t, uint64(50), ts.Free(alice))

	paying, err := ts.PayingEras()
	require.NoError(t, err)
	assert.Empty(t, paying)
}

func TestEraAllocation(t *testing.T) {
	ts := singleCollator(t, 1000, func(s *params.Settings) {
		s.EraRewardAllocation = u(600)
	})
	ts.ProduceN(16, alice)

	l, err := ts.Ledger(1)
	require.NoError(t, err)
	assert.Equal(t, u(600), l.TotalReward)

	// 400 left is below the allocation
	l, err = ts.Ledger(2)
	require.NoError(t, err)
	assert.True(t, l.TotalReward.IsZero())
	assert.Equal(t, reward.StateSettled, l.State)
	assert.Equal(t, uint64(400), ts.Free(RewardPot))
}

func TestOnePayoutPerBlock(t *testing.T) {
	ts := newTest(t).
		Fund(alice, 100).Fund(bob, 100).Fund(carol, 100).
		Join(alice, 10).Join(bob, 10).Join(carol, 10).
		Fund(RewardPot, 1000).
		Begin()

	ts.Produce(alice, bob, carol, alice, bob)
	ts.ProduceN(5, alice)

	ts.Produce(alice)
	l, err := ts.Ledger(1)
	require.NoError(t, err)
	require.Len(t, l.Payouts, 3)
	assert.Equal(t, reward.StatePaying, l.State)
	assert.Equal(t, uint64(1), l.Cursor)

	ts.Produce(alice)
	l, _ = ts.Ledger(1)
	assert.Equal(t, reward.StatePaying, l.State)
	assert.Equal(t, uint64(2), l.Cursor)

	ts.Produce(alice)
	l, _ = ts.Ledger(1)
	assert.Equal(t, reward.StateSettled, l.State)
	assert.Equal(t, uint64(3), l.Cursor)

	assert.True(t, l.Paid.Cmp(l.TotalReward) <= 0)
	assert.Equal(t, u(1000), l.Paid)
	assert.Equal(t, uint64(90+400), ts.Free(alice))
	assert.Equal(t, uint64(90+400), ts.Free(bob))
	assert.Equal(t, uint64(90+200), ts.Free(carol))
}

func TestForfeitedPayout(t *testing.T) {
	ts := singleCollator(t, 1000)
	require.NoError(t, ts.balances.SetFrozen(bob, true))
	ts.ProduceN(11, alice)

	l, err := ts.Ledger(1)
	require.NoError(t, err)
	assert.Equal(t, reward.StateSettled, l.State)
	assert.Equal(t, u(500), l.Paid)
	assert.Equal(t, u(500), l.Forfeited)
	assert.Equal(t, uint64(550), ts.Free(alice))
	assert.Equal(t, uint64(50), ts.Free(bob))

	available, err := ts.AvailableReward()
	require.NoError(t, err)
	assert.Equal(t, u(500), available)
}

func TestGrowthTriggerAndLift(t *testing.T) {
	ts := singleCollator(t, 1000)

	// period 1 covers eras 1 and 2 and closes when era 2 matures at block 15
	ts.ProduceN(15, alice)
	outstanding, err := ts.OutstandingGrowth()
	require.NoError(t, err)
	assert.Zero(t, outstanding)

	ts.Produce(alice)
	outstanding, err = ts.OutstandingGrowth()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), outstanding)

	p, err := ts.GrowthPeriod(1)
	require.NoError(t, err)
	assert.Equal(t, growth.StatusTriggered, p.Status)
	assert.Equal(t, uint64(2), p.Count)
	assert.Equal(t, u(100), p.Snapshot.AverageStake)
	assert.Equal(t, u(1000), p.Snapshot.TotalRewards)

	pending, err := ts.bridge.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.RequestID, pending[0].ID)

	require.NoError(t, ts.OnMintRequestResult(p.RequestID, true))

	ts.Fund(GrowthPot, 300)
	assert.ErrorIs(t, ts.OnMintConfirmed(p.RequestID+1, u(300)), reverts.ErrUnknownGrowthRequest)

	before := ts.Free(alice)
	require.NoError(t, ts.OnMintConfirmed(p.RequestID, u(300)))
	assert.Equal(t, before+300, ts.Free(alice))

	p, err = ts.GrowthPeriod(1)
	require.NoError(t, err)
	assert.Equal(t, growth.StatusCompleted, p.Status)
	assert.True(t, p.Dust.IsZero())

	ts.Fund(GrowthPot, 300)
	assert.ErrorIs(t, ts.OnMintConfirmed(p.RequestID, u(300)), reverts.ErrGrowthAlreadyProcessed)
	assert.Equal(t, before+300, ts.Free(alice))
	assert.Equal(t, uint64(300), ts.Free(GrowthPot))
}

func TestGrowthSumsEraRewards(t *testing.T) {
	ts := newTest(t).
		Fund(alice, 100).Fund(bob, 100).Fund(carol, 100).
		Join(alice, 10).Join(bob, 10).Join(carol, 10).
		Fund(RewardPot, 1000).
		Begin()

	// 20 points each in era 1, 1000/3 leaves a remainder of 1
	ts.Produce(alice, bob, carol, dave, dave)
	ts.ProduceN(10, alice)

	l, err := ts.Ledger(1)
	require.NoError(t, err)
	assert.Equal(t, u(1000), l.TotalReward)
	assert.Equal(t, u(999), l.Allocated)

	// era 2 matures and closes growth period 1
	ts.Produce(alice)
	l, err = ts.Ledger(2)
	require.NoError(t, err)
	assert.Equal(t, u(1), l.TotalReward)

	p, err := ts.GrowthPeriod(1)
	require.NoError(t, err)
	assert.Equal(t, growth.StatusTriggered, p.Status)
	assert.Equal(t, u(1001), p.TotalRewards)
	assert.Equal(t, u(1001), p.Snapshot.TotalRewards)
	assert.Equal(t, u(30), p.Snapshot.AverageStake)
}

func TestRewardOverflowPaysNothing(t *testing.T) {
	ts := singleCollator(t, 0)
	huge := new(uint256.Int).Lsh(u(1), 250)
	require.NoError(t, ts.balances.Mint(RewardPot, huge))

	ts.ProduceN(10, alice)
	require.NoError(t, ts.OnInitialize(ts.block))

	l, err := ts.Ledger(1)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, reward.StateSettled, l.State)
	assert.True(t, l.TotalReward.IsZero())
	assert.Empty(t, l.Payouts)

	paying, err := ts.PayingEras()
	require.NoError(t, err)
	assert.Empty(t, paying)
	available, err := ts.AvailableReward()
	require.NoError(t, err)
	assert.Equal(t, huge, available)
}

func TestGrowthGating(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ts := singleCollator(t, 1000, func(s *params.Settings) { s.GrowthEnabled = false })
		ts.ProduceN(16, alice)

		p, err := ts.GrowthPeriod(1)
		require.NoError(t, err)
		assert.Equal(t, growth.StatusSkipped, p.Status)
		pending, _ := ts.bridge.Pending()
		assert.Empty(t, pending)
	})
	t.Run("no rewards", func(t *testing.T) {
		ts := singleCollator(t, 0)
		ts.ProduceN(16, alice)

		p, err := ts.GrowthPeriod(1)
		require.NoError(t, err)
		assert.Equal(t, growth.StatusSkipped, p.Status)
		pending, _ := ts.bridge.Pending()
		assert.Empty(t, pending)
	})
}

func TestGrowthRequestRetried(t *testing.T) {
	ts := singleCollator(t, 1000)
	ts.ProduceN(16, alice)

	p, err := ts.GrowthPeriod(1)
	require.NoError(t, err)
	require.NoError(t, ts.OnMintRequestResult(p.RequestID, false))

	queue, err := ts.GrowthQueue()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, queue)

	// re-requested at the next rollover
	ts.ProduceN(5, alice)
	p, err = ts.GrowthPeriod(1)
	require.NoError(t, err)
	assert.Equal(t, growth.StatusTriggered, p.Status)
	assert.Equal(t, uint64(2), p.RequestID)
}

func TestNoteAuthorOutsideSelection(t *testing.T) {
	ts := singleCollator(t, 0)
	ts.Produce(carol)

	pts, err := ts.Points(1, carol)
	require.NoError(t, err)
	assert.Zero(t, pts)
	total, _ := ts.TotalPoints(1)
	assert.Zero(t, total)
}

func TestLeaveCandidates(t *testing.T) {
	ts := newTest(t).
		Fund(alice, 100).Fund(bob, 100).Fund(carol, 100).
		Join(alice, 50).Join(carol, 50).
		Nominates(bob, alice, 50).
		Begin()

	require.NoError(t, ts.ScheduleLeaveCandidates(alice))
	assert.ErrorIs(t, ts.ScheduleLeaveCandidates(alice), reverts.ErrAlreadyLeaving)
	assert.ErrorIs(t, ts.ExecuteLeaveCandidates(alice), reverts.ErrNotYetExecutable)
	assert.ErrorIs(t, ts.Nominate(dave, alice, u(1)), reverts.ErrCandidateNotActive)

	require.NoError(t, ts.CancelLeaveCandidates(alice))
	assert.ErrorIs(t, ts.CancelLeaveCandidates(alice), reverts.ErrNotLeaving)
	require.NoError(t, ts.ScheduleLeaveCandidates(alice))

	ts.ProduceN(6, carol)
	selected, err := ts.Selected(2)
	require.NoError(t, err)
	assert.Equal(t, []para.Address{carol}, selected)

	ts.ProduceN(5, carol)
	assert.Equal(t, uint64(3), ts.CurrentEra())

	c, err := ts.Candidate(alice)
	require.NoError(t, err)
	assert.Equal(t, candidate.StatusLeft, c.Status)
	assert.Equal(t, uint64(100), ts.Free(alice))
	assert.Zero(t, ts.Reserved(alice))

	n, err := ts.Nominator(bob)
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Equal(t, uint64(100), ts.Free(bob))

	entries, err := ts.Candidates()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, carol, entries[0].ID)
}

func TestRevokeNomination(t *testing.T) {
	ts := newTest(t).
		Fund(alice, 100).Fund(bob, 100).
		Join(alice, 50).
		Nominates(bob, alice, 20).
		Begin()

	total := func() uint64 {
		c, err := ts.Candidate(alice)
		require.NoError(t, err)
		return c.TotalCounted.Uint64()
	}
	assert.Equal(t, uint64(70), total())

	require.NoError(t, ts.ScheduleRevokeNomination(bob, alice))
	assert.Equal(t, uint64(50), total())
	assert.ErrorIs(t, ts.ExecuteRevokeNomination(bob, alice), reverts.ErrNotYetExecutable)
	assert.ErrorIs(t, ts.NominatorBondExtra(bob, alice, u(1)), reverts.ErrRevokeAlreadyScheduled)

	require.NoError(t, ts.CancelRevokeNomination(bob, alice))
	assert.Equal(t, uint64(70), total())
	require.NoError(t, ts.NominatorBondExtra(bob, alice, u(5)))
	assert.Equal(t, uint64(75), total())
	assert.Equal(t, uint64(25), ts.Reserved(bob))

	require.NoError(t, ts.ScheduleRevokeNomination(bob, alice))
	ts.ProduceN(11, alice)

	n, err := ts.Nominator(bob)
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Zero(t, ts.Reserved(bob))
	assert.Equal(t, uint64(100), ts.Free(bob))
}

func TestLedgerValidation(t *testing.T) {
	ts := newTest(t, func(s *params.Settings) {
		s.MinNominationPerCollator = u(5)
	}).Fund(alice, 100).Fund(bob, 100).Fund(carol, 5)

	assert.ErrorIs(t, ts.JoinCandidates(alice, u(9)), reverts.ErrBelowMinCollatorStake)
	assert.ErrorIs(t, ts.JoinCandidates(carol, u(10)), reverts.ErrInsufficientBalance)
	c, err := ts.Candidate(carol)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, uint64(5), ts.Free(carol))

	ts.Join(alice, 10)
	assert.ErrorIs(t, ts.JoinCandidates(alice, u(10)), reverts.ErrCandidateExists)
	assert.ErrorIs(t, ts.Nominate(bob, alice, u(4)), reverts.ErrBelowMinimumNomination)
	assert.ErrorIs(t, ts.Nominate(bob, dave, u(5)), reverts.ErrUnknownCandidate)
	assert.ErrorIs(t, ts.Nominate(alice, alice, u(5)), reverts.ErrCandidateExists)

	ts.Nominates(bob, alice, 5)
	assert.ErrorIs(t, ts.Nominate(bob, alice, u(5)), reverts.ErrAlreadyNominated)
	assert.ErrorIs(t, ts.JoinCandidates(bob, u(10)), reverts.ErrNominatorExists)
	assert.ErrorIs(t, ts.CandidateBondExtra(alice, u(1000)), reverts.ErrInsufficientBalance)
	c, _ = ts.Candidate(alice)
	assert.Equal(t, u(10), c.Bond)
}

func TestTooManyNominations(t *testing.T) {
	ts := newTest(t).Fund(bob, 1000)

	limit := int(para.MaxNominationsPerNominator())
	for i := 0; i <= limit; i++ {
		id := para.NamedAddress(string(rune('a'+i)) + "-collator")
		ts.Fund(id, 10).Join(id, 10)
		if i < limit {
			ts.Nominates(bob, id, 1)
			continue
		}
		assert.ErrorIs(t, ts.Nominate(bob, id, u(1)), reverts.ErrTooManyNominations)
	}
}

func TestSetParam(t *testing.T) {
	ts := singleCollator(t, 0)

	assert.ErrorIs(t, ts.SetParam(params.KeyBlocksPerEra, u(5)), reverts.ErrNoWritingSameValue)
	assert.Error(t, ts.SetParam(params.KeyBlocksPerEra, u(1)))
	require.NoError(t, ts.SetParam(params.KeyBlocksPerEra, u(10)))

	// the current era keeps its length
	ts.ProduceN(6, alice)
	info, err := ts.Era()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.Current)
	assert.Equal(t, uint32(10), info.Length)

	ts.ProduceN(9, alice)
	assert.Equal(t, uint64(2), ts.CurrentEra())
	ts.Produce(alice)
	assert.Equal(t, uint64(3), ts.CurrentEra())
}

func TestPruning(t *testing.T) {
	ts := singleCollator(t, 0)
	retention := int(para.PayoutRetentionEras())
	delay := 2

	ts.ProduceN(5*(retention+delay+2)+1, alice)
	current := ts.CurrentEra()

	snap, err := ts.AtStake(1, alice)
	require.NoError(t, err)
	assert.Nil(t, snap)
	l, err := ts.Ledger(1)
	require.NoError(t, err)
	assert.Nil(t, l)

	matured := current - uint64(delay)
	l, err = ts.Ledger(matured)
	require.NoError(t, err)
	assert.NotNil(t, l)
	snap, err = ts.AtStake(current, alice)
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestOfflineCandidate(t *testing.T) {
	ts := newTest(t).
		Fund(alice, 100).Fund(carol, 100).Fund(bob, 100).
		Join(alice, 50).Join(carol, 50).
		Begin()

	require.NoError(t, ts.GoOffline(alice))
	assert.ErrorIs(t, ts.GoOffline(alice), reverts.ErrAlreadyOffline)

	// idle candidates still take nominations
	ts.Nominates(bob, alice, 10)

	ts.ProduceN(6, carol)
	selected, err := ts.Selected(2)
	require.NoError(t, err)
	assert.Equal(t, []para.Address{carol}, selected)

	c, err := ts.Candidate(alice)
	require.NoError(t, err)
	assert.Equal(t, candidate.StatusIdle, c.Status)
	assert.Equal(t, uint64(60), c.TotalCounted.Uint64())
	assert.Equal(t, uint64(50), ts.Reserved(alice))

	require.NoError(t, ts.GoOnline(alice))
	assert.ErrorIs(t, ts.GoOnline(alice), reverts.ErrAlreadyActive)
	ts.ProduceN(5, carol)
	selected, err = ts.Selected(3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []para.Address{alice, carol}, selected)
}

func TestCandidateUnbond(t *testing.T) {
	ts := singleCollator(t, 0)

	assert.ErrorIs(t, ts.ScheduleCandidateUnbond(alice, u(41)), reverts.ErrBelowMinCollatorStake)
	assert.ErrorIs(t, ts.ScheduleCandidateUnbond(bob, u(1)), reverts.ErrUnknownCandidate)
	require.NoError(t, ts.ScheduleCandidateUnbond(alice, u(30)))
	assert.ErrorIs(t, ts.ScheduleCandidateUnbond(alice, u(1)), reverts.ErrPendingRequestExists)
	assert.ErrorIs(t, ts.ExecuteCandidateUnbond(alice), reverts.ErrNotYetExecutable)

	require.NoError(t, ts.CancelCandidateUnbond(alice))
	assert.ErrorIs(t, ts.CancelCandidateUnbond(alice), reverts.ErrNoPendingRequest)
	require.NoError(t, ts.ScheduleCandidateUnbond(alice, u(30)))

	ts.ProduceN(10, alice)
	c, err := ts.Candidate(alice)
	require.NoError(t, err)
	assert.Equal(t, u(50), c.Bond)
	assert.True(t, c.HasUnbondRequest())

	// executed when era 3 opens, before the selection
	ts.Produce(alice)
	c, err = ts.Candidate(alice)
	require.NoError(t, err)
	assert.Equal(t, u(20), c.Bond)
	assert.Equal(t, u(70), c.TotalCounted)
	assert.False(t, c.HasUnbondRequest())
	assert.Equal(t, uint64(20), ts.Reserved(alice))
	assert.Equal(t, uint64(80), ts.Free(alice))

	snap, err := ts.AtStake(3, alice)
	require.NoError(t, err)
	assert.Equal(t, u(20), snap.Bond)
}

func TestNominatorUnbond(t *testing.T) {
	ts := singleCollator(t, 0)

	total := func() uint64 {
		c, err := ts.Candidate(alice)
		require.NoError(t, err)
		return c.TotalCounted.Uint64()
	}

	assert.ErrorIs(t, ts.ScheduleNominatorUnbond(bob, alice, u(50)), reverts.ErrBelowMinimumNomination)
	assert.ErrorIs(t, ts.CancelNominationRequest(bob, alice), reverts.ErrNoPendingRequest)
	require.NoError(t, ts.ScheduleNominatorUnbond(bob, alice, u(20)))
	assert.Equal(t, uint64(100), total(), "counted in full until executed")

	assert.ErrorIs(t, ts.ScheduleNominatorUnbond(bob, alice, u(1)), reverts.ErrPendingRequestExists)
	assert.ErrorIs(t, ts.ScheduleRevokeNomination(bob, alice), reverts.ErrPendingRequestExists)
	assert.ErrorIs(t, ts.ExecuteNominationRequest(bob, alice), reverts.ErrNotYetExecutable)

	require.NoError(t, ts.CancelNominationRequest(bob, alice))
	assert.ErrorIs(t, ts.CancelNominationRequest(bob, alice), reverts.ErrNoPendingRequest)
	require.NoError(t, ts.ScheduleNominatorUnbond(bob, alice, u(20)))

	ts.ProduceN(11, alice)
	assert.Equal(t, uint64(80), total())
	assert.Equal(t, uint64(30), ts.Reserved(bob))
	assert.Equal(t, uint64(70), ts.Free(bob))

	n, err := ts.Nominator(bob)
	require.NoError(t, err)
	nom := n.Find(alice)
	require.NotNil(t, nom)
	assert.Equal(t, u(30), nom.Amount)
	assert.False(t, nom.HasDecrease())

	// a revoke goes through the same request calls
	require.NoError(t, ts.ScheduleRevokeNomination(bob, alice))
	assert.ErrorIs(t, ts.ExecuteNominationRequest(bob, alice), reverts.ErrNotYetExecutable)
	require.NoError(t, ts.CancelNominationRequest(bob, alice))
	assert.Equal(t, uint64(80), total())
}

func TestLeaveNominators(t *testing.T) {
	ts := newTest(t).
		Fund(alice, 100).Fund(carol, 100).Fund(dave, 100).
		Join(alice, 50).Join(carol, 50).
		Nominates(dave, alice, 20).
		Nominates(dave, carol, 20).
		Begin()

	totals := func() []uint64 {
		var out []uint64
		for _, id := range []para.Address{alice, carol} {
			c, err := ts.Candidate(id)
			require.NoError(t, err)
			out = append(out, c.TotalCounted.Uint64())
		}
		return out
	}

	assert.ErrorIs(t, ts.CancelLeaveNominators(dave), reverts.ErrNominatorNotLeaving)
	assert.ErrorIs(t, ts.ExecuteLeaveNominators(dave), reverts.ErrNominatorNotLeaving)
	assert.ErrorIs(t, ts.ScheduleLeaveNominators(bob), reverts.ErrUnknownNominator)
	require.NoError(t, ts.ScheduleNominatorUnbond(dave, carol, u(5)))

	require.NoError(t, ts.ScheduleLeaveNominators(dave))
	assert.ErrorIs(t, ts.ScheduleLeaveNominators(dave), reverts.ErrNominatorLeaving)
	assert.Equal(t, []uint64{50, 50}, totals())
	assert.ErrorIs(t, ts.ExecuteLeaveNominators(dave), reverts.ErrNotYetExecutable)

	require.NoError(t, ts.CancelLeaveNominators(dave))
	assert.Equal(t, []uint64{70, 70}, totals())
	n, err := ts.Nominator(dave)
	require.NoError(t, err)
	assert.False(t, n.Find(carol).HasDecrease(), "leaving drops the pending decrease")

	require.NoError(t, ts.ScheduleLeaveNominators(dave))
	ts.ProduceN(11, alice)

	n, err = ts.Nominator(dave)
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Zero(t, ts.Reserved(dave))
	assert.Equal(t, uint64(100), ts.Free(dave))
	assert.Equal(t, []uint64{50, 50}, totals())
}
