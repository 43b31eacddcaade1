// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payout

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reward"
	"github.com/parastake/parastake/staking/stakes"
	"github.com/parastake/parastake/staking/store"
	"github.com/parastake/parastake/state"
)

func newScheduler(t *testing.T) *Scheduler {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(store.NewContext(para.NamedAddress("staker"), state.NewStater(db).NewState(para.Bytes32{})))
}

func addr(b byte) para.Address {
	return para.BytesToAddress([]byte{b})
}

func ledger(t *testing.T, era uint64, amount uint64, candidates ...byte) *reward.Ledger {
	inputs := make([]*reward.Input, 0, len(candidates))
	for _, c := range candidates {
		inputs = append(inputs, &reward.Input{
			Candidate:   addr(c),
			Points:      1,
			Bond:        uint256.NewInt(1),
			Nominations: stakes.Bonds{{Owner: addr(100 + c), Amount: uint256.NewInt(1)}},
			Total:       uint256.NewInt(2),
		})
	}
	payouts, err := reward.Compute(uint256.NewInt(amount), uint64(len(candidates)), inputs)
	require.NoError(t, err)
	return reward.NewLedger(era, uint64(len(candidates)), uint256.NewInt(amount), payouts)
}

type recorder struct {
	received map[para.Address]uint64
	fail     map[para.Address]bool
}

func (r *recorder) transfer(to para.Address, amount *uint256.Int) error {
	if r.fail[to] {
		return errors.New("account frozen")
	}
	if r.received == nil {
		r.received = make(map[para.Address]uint64)
	}
	r.received[to] += amount.Uint64()
	return nil
}

func TestScheduleEmptySettles(t *testing.T) {
	s := newScheduler(t)

	require.NoError(t, s.Schedule(reward.NewLedger(3, 0, uint256.NewInt(0), nil)))
	l, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, reward.StateSettled, l.State)

	paying, _ := s.Paying()
	assert.Empty(t, paying)

	r := &recorder{}
	receipt, err := s.Pay(r.transfer)
	require.NoError(t, err)
	assert.Nil(t, receipt)

	assert.Error(t, s.Schedule(reward.NewLedger(3, 0, uint256.NewInt(0), nil)))
}

func TestPayOnePerCall(t *testing.T) {
	s := newScheduler(t)
	require.NoError(t, s.Schedule(ledger(t, 1, 300, 3, 1, 2)))

	locked, _ := s.Locked()
	assert.Equal(t, uint64(300), locked.Uint64())

	r := &recorder{}
	order := []para.Address{addr(1), addr(2), addr(3)}
	for i, want := range order {
		receipt, err := s.Pay(r.transfer)
		require.NoError(t, err)
		require.NotNil(t, receipt)
		assert.Equal(t, want, receipt.Candidate)
		assert.Equal(t, uint64(100), receipt.Paid.Uint64())
		assert.Equal(t, i == len(order)-1, receipt.Settled)

		l, _ := s.Get(1)
		assert.Equal(t, uint64(i+1), l.Cursor)
	}

	l, _ := s.Get(1)
	assert.Equal(t, reward.StateSettled, l.State)
	assert.Equal(t, uint64(300), l.Paid.Uint64())
	assert.Equal(t, uint64(50), r.received[addr(1)])
	assert.Equal(t, uint64(50), r.received[addr(101)])

	locked, _ = s.Locked()
	assert.True(t, locked.IsZero())

	receipt, err := s.Pay(r.transfer)
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestPayOldestFirst(t *testing.T) {
	s := newScheduler(t)
	require.NoError(t, s.Schedule(ledger(t, 5, 100, 1)))
	require.NoError(t, s.Schedule(ledger(t, 4, 100, 2)))

	paying, _ := s.Paying()
	assert.Equal(t, []uint64{4, 5}, paying)

	r := &recorder{}
	receipt, err := s.Pay(r.transfer)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), receipt.Era)
	receipt, err = s.Pay(r.transfer)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), receipt.Era)
}

func TestPayForfeitsFailedTransfer(t *testing.T) {
	s := newScheduler(t)
	require.NoError(t, s.Schedule(ledger(t, 1, 100, 1)))

	r := &recorder{fail: map[para.Address]bool{addr(101): true}}
	receipt, err := s.Pay(r.transfer)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), receipt.Paid.Uint64())
	assert.Equal(t, uint64(50), receipt.Forfeited.Uint64())
	assert.Equal(t, 1, receipt.Failures)
	assert.True(t, receipt.Settled)

	l, _ := s.Get(1)
	assert.Equal(t, uint64(50), l.Forfeited.Uint64())
	locked, _ := s.Locked()
	assert.True(t, locked.IsZero())
}

func TestPrune(t *testing.T) {
	s := newScheduler(t)
	require.NoError(t, s.Schedule(reward.NewLedger(1, 0, uint256.NewInt(0), nil)))
	require.NoError(t, s.Schedule(ledger(t, 2, 100, 1)))
	require.NoError(t, s.Schedule(reward.NewLedger(3, 0, uint256.NewInt(0), nil)))

	pruned, err := s.Prune(3)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	eras, _ := s.Eras()
	assert.Equal(t, []uint64{2, 3}, eras)
	l, _ := s.Get(1)
	assert.Nil(t, l)

	r := &recorder{}
	_, err = s.Pay(r.transfer)
	require.NoError(t, err)
	pruned, err = s.Prune(3)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
	eras, _ = s.Eras()
	assert.Equal(t, []uint64{3}, eras)
}
