// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/bridge"
	"github.com/parastake/parastake/genesis"
	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/growth"
	"github.com/parastake/parastake/staking/reward"
)

const testGenesis = `
balances:
  - account: alice
    amount: "1000"
  - account: bob
    amount: "1000"
rewardPot: "10000"
candidates:
  - id: alice
    bond: "100"
  - id: bob
    bond: "100"
`

func newNode(t *testing.T) (*Node, *lvldb.LevelDB) {
	gen, err := genesis.Parse([]byte(testGenesis))
	require.NoError(t, err)
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	n, err := New(db, gen, Options{LiftDelay: 2, LiftBps: 1000})
	require.NoError(t, err)
	return n, db
}

func TestProduceBlocks(t *testing.T) {
	n, _ := newNode(t)

	var last *Summary
	for range 11 {
		s, err := n.ProduceBlock()
		require.NoError(t, err)
		last = s
	}
	assert.Equal(t, uint64(11), last.Number)
	assert.Equal(t, uint64(3), last.Era)

	head, root := n.Head()
	assert.Equal(t, uint64(11), head)
	assert.Equal(t, last.Root, root)

	require.NoError(t, n.View(func(v *View) error {
		l, err := v.Staker.Ledger(1)
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.Equal(t, reward.StateSettled, l.State)
		assert.Equal(t, uint64(80), l.TotalPoints)
		assert.True(t, l.Paid.Cmp(l.TotalReward) <= 0)

		free, err := v.Balances.FreeBalance(para.NamedAddress("alice"))
		require.NoError(t, err)
		assert.Equal(t, uint64(900+5000), free.Uint64())
		return nil
	}))
}

func TestGrowthRelayed(t *testing.T) {
	n, _ := newNode(t)

	var lifted []uint64
	for range 17 {
		s, err := n.ProduceBlock()
		require.NoError(t, err)
		if len(s.Lifted) > 0 {
			assert.Equal(t, uint64(17), s.Number)
			lifted = append(lifted, s.Lifted...)
		}
	}
	assert.Equal(t, []uint64{1}, lifted)

	require.NoError(t, n.View(func(v *View) error {
		p, err := v.Staker.GrowthPeriod(1)
		require.NoError(t, err)
		assert.Equal(t, growth.StatusCompleted, p.Status)
		assert.Equal(t, uint256.NewInt(1000), p.Lifted)
		assert.True(t, p.Distributed.Cmp(p.Lifted) <= 0)

		req, err := v.Bridge.Get(1)
		require.NoError(t, err)
		assert.Equal(t, bridge.StatusConfirmed, req.Status)
		assert.Equal(t, uint64(15), req.Block)
		return nil
	}))
}

func TestReopen(t *testing.T) {
	n, db := newNode(t)
	for range 3 {
		_, err := n.ProduceBlockBy(para.NamedAddress("alice"))
		require.NoError(t, err)
	}
	head, root := n.Head()

	reopened, err := New(db, nil, Options{})
	require.NoError(t, err)
	h, r := reopened.Head()
	assert.Equal(t, head, h)
	assert.Equal(t, root, r)

	s, err := reopened.ProduceBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), s.Number)
}

func TestNewWithoutGenesis(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	_, err = New(db, nil, Options{})
	assert.Error(t, err)
}

func TestSubscribe(t *testing.T) {
	n, _ := newNode(t)

	ch, unsubscribe := n.Subscribe(2)
	for range 3 {
		_, err := n.ProduceBlock()
		require.NoError(t, err)
	}
	// the third block is dropped, the buffer holds two
	assert.Equal(t, uint64(1), (<-ch).Number)
	assert.Equal(t, uint64(2), (<-ch).Number)
	assert.Empty(t, ch)

	unsubscribe()
	unsubscribe()
	_, err := n.ProduceBlock()
	require.NoError(t, err)
	assert.Empty(t, ch)
}
