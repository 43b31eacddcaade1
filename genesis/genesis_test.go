// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/balances"
	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking"
	"github.com/parastake/parastake/state"
)

const sample = `
settings:
  blocksPerEra: 10
  rewardPaymentDelay: 1
  minCollatorStake: "100"
  growthEnabled: false
balances:
  - account: alice
    amount: "1000"
  - account: bob
    amount: "500"
  - account: "0x00000000000000000000000000000000000000aa"
    amount: "7"
rewardPot: "1000000"
candidates:
  - id: alice
    bond: "400"
nominations:
  - nominator: bob
    candidate: alice
    amount: "250"
`

func TestParse(t *testing.T) {
	gen, err := Parse([]byte(sample))
	require.NoError(t, err)

	settings := gen.StakingSettings()
	assert.Equal(t, uint32(10), settings.BlocksPerEra)
	assert.Equal(t, uint64(1), settings.RewardPaymentDelay)
	assert.Equal(t, uint64(100), settings.MinCollatorStake.Uint64())
	assert.False(t, settings.GrowthEnabled)
	// untouched fields keep their default
	assert.Equal(t, uint64(2), settings.Delay)

	require.Len(t, gen.Balances, 3)
	assert.Equal(t, para.NamedAddress("alice"), gen.Balances[0].Account.Address())
	assert.Equal(t, para.BytesToAddress([]byte{0xaa}), gen.Balances[2].Account.Address())
	assert.Equal(t, uint64(1000000), gen.RewardPot.Value().Uint64())
}

func TestParseConfig(t *testing.T) {
	gen, err := Parse([]byte("config:\n  pointsPerBlock: 5\n  maxCountedNominations: 2\n"))
	require.NoError(t, err)
	require.NotNil(t, gen.Config)
	assert.Equal(t, uint32(5), gen.Config.PointsPerBlock)
	assert.Equal(t, uint32(2), gen.Config.MaxCountedNominations)
	assert.Zero(t, gen.Config.MinBlocksPerEra)

	gen, err = Parse([]byte(sample))
	require.NoError(t, err)
	assert.Nil(t, gen.Config)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("rewardPot: \"12x\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("unknown: 1\n"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	gen, err := Parse([]byte(sample))
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater := state.NewStater(db)

	root, err := gen.Build(stater)
	require.NoError(t, err)
	assert.False(t, root.IsZero())

	best, err := stater.BestRoot()
	require.NoError(t, err)
	assert.Equal(t, root, best)

	st := stater.NewState(root)
	bals := balances.New(st)
	staker := staking.New(st, bals, nil, nil)

	info, err := staker.Era()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Current)
	assert.Equal(t, uint32(10), info.Length)

	selected, err := staker.Selected(1)
	require.NoError(t, err)
	assert.Equal(t, []para.Address{para.NamedAddress("alice")}, selected)

	snap, err := staker.AtStake(1, para.NamedAddress("alice"))
	require.NoError(t, err)
	assert.Equal(t, uint64(650), snap.Total.Uint64())

	free, err := bals.FreeBalance(para.NamedAddress("bob"))
	require.NoError(t, err)
	assert.Equal(t, uint64(250), free.Uint64())

	free, err = bals.FreeBalance(staking.RewardPot)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000), free.Uint64())
}

func TestBuildRejectsInvalidLedger(t *testing.T) {
	gen, err := Parse([]byte(`
balances:
  - account: alice
    amount: "5"
candidates:
  - id: alice
    bond: "50"
`))
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	_, err = gen.Build(state.NewStater(db))
	assert.Error(t, err)
}
