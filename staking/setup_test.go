// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/balances"
	"github.com/parastake/parastake/bridge"
	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/state"
)

var (
	alice = para.NamedAddress("alice")
	bob   = para.NamedAddress("bob")
	carol = para.NamedAddress("carol")
	dave  = para.NamedAddress("dave")
)

type stakerTest struct {
	*Staker
	t        *testing.T
	balances *balances.Balances
	bridge   *bridge.Queue
	sessions map[uint64][]para.Address
	block    uint64
}

func newTest(t *testing.T, opts ...func(*params.Settings)) *stakerTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState(para.Bytes32{})
	ts := &stakerTest{
		t:        t,
		balances: balances.New(st),
		bridge:   bridge.New(st, 0),
		sessions: make(map[uint64][]para.Address),
	}
	ts.Staker = New(st, ts.balances, ts.bridge, ts)

	settings := params.Defaults()
	for _, opt := range opts {
		opt(settings)
	}
	require.NoError(t, ts.Initialize(settings))
	return ts
}

func (ts *stakerTest) NewSession(eraNum uint64, collators []para.Address) {
	ts.sessions[eraNum] = collators
}

func (ts *stakerTest) Fund(addr para.Address, amount uint64) *stakerTest {
	require.NoError(ts.t, ts.balances.Mint(addr, uint256.NewInt(amount)))
	return ts
}

func (ts *stakerTest) Join(id para.Address, bond uint64) *stakerTest {
	require.NoError(ts.t, ts.JoinCandidates(id, uint256.NewInt(bond)))
	return ts
}

func (ts *stakerTest) Nominates(nominator, id para.Address, amount uint64) *stakerTest {
	require.NoError(ts.t, ts.Nominate(nominator, id, uint256.NewInt(amount)))
	return ts
}

func (ts *stakerTest) Begin() *stakerTest {
	require.NoError(ts.t, ts.Start(ts.block))
	return ts
}

// Produce runs one block per author.
func (ts *stakerTest) Produce(authors ...para.Address) *stakerTest {
	for _, author := range authors {
		require.NoError(ts.t, ts.OnInitialize(ts.block))
		require.NoError(ts.t, ts.NoteAuthor(author))
		ts.block++
	}
	return ts
}

// ProduceN runs n blocks authored by author.
func (ts *stakerTest) ProduceN(n int, author para.Address) *stakerTest {
	for range n {
		ts.Produce(author)
	}
	return ts
}

func (ts *stakerTest) Free(addr para.Address) uint64 {
	free, err := ts.balances.FreeBalance(addr)
	require.NoError(ts.t, err)
	return free.Uint64()
}

func (ts *stakerTest) Reserved(addr para.Address) uint64 {
	reserved, err := ts.balances.ReservedBalance(addr)
	require.NoError(ts.t, err)
	return reserved.Uint64()
}

func (ts *stakerTest) CurrentEra() uint64 {
	info, err := ts.Era()
	require.NoError(ts.t, err)
	return info.Current
}
