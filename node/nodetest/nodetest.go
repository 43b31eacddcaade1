// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nodetest builds in-memory nodes for tests.
package nodetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/genesis"
	"github.com/parastake/parastake/lvldb"
	"github.com/parastake/parastake/node"
)

// Genesis has two collators, alice and bob, a nominator carol and a reward
// pot of 10000. Eras last five blocks.
const Genesis = `
balances:
  - account: alice
    amount: "1000"
  - account: bob
    amount: "1000"
  - account: carol
    amount: "1000"
rewardPot: "10000"
candidates:
  - id: alice
    bond: "100"
  - id: bob
    bond: "100"
nominations:
  - nominator: carol
    candidate: bob
    amount: "100"
`

// New opens a node on an in-memory database and produces the given number
// of blocks.
func New(t testing.TB, opts node.Options, blocks int) *node.Node {
	gen, err := genesis.Parse([]byte(Genesis))
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	n, err := node.New(db, gen, opts)
	require.NoError(t, err)
	for range blocks {
		_, err := n.ProduceBlock()
		require.NoError(t, err)
	}
	return n
}
