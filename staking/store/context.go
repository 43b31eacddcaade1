// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/state"
)

// Context binds typed storage to the storage space of a module address.
type Context struct {
	address para.Address
	state   *state.State
}

func NewContext(address para.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() para.Address {
	return c.address
}
