// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/node"
)

type Accounts struct {
	node *node.Node
}

func New(n *node.Node) *Accounts {
	return &Accounts{node: n}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	out := &Account{Nominations: make([]Nomination, 0)}
	err = a.node.View(func(v *node.View) error {
		free, err := v.Balances.FreeBalance(addr)
		if err != nil {
			return err
		}
		reserved, err := v.Balances.ReservedBalance(addr)
		if err != nil {
			return err
		}
		if out.Frozen, err = v.Balances.IsFrozen(addr); err != nil {
			return err
		}
		cand, err := v.Staker.Candidate(addr)
		if err != nil {
			return err
		}
		nominator, err := v.Staker.Nominator(addr)
		if err != nil {
			return err
		}
		out.Free = utils.Amount(free)
		out.Reserved = utils.Amount(reserved)
		out.Candidate = cand != nil
		if nominator != nil {
			for _, n := range nominator.Nominations {
				nom := Nomination{
					Candidate: n.Candidate,
					Amount:    utils.Amount(n.Amount),
					Status:    n.Status.String(),
					RevokeEra: n.RevokeEra,
				}
				if n.HasDecrease() {
					nom.Decrease = &Decrease{Amount: utils.Amount(n.LessAmount), Era: n.LessEra}
				}
				out.Nominations = append(out.Nominations, nom)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
