// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidates

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/node"
)

type Candidates struct {
	node *node.Node
}

func New(n *node.Node) *Candidates {
	return &Candidates{node: n}
}

func (c *Candidates) handleGetCandidates(w http.ResponseWriter, _ *http.Request) error {
	out := make([]*Candidate, 0)
	err := c.node.View(func(v *node.View) error {
		entries, err := v.Staker.Candidates()
		if err != nil {
			return err
		}
		for _, e := range entries {
			out = append(out, convertCandidate(e.ID, e.Candidate))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Candidates) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseAddress("id", mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var out *Candidate
	err = c.node.View(func(v *node.View) error {
		cand, err := v.Staker.Candidate(id)
		if err != nil {
			return err
		}
		if cand == nil {
			return utils.NotFound(errors.Errorf("candidate %v not found", id))
		}
		out = convertCandidate(id, cand)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Candidates) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /candidates").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCandidates))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /candidates/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCandidate))
}
