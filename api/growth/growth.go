// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package growth

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/node"
)

type Growth struct {
	node *node.Node
}

func New(n *node.Node) *Growth {
	return &Growth{node: n}
}

func (g *Growth) handleGetOverview(w http.ResponseWriter, _ *http.Request) error {
	var out *Overview
	err := g.node.View(func(v *node.View) error {
		current, err := v.Staker.CurrentGrowthPeriod()
		if err != nil {
			return err
		}
		last, err := v.Staker.LastGrowthPeriod()
		if err != nil {
			return err
		}
		queue, err := v.Staker.GrowthQueue()
		if err != nil {
			return err
		}
		outstanding, err := v.Staker.OutstandingGrowth()
		if err != nil {
			return err
		}
		out = &Overview{
			Current:     convertPeriod(current),
			Last:        last,
			Queue:       append([]uint64{}, queue...),
			Outstanding: outstanding,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (g *Growth) handleGetPeriod(w http.ResponseWriter, req *http.Request) error {
	index, err := utils.ParseUint64("index", mux.Vars(req)["index"])
	if err != nil {
		return err
	}
	var out *Period
	err = g.node.View(func(v *node.View) error {
		p, err := v.Staker.GrowthPeriod(index)
		if err != nil {
			return err
		}
		if p == nil {
			return utils.NotFound(errors.Errorf("growth period %d not found", index))
		}
		scores, err := v.Staker.GrowthScores(index)
		if err != nil {
			return err
		}
		out = convertPeriod(p)
		for _, s := range scores {
			out.Scores = append(out.Scores, Score{Collator: s.Collator, Points: s.Points})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (g *Growth) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /growth").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetOverview))
	sub.Path("/{index}").
		Methods(http.MethodGet).
		Name("GET /growth/{index}").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetPeriod))
}
