// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eras

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/staking"
)

type Eras struct {
	node *node.Node
}

func New(n *node.Node) *Eras {
	return &Eras{node: n}
}

func (e *Eras) handleGetEra(w http.ResponseWriter, _ *http.Request) error {
	var out *Era
	err := e.node.View(func(v *node.View) error {
		info, err := v.Staker.Era()
		if err != nil {
			return err
		}
		settings, err := v.Staker.Settings()
		if err != nil {
			return err
		}
		staked, err := v.Staker.Staked(info.Current)
		if err != nil {
			return err
		}
		pot, err := v.Balances.FreeBalance(staking.RewardPot)
		if err != nil {
			return err
		}
		locked, err := v.Staker.Locked()
		if err != nil {
			return err
		}
		available, err := v.Staker.AvailableReward()
		if err != nil {
			return err
		}
		out = &Era{
			Head:      v.Head,
			Current:   info.Current,
			First:     info.First,
			Length:    info.Length,
			Staked:    utils.Amount(staked),
			RewardPot: utils.Amount(pot),
			Locked:    utils.Amount(locked),
			Available: utils.Amount(available),
			Settings:  convertSettings(settings),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (e *Eras) handleGetSelected(w http.ResponseWriter, req *http.Request) error {
	var eraNum uint64
	if s := req.URL.Query().Get("era"); s != "" {
		n, err := utils.ParseUint64("era", s)
		if err != nil {
			return err
		}
		eraNum = n
	}

	var out *Selected
	err := e.node.View(func(v *node.View) error {
		info, err := v.Staker.Era()
		if err != nil {
			return err
		}
		if eraNum == 0 {
			eraNum = info.Current
		}
		if eraNum > info.Current {
			return utils.NotFound(errors.Errorf("era %d not started", eraNum))
		}
		selected, err := v.Staker.Selected(eraNum)
		if err != nil {
			return err
		}
		staked, err := v.Staker.Staked(eraNum)
		if err != nil {
			return err
		}
		total, err := v.Staker.TotalPoints(eraNum)
		if err != nil {
			return err
		}
		out = &Selected{
			Era:         eraNum,
			Staked:      utils.Amount(staked),
			TotalPoints: total,
			Collators:   make([]*Collator, 0, len(selected)),
		}
		for _, id := range selected {
			snap, err := v.Staker.AtStake(eraNum, id)
			if err != nil {
				return err
			}
			if snap == nil {
				continue
			}
			points, err := v.Staker.Points(eraNum, id)
			if err != nil {
				return err
			}
			out.Collators = append(out.Collators, convertCollator(id, snap, points))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

// Mount registers /era and /selected on root.
func (e *Eras) Mount(root *mux.Router) {
	root.Path("/era").
		Methods(http.MethodGet).
		Name("GET /era").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetEra))
	root.Path("/selected").
		Methods(http.MethodGet).
		Name("GET /selected").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetSelected))
}
