// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payouts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/api/utils"
	"github.com/parastake/parastake/node"
)

type Payouts struct {
	node *node.Node
}

func New(n *node.Node) *Payouts {
	return &Payouts{node: n}
}

func (p *Payouts) handleGetOverview(w http.ResponseWriter, _ *http.Request) error {
	var out *Overview
	err := p.node.View(func(v *node.View) error {
		locked, err := v.Staker.Locked()
		if err != nil {
			return err
		}
		available, err := v.Staker.AvailableReward()
		if err != nil {
			return err
		}
		paying, err := v.Staker.PayingEras()
		if err != nil {
			return err
		}
		eras, err := v.Staker.LedgerEras()
		if err != nil {
			return err
		}
		out = &Overview{
			Locked:    utils.Amount(locked),
			Available: utils.Amount(available),
			Paying:    append([]uint64{}, paying...),
			Ledgers:   make([]*LedgerSummary, 0, len(eras)),
		}
		for _, eraNum := range eras {
			l, err := v.Staker.Ledger(eraNum)
			if err != nil {
				return err
			}
			if l != nil {
				out.Ledgers = append(out.Ledgers, convertSummary(l))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Payouts) handleGetLedger(w http.ResponseWriter, req *http.Request) error {
	eraNum, err := utils.ParseUint64("era", mux.Vars(req)["era"])
	if err != nil {
		return err
	}
	var out *Ledger
	err = p.node.View(func(v *node.View) error {
		l, err := v.Staker.Ledger(eraNum)
		if err != nil {
			return err
		}
		if l == nil {
			return utils.NotFound(errors.Errorf("no reward ledger for era %d", eraNum))
		}
		out = convertLedger(l)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Payouts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /payouts").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetOverview))
	sub.Path("/{era}").
		Methods(http.MethodGet).
		Name("GET /payouts/{era}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetLedger))
}
