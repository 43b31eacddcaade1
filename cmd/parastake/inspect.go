// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/staking"
)

type selectedDump struct {
	ID     string
	Bond   string
	Total  string
	Points uint64
}

type candidateDump struct {
	ID           string
	Status       string
	Bond         string
	TotalCounted string
	Nominations  int
}

type ledgerDump struct {
	Era       uint64
	State     string
	Allocated string
	Paid      string
	Forfeited string
	Remaining uint64
}

type growthDump struct {
	Index       uint64
	Status      string
	StartEra    uint64
	Count       uint64
	Rewards     string
	Lifted      string
	Distributed string
	Dust        string
}

type stateDump struct {
	Head       uint64
	Root       string
	Era        uint64
	EraFirst   uint64
	EraLength  uint32
	RewardPot  string
	Locked     string
	Selected   []selectedDump
	Candidates []candidateDump
	Ledgers    []ledgerDump
	Growth     []growthDump
	Queue      []uint64
}

func dec(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.String(dataDirFlag.Name) == "" {
		return errors.New("data-dir flag not specified")
	}
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := node.New(db, nil, node.Options{})
	if err != nil {
		return err
	}
	dump, err := collectDump(n)
	if err != nil {
		return err
	}
	writeDump(os.Stdout, dump)
	return nil
}

func writeDump(w io.Writer, dump *stateDump) {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(w, dump)
}

func collectDump(n *node.Node) (*stateDump, error) {
	dump := &stateDump{}
	err := n.View(func(v *node.View) error {
		s := v.Staker
		info, err := s.Era()
		if err != nil {
			return err
		}
		pot, err := v.Balances.FreeBalance(staking.RewardPot)
		if err != nil {
			return err
		}
		locked, err := s.Locked()
		if err != nil {
			return err
		}
		dump.Head, dump.Root = v.Head, v.Root.String()
		dump.Era, dump.EraFirst, dump.EraLength = info.Current, info.First, info.Length
		dump.RewardPot, dump.Locked = dec(pot), dec(locked)

		selected, err := s.Selected(info.Current)
		if err != nil {
			return err
		}
		for _, id := range selected {
			snap, err := s.AtStake(info.Current, id)
			if err != nil {
				return err
			}
			points, err := s.Points(info.Current, id)
			if err != nil {
				return err
			}
			entry := selectedDump{ID: id.String(), Points: points}
			if snap != nil {
				entry.Bond, entry.Total = dec(snap.Bond), dec(snap.Total)
			}
			dump.Selected = append(dump.Selected, entry)
		}

		candidates, err := s.Candidates()
		if err != nil {
			return err
		}
		for _, c := range candidates {
			dump.Candidates = append(dump.Candidates, candidateDump{
				ID:           c.ID.String(),
				Status:       c.Status.String(),
				Bond:         dec(c.Bond),
				TotalCounted: dec(c.TotalCounted),
				Nominations:  len(c.Nominations),
			})
		}

		eras, err := s.LedgerEras()
		if err != nil {
			return err
		}
		for _, eraNum := range eras {
			l, err := s.Ledger(eraNum)
			if err != nil {
				return err
			}
			if l == nil {
				continue
			}
			dump.Ledgers = append(dump.Ledgers, ledgerDump{
				Era:       l.Era,
				State:     l.State.String(),
				Allocated: dec(l.Allocated),
				Paid:      dec(l.Paid),
				Forfeited: dec(l.Forfeited),
				Remaining: l.Remaining(),
			})
		}

		last, err := s.LastGrowthPeriod()
		if err != nil {
			return err
		}
		for index := uint64(1); index <= last; index++ {
			p, err := s.GrowthPeriod(index)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			dump.Growth = append(dump.Growth, growthDump{
				Index:       p.Index,
				Status:      p.Status.String(),
				StartEra:    p.StartEra,
				Count:       p.Count,
				Rewards:     dec(p.TotalRewards),
				Lifted:      dec(p.Lifted),
				Distributed: dec(p.Distributed),
				Dust:        dec(p.Dust),
			})
		}
		if dump.Queue, err = s.GrowthQueue(); err != nil {
			return err
		}
		return nil
	})
	return dump, err
}
