// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/store"
)

var (
	slotInfo     = para.BytesToBytes32([]byte("era-info"))
	slotSelected = para.BytesToBytes32([]byte("era-selected"))
	slotAtStake  = para.BytesToBytes32([]byte("era-at-stake"))
	slotStaked   = para.BytesToBytes32([]byte("era-staked"))
)

// Service keeps the era counter and the per era snapshots.
type Service struct {
	info     *store.Value[*Info]
	selected *store.Mapping[store.Uint64Key, []para.Address]
	atStake  *store.Mapping[store.EraAddressKey, *Snapshot]
	staked   *store.Mapping[store.Uint64Key, *uint256.Int]
}

func New(sctx *store.Context) *Service {
	return &Service{
		info:     store.NewValue[*Info](sctx, slotInfo),
		selected: store.NewMapping[store.Uint64Key, []para.Address](sctx, slotSelected),
		atStake:  store.NewMapping[store.EraAddressKey, *Snapshot](sctx, slotAtStake),
		staked:   store.NewMapping[store.Uint64Key, *uint256.Int](sctx, slotStaked),
	}
}

// Info returns the current era, nil before genesis.
func (s *Service) Info() (*Info, error) {
	info, err := s.info.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get era info")
	}
	return info, nil
}

func (s *Service) SetInfo(info *Info) error {
	return s.info.Set(info)
}

// Freeze records the selected set of an era with each candidate's snapshot and the era stake.
func (s *Service) Freeze(era uint64, selected []para.Address, snapshots []*Snapshot) error {
	if len(selected) != len(snapshots) {
		return errors.New("selected set and snapshots mismatch")
	}
	staked := new(uint256.Int)
	for i, id := range selected {
		if err := s.atStake.Set(store.EraAddressKey{Era: era, Address: id}, snapshots[i]); err != nil {
			return err
		}
		staked.Add(staked, snapshots[i].Total)
	}
	if err := s.selected.Set(store.Uint64Key(era), selected); err != nil {
		return err
	}
	return s.staked.Set(store.Uint64Key(era), staked)
}

// CarryOver freezes the set of the previous era again for era.
func (s *Service) CarryOver(era uint64) ([]para.Address, error) {
	if era == 0 {
		return nil, nil
	}
	prev, err := s.Selected(era - 1)
	if err != nil {
		return nil, err
	}
	snapshots := make([]*Snapshot, 0, len(prev))
	for _, id := range prev {
		snap, err := s.Snapshot(era-1, id)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, errors.Errorf("missing snapshot of %v in era %d", id, era-1)
		}
		snapshots = append(snapshots, snap)
	}
	return prev, s.Freeze(era, prev, snapshots)
}

// Selected returns the selected set of the era, ascending.
func (s *Service) Selected(era uint64) ([]para.Address, error) {
	return s.selected.Get(store.Uint64Key(era))
}

// IsSelected reports whether the candidate is in the selected set of the era.
func (s *Service) IsSelected(era uint64, id para.Address) (bool, error) {
	snap, err := s.Snapshot(era, id)
	return snap != nil, err
}

// Snapshot returns the frozen stake of a selected candidate, nil if it was not selected.
func (s *Service) Snapshot(era uint64, id para.Address) (*Snapshot, error) {
	return s.atStake.Get(store.EraAddressKey{Era: era, Address: id})
}

// Staked returns the total stake frozen for the era.
func (s *Service) Staked(era uint64) (*uint256.Int, error) {
	staked, err := s.staked.Get(store.Uint64Key(era))
	if err != nil {
		return nil, err
	}
	if staked == nil {
		return new(uint256.Int), nil
	}
	return staked, nil
}

// Prune drops the snapshots of the era.
func (s *Service) Prune(era uint64) error {
	selected, err := s.Selected(era)
	if err != nil {
		return err
	}
	for _, id := range selected {
		s.atStake.Delete(store.EraAddressKey{Era: era, Address: id})
	}
	s.selected.Delete(store.Uint64Key(era))
	s.staked.Delete(store.Uint64Key(era))
	return nil
}
