// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package payout persists era reward ledgers and releases them one candidate per block.
package payout

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reward"
	"github.com/parastake/parastake/staking/store"
)

var logger = log.WithContext("pkg", "payout")

var (
	slotLedgers = para.BytesToBytes32([]byte("payout-ledgers"))
	slotEras    = para.BytesToBytes32([]byte("payout-eras"))
	slotPaying  = para.BytesToBytes32([]byte("payout-paying"))
	slotLocked  = para.BytesToBytes32([]byte("payout-locked"))
)

// TransferFunc moves amount to the account. A returned error forfeits the amount.
type TransferFunc func(to para.Address, amount *uint256.Int) error

// Receipt describes a released payout.
type Receipt struct {
	Era       uint64
	Candidate para.Address
	Paid      *uint256.Int
	Forfeited *uint256.Int
	Failures  int
	Settled   bool // the ledger settled with this payout
}

// Scheduler stores the ledgers of every era in retention.
type Scheduler struct {
	ledgers *store.Mapping[store.Uint64Key, *reward.Ledger]
	eras    *store.Value[[]uint64] // stored ledgers, ascending
	paying  *store.Value[[]uint64] // ledgers in the paying state, ascending
	locked  *store.Uint256
}

func New(sctx *store.Context) *Scheduler {
	return &Scheduler{
		ledgers: store.NewMapping[store.Uint64Key, *reward.Ledger](sctx, slotLedgers),
		eras:    store.NewValue[[]uint64](sctx, slotEras),
		paying:  store.NewValue[[]uint64](sctx, slotPaying),
		locked:  store.NewUint256(sctx, slotLocked),
	}
}

// Get returns the ledger of the era, nil if absent or pruned.
func (s *Scheduler) Get(era uint64) (*reward.Ledger, error) {
	return s.ledgers.Get(store.Uint64Key(era))
}

// Eras returns the eras with a stored ledger.
func (s *Scheduler) Eras() ([]uint64, error) {
	return s.eras.Get()
}

// Paying returns the eras whose ledger is being paid, oldest first.
func (s *Scheduler) Paying() ([]uint64, error) {
	return s.paying.Get()
}

// Locked is the amount computed for paying ledgers and not released yet.
func (s *Scheduler) Locked() (*uint256.Int, error) {
	return s.locked.Get()
}

func insertSorted(list []uint64, v uint64) []uint64 {
	i, found := slices.BinarySearch(list, v)
	if found {
		return list
	}
	return slices.Insert(list, i, v)
}

// Schedule stores a computed ledger. A ledger without payouts settles at once,
// otherwise it enters the paying state and its allocation is locked.
func (s *Scheduler) Schedule(l *reward.Ledger) error {
	if l.State != reward.StateComputed {
		return errors.Errorf("ledger of era %d is %v", l.Era, l.State)
	}
	existing, err := s.Get(l.Era)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Errorf("ledger of era %d already exists", l.Era)
	}

	eras, err := s.eras.Get()
	if err != nil {
		return err
	}
	if err := s.eras.Set(insertSorted(eras, l.Era)); err != nil {
		return err
	}

	if len(l.Payouts) == 0 {
		l.State = reward.StateSettled
		return s.ledgers.Set(store.Uint64Key(l.Era), l)
	}

	l.State = reward.StatePaying
	paying, err := s.paying.Get()
	if err != nil {
		return err
	}
	if err := s.paying.Set(insertSorted(paying, l.Era)); err != nil {
		return err
	}
	if err := s.locked.Add(l.Allocated); err != nil {
		return err
	}
	return s.ledgers.Set(store.Uint64Key(l.Era), l)
}

// Pay releases the next payout of the oldest paying ledger. It returns nil when
// nothing is being paid. Transfer failures forfeit the share and do not stop
// the cursor.
func (s *Scheduler) Pay(transfer TransferFunc) (*Receipt, error) {
	paying, err := s.paying.Get()
	if err != nil {
		return nil, err
	}
	if len(paying) == 0 {
		return nil, nil
	}
	l, err := s.Get(paying[0])
	if err != nil {
		return nil, err
	}
	if l == nil || l.State != reward.StatePaying {
		return nil, errors.Errorf("paying ledger of era %d is missing", paying[0])
	}

	p := l.Next()
	if p == nil {
		return nil, errors.Errorf("paying ledger of era %d has no payout left", l.Era)
	}
	receipt := &Receipt{
		Era:       l.Era,
		Candidate: p.Candidate,
		Paid:      new(uint256.Int),
		Forfeited: new(uint256.Int),
	}
	for _, share := range p.Shares() {
		if share.Amount.IsZero() {
			continue
		}
		if err := transfer(share.Account, share.Amount); err != nil {
			logger.Warn("payout transfer failed, share forfeited",
				"era", l.Era,
				"candidate", p.Candidate,
				"account", share.Account,
				"amount", share.Amount,
				"err", err)
			receipt.Forfeited.Add(receipt.Forfeited, share.Amount)
			receipt.Failures++
			continue
		}
		receipt.Paid.Add(receipt.Paid, share.Amount)
	}

	l.Cursor++
	l.Paid.Add(l.Paid, receipt.Paid)
	l.Forfeited.Add(l.Forfeited, receipt.Forfeited)
	if err := s.locked.Sub(new(uint256.Int).Add(receipt.Paid, receipt.Forfeited)); err != nil {
		return nil, err
	}

	if l.Remaining() == 0 {
		l.State = reward.StateSettled
		receipt.Settled = true
		if err := s.paying.Set(paying[1:]); err != nil {
			return nil, err
		}
		logger.Debug("era rewards settled", "era", l.Era, "paid", l.Paid, "forfeited", l.Forfeited)
	}
	if err := s.ledgers.Set(store.Uint64Key(l.Era), l); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Prune deletes settled ledgers of eras before the given era.
func (s *Scheduler) Prune(before uint64) (int, error) {
	eras, err := s.eras.Get()
	if err != nil {
		return 0, err
	}
	kept := make([]uint64, 0, len(eras))
	pruned := 0
	for _, era := range eras {
		if era < before {
			l, err := s.Get(era)
			if err != nil {
				return 0, err
			}
			if l == nil || l.State == reward.StateSettled {
				s.ledgers.Delete(store.Uint64Key(era))
				pruned++
				continue
			}
		}
		kept = append(kept, era)
	}
	if pruned == 0 {
		return 0, nil
	}
	return pruned, s.eras.Set(kept)
}
