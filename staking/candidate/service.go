// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/linkedlist"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/stakes"
	"github.com/parastake/parastake/staking/store"
)

var (
	slotCandidates  = para.BytesToBytes32([]byte("candidates"))
	slotLeaveQueue  = para.BytesToBytes32([]byte("candidates-leave-queue"))
	slotUnbondQueue = para.BytesToBytes32([]byte("candidates-unbond-queue"))
)

// Service maintains the candidate side of the stake ledger.
type Service struct {
	candidates  *store.Mapping[para.Address, *Candidate]
	pool        *linkedlist.LinkedList
	leaveQueue  *store.Mapping[store.Uint64Key, []para.Address]
	unbondQueue *store.Mapping[store.Uint64Key, []para.Address]
}

func New(sctx *store.Context) *Service {
	return &Service{
		candidates:  store.NewMapping[para.Address, *Candidate](sctx, slotCandidates),
		pool:        linkedlist.NewLinkedList(sctx, "candidates-pool"),
		leaveQueue:  store.NewMapping[store.Uint64Key, []para.Address](sctx, slotLeaveQueue),
		unbondQueue: store.NewMapping[store.Uint64Key, []para.Address](sctx, slotUnbondQueue),
	}
}

func (s *Service) Get(id para.Address) (*Candidate, error) {
	c, err := s.candidates.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate")
	}
	return c, nil
}

func (s *Service) set(id para.Address, c *Candidate) error {
	c.recompute()
	if err := s.candidates.Set(id, c); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	return nil
}

// getLive returns a candidate which has not left.
func (s *Service) getLive(id para.Address) (*Candidate, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() || c.Status == StatusLeft {
		return nil, reverts.ErrUnknownCandidate
	}
	return c, nil
}

// IsCandidate reports whether the account is a candidate which has not left.
func (s *Service) IsCandidate(id para.Address) (bool, error) {
	c, err := s.Get(id)
	if err != nil {
		return false, err
	}
	return !c.IsEmpty() && c.Status != StatusLeft, nil
}

// Join registers a new candidate, or re-registers one which left earlier.
func (s *Service) Join(id para.Address, bond, minStake *uint256.Int) error {
	c, err := s.Get(id)
	if err != nil {
		return err
	}
	if !c.IsEmpty() && c.Status != StatusLeft {
		return reverts.ErrCandidateExists
	}
	if bond.IsZero() {
		return reverts.ErrZeroAmount
	}
	if bond.Lt(minStake) {
		return reverts.ErrBelowMinCollatorStake
	}
	if err := s.pool.Add(id); err != nil {
		return errors.Wrap(err, "failed to add candidate to pool")
	}
	return s.set(id, &Candidate{
		Bond:   bond.Clone(),
		Status: StatusActive,
	})
}

// BondExtra increases the self bond.
func (s *Service) BondExtra(id para.Address, amount *uint256.Int) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	if c.Status == StatusLeaving {
		return reverts.ErrAlreadyLeaving
	}
	if amount.IsZero() {
		return reverts.ErrZeroAmount
	}
	c.Bond = new(uint256.Int).Add(c.Bond, amount)
	return s.set(id, c)
}

// ScheduleLeave marks the candidate leaving, executable from era `when`.
func (s *Service) ScheduleLeave(id para.Address, when uint64) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	if c.Status == StatusLeaving {
		return reverts.ErrAlreadyLeaving
	}
	c.Status = StatusLeaving
	c.LeaveEra = when

	if err := enqueue(s.leaveQueue, when, id); err != nil {
		return err
	}
	return s.set(id, c)
}

func enqueue(queue *store.Mapping[store.Uint64Key, []para.Address], when uint64, id para.Address) error {
	ids, err := queue.Get(store.Uint64Key(when))
	if err != nil {
		return err
	}
	return queue.Set(store.Uint64Key(when), append(ids, id))
}

// drain returns and deletes the ids queued for the era.
func drain(queue *store.Mapping[store.Uint64Key, []para.Address], era uint64) ([]para.Address, error) {
	ids, err := queue.Get(store.Uint64Key(era))
	if err != nil {
		return nil, err
	}
	queue.Delete(store.Uint64Key(era))
	return ids, nil
}

// CancelLeave reverts a leave request. It must happen strictly before the execution era.
func (s *Service) CancelLeave(id para.Address, now uint64) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	if c.Status != StatusLeaving {
		return reverts.ErrNotLeaving
	}
	if now >= c.LeaveEra {
		return reverts.ErrRequestDue
	}
	c.Status = StatusActive
	c.LeaveEra = 0
	return s.set(id, c)
}

// ExecuteLeave finalizes a due leave request. It returns the released bond and the
// nominations which must be unwound by the caller.
func (s *Service) ExecuteLeave(id para.Address, now uint64) (*uint256.Int, stakes.Bonds, error) {
	c, err := s.getLive(id)
	if err != nil {
		return nil, nil, err
	}
	if c.Status != StatusLeaving {
		return nil, nil, reverts.ErrNotLeaving
	}
	if now < c.LeaveEra {
		return nil, nil, reverts.ErrNotYetExecutable
	}
	if err := s.pool.Remove(id); err != nil {
		return nil, nil, errors.Wrap(err, "failed to remove candidate from pool")
	}

	released, nominations := c.Bond, c.Nominations
	if err := s.set(id, &Candidate{Bond: new(uint256.Int), Status: StatusLeft}); err != nil {
		return nil, nil, err
	}
	return released, nominations, nil
}

// DueLeaves returns the candidates whose leave request executes in the era. Cancelled
// or already executed requests are filtered out.
func (s *Service) DueLeaves(era uint64) ([]para.Address, error) {
	queue, err := drain(s.leaveQueue, era)
	if err != nil {
		return nil, err
	}

	var due []para.Address
	for _, id := range queue {
		c, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if !c.IsEmpty() && c.Status == StatusLeaving && c.LeaveEra <= era && !slices.Contains(due, id) {
			due = append(due, id)
		}
	}
	return due, nil
}

// GoOffline makes an active candidate idle. It keeps its bond and nominations
// but is not selected until it goes online again.
func (s *Service) GoOffline(id para.Address) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	switch c.Status {
	case StatusIdle:
		return reverts.ErrAlreadyOffline
	case StatusLeaving:
		return reverts.ErrAlreadyLeaving
	}
	c.Status = StatusIdle
	return s.set(id, c)
}

// GoOnline makes an idle candidate selectable again.
func (s *Service) GoOnline(id para.Address) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	switch c.Status {
	case StatusActive:
		return reverts.ErrAlreadyActive
	case StatusLeaving:
		return reverts.ErrAlreadyLeaving
	}
	c.Status = StatusActive
	return s.set(id, c)
}

// remainingBond returns the bond left after decreasing by less. It must stay
// positive and at or above minStake.
func remainingBond(bond, less, minStake *uint256.Int) (*uint256.Int, error) {
	if !bond.Gt(less) {
		return nil, reverts.ErrBelowMinCollatorStake
	}
	remaining := new(uint256.Int).Sub(bond, less)
	if remaining.Lt(minStake) {
		return nil, reverts.ErrBelowMinCollatorStake
	}
	return remaining, nil
}

// ScheduleUnbond requests the self bond to decrease by less, executable from era `when`.
// A candidate has at most one pending decrease.
func (s *Service) ScheduleUnbond(id para.Address, less, minStake *uint256.Int, when uint64) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	if c.Status == StatusLeaving {
		return reverts.ErrAlreadyLeaving
	}
	if c.HasUnbondRequest() {
		return reverts.ErrPendingRequestExists
	}
	if less.IsZero() {
		return reverts.ErrZeroAmount
	}
	if _, err := remainingBond(c.Bond, less, minStake); err != nil {
		return err
	}
	c.UnbondAmount = less.Clone()
	c.UnbondEra = when

	if err := enqueue(s.unbondQueue, when, id); err != nil {
		return err
	}
	return s.set(id, c)
}

// CancelUnbond drops the pending self bond decrease.
func (s *Service) CancelUnbond(id para.Address) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	if !c.HasUnbondRequest() {
		return reverts.ErrNoPendingRequest
	}
	c.UnbondAmount = nil
	c.UnbondEra = 0
	return s.set(id, c)
}

// ExecuteUnbond applies a due self bond decrease and returns the released amount.
// The minimum stake is checked again as it may have changed since the request.
func (s *Service) ExecuteUnbond(id para.Address, minStake *uint256.Int, now uint64) (*uint256.Int, error) {
	c, err := s.getLive(id)
	if err != nil {
		return nil, err
	}
	if !c.HasUnbondRequest() {
		return nil, reverts.ErrNoPendingRequest
	}
	if now < c.UnbondEra {
		return nil, reverts.ErrNotYetExecutable
	}
	released := c.UnbondAmount
	remaining, err := remainingBond(c.Bond, released, minStake)
	if err != nil {
		return nil, err
	}
	c.Bond = remaining
	c.UnbondAmount = nil
	c.UnbondEra = 0
	return released, s.set(id, c)
}

// DueUnbonds returns the candidates whose self bond decrease executes in the era.
func (s *Service) DueUnbonds(era uint64) ([]para.Address, error) {
	queue, err := drain(s.unbondQueue, era)
	if err != nil {
		return nil, err
	}

	var due []para.Address
	for _, id := range queue {
		c, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if !c.IsEmpty() && c.Status != StatusLeft && c.HasUnbondRequest() && c.UnbondEra <= era && !slices.Contains(due, id) {
			due = append(due, id)
		}
	}
	return due, nil
}

// SetNomination adds or updates the active nomination of a nominator.
func (s *Service) SetNomination(id, nominator para.Address, amount *uint256.Int) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	c.Nominations = c.Nominations.Insert(stakes.Bond{Owner: nominator, Amount: amount.Clone()})
	return s.set(id, c)
}

// RemoveNomination drops the active nomination of a nominator, a missing one is ignored.
func (s *Service) RemoveNomination(id, nominator para.Address) error {
	c, err := s.getLive(id)
	if err != nil {
		return err
	}
	c.Nominations = c.Nominations.Remove(nominator)
	return s.set(id, c)
}

// Iter visits every candidate which has not left, in registration order.
func (s *Service) Iter(callback func(para.Address, *Candidate) error) error {
	return s.pool.Iter(func(id para.Address) error {
		c, err := s.Get(id)
		if err != nil {
			return err
		}
		return callback(id, c)
	})
}

// Count returns the number of candidates in the pool.
func (s *Service) Count() (uint64, error) {
	return s.pool.Len()
}
