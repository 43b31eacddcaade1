// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nomination

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/store"
)

var (
	slotNominators    = para.BytesToBytes32([]byte("nominators"))
	slotRevokeQueue   = para.BytesToBytes32([]byte("nominations-revoke-queue"))
	slotDecreaseQueue = para.BytesToBytes32([]byte("nominations-decrease-queue"))
)

// Service maintains the nominator side of the stake ledger.
type Service struct {
	nominators    *store.Mapping[para.Address, *Nominator]
	revokeQueue   *store.Mapping[store.Uint64Key, []store.PairKey]
	decreaseQueue *store.Mapping[store.Uint64Key, []store.PairKey]
}

func New(sctx *store.Context) *Service {
	return &Service{
		nominators:    store.NewMapping[para.Address, *Nominator](sctx, slotNominators),
		revokeQueue:   store.NewMapping[store.Uint64Key, []store.PairKey](sctx, slotRevokeQueue),
		decreaseQueue: store.NewMapping[store.Uint64Key, []store.PairKey](sctx, slotDecreaseQueue),
	}
}

func (s *Service) Get(nominator para.Address) (*Nominator, error) {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nominator")
	}
	return n, nil
}

func (s *Service) set(nominator para.Address, n *Nominator) error {
	if n.IsEmpty() {
		s.nominators.Delete(nominator)
		return nil
	}
	if err := s.nominators.Set(nominator, n); err != nil {
		return errors.Wrap(err, "failed to set nominator")
	}
	return nil
}

func (s *Service) getNomination(nominator, candidate para.Address) (*Nominator, *Nomination, error) {
	n, err := s.Get(nominator)
	if err != nil {
		return nil, nil, err
	}
	if n.IsEmpty() {
		return nil, nil, reverts.ErrUnknownNominator
	}
	nom := n.Find(candidate)
	if nom == nil {
		return nil, nil, reverts.ErrUnknownNomination
	}
	return n, nom, nil
}

// IsNominator reports whether the account holds at least one nomination.
func (s *Service) IsNominator(nominator para.Address) (bool, error) {
	n, err := s.Get(nominator)
	if err != nil {
		return false, err
	}
	return !n.IsEmpty(), nil
}

// Nominate records a new nomination.
func (s *Service) Nominate(nominator, candidate para.Address, amount, minAmount *uint256.Int, maxNominations int) error {
	if amount.Lt(minAmount) || amount.IsZero() {
		return reverts.ErrBelowMinimumNomination
	}
	n, err := s.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		n = &Nominator{}
	}
	if n.Find(candidate) != nil {
		return reverts.ErrAlreadyNominated
	}
	if len(n.Nominations) >= maxNominations {
		return reverts.ErrTooManyNominations
	}

	nom := &Nomination{Candidate: candidate, Amount: amount.Clone(), Status: StatusActive}
	i, _ := slices.BinarySearchFunc(n.Nominations, candidate, func(e *Nomination, c para.Address) int {
		return e.Candidate.Compare(c)
	})
	n.Nominations = slices.Insert(n.Nominations, i, nom)
	return s.set(nominator, n)
}

// BondExtra increases an active nomination and returns the new amount.
func (s *Service) BondExtra(nominator, candidate para.Address, amount *uint256.Int) (*uint256.Int, error) {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return nil, err
	}
	if nom.Status == StatusRevoking {
		return nil, reverts.ErrRevokeAlreadyScheduled
	}
	if amount.IsZero() {
		return nil, reverts.ErrZeroAmount
	}
	nom.Amount = new(uint256.Int).Add(nom.Amount, amount)
	return nom.Amount.Clone(), s.set(nominator, n)
}

// ScheduleRevoke marks a nomination revoking, executable from era `when`.
func (s *Service) ScheduleRevoke(nominator, candidate para.Address, when uint64) error {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return err
	}
	if nom.Status == StatusRevoking {
		return reverts.ErrRevokeAlreadyScheduled
	}
	if nom.HasDecrease() {
		return reverts.ErrPendingRequestExists
	}
	nom.Status = StatusRevoking
	nom.RevokeEra = when

	if err := enqueue(s.revokeQueue, when, store.PairKey{First: nominator, Second: candidate}); err != nil {
		return err
	}
	return s.set(nominator, n)
}

func enqueue(queue *store.Mapping[store.Uint64Key, []store.PairKey], when uint64, pairs ...store.PairKey) error {
	queued, err := queue.Get(store.Uint64Key(when))
	if err != nil {
		return err
	}
	return queue.Set(store.Uint64Key(when), append(queued, pairs...))
}

// drain returns and deletes the pairs queued for the era, without duplicates.
func drain(queue *store.Mapping[store.Uint64Key, []store.PairKey], era uint64) ([]store.PairKey, error) {
	queued, err := queue.Get(store.Uint64Key(era))
	if err != nil {
		return nil, err
	}
	queue.Delete(store.Uint64Key(era))

	var unique []store.PairKey
	for _, pair := range queued {
		if !slices.Contains(unique, pair) {
			unique = append(unique, pair)
		}
	}
	return unique, nil
}

// CancelRevoke reactivates a revoking nomination strictly before its execution era.
// It returns the reactivated amount.
func (s *Service) CancelRevoke(nominator, candidate para.Address, now uint64) (*uint256.Int, error) {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return nil, err
	}
	if nom.Status != StatusRevoking {
		return nil, reverts.ErrNoPendingRevoke
	}
	if now >= nom.RevokeEra {
		return nil, reverts.ErrRequestDue
	}
	nom.Status = StatusActive
	nom.RevokeEra = 0
	return nom.Amount.Clone(), s.set(nominator, n)
}

// ExecuteRevoke removes a due revoking nomination and returns the released amount.
func (s *Service) ExecuteRevoke(nominator, candidate para.Address, now uint64) (*uint256.Int, error) {
	_, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return nil, err
	}
	if nom.Status != StatusRevoking {
		return nil, reverts.ErrNoPendingRevoke
	}
	if now < nom.RevokeEra {
		return nil, reverts.ErrNotYetExecutable
	}
	return s.Remove(nominator, candidate)
}

// Remove drops a nomination whatever its status and returns its amount.
func (s *Service) Remove(nominator, candidate para.Address) (*uint256.Int, error) {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return nil, err
	}
	n.Nominations = slices.DeleteFunc(n.Nominations, func(e *Nomination) bool {
		return e.Candidate == candidate
	})
	return nom.Amount, s.set(nominator, n)
}

// DueRevokes returns the (nominator, candidate) pairs whose revoke executes in the era.
// Cancelled or already executed requests are filtered out.
func (s *Service) DueRevokes(era uint64) ([]store.PairKey, error) {
	queue, err := drain(s.revokeQueue, era)
	if err != nil {
		return nil, err
	}

	var due []store.PairKey
	for _, pair := range queue {
		n, err := s.Get(pair.First)
		if err != nil {
			return nil, err
		}
		if nom := n.Find(pair.Second); nom != nil && nom.Status == StatusRevoking && nom.RevokeEra <= era {
			due = append(due, pair)
		}
	}
	return due, nil
}

// ScheduleDecrease requests a nomination to decrease by less, executable from era `when`.
// The remaining amount must stay at or above minAmount. A nomination has at most
// one pending request, revoke or decrease.
func (s *Service) ScheduleDecrease(nominator, candidate para.Address, less, minAmount *uint256.Int, when uint64) error {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return err
	}
	if nom.Status == StatusRevoking {
		return reverts.ErrRevokeAlreadyScheduled
	}
	if nom.HasDecrease() {
		return reverts.ErrPendingRequestExists
	}
	if less.IsZero() {
		return reverts.ErrZeroAmount
	}
	if _, err := remainingAmount(nom.Amount, less, minAmount); err != nil {
		return err
	}
	nom.LessAmount = less.Clone()
	nom.LessEra = when

	if err := enqueue(s.decreaseQueue, when, store.PairKey{First: nominator, Second: candidate}); err != nil {
		return err
	}
	return s.set(nominator, n)
}

func remainingAmount(amount, less, minAmount *uint256.Int) (*uint256.Int, error) {
	if !amount.Gt(less) {
		return nil, reverts.ErrBelowMinimumNomination
	}
	remaining := new(uint256.Int).Sub(amount, less)
	if remaining.Lt(minAmount) {
		return nil, reverts.ErrBelowMinimumNomination
	}
	return remaining, nil
}

// CancelDecrease drops the pending decrease of a nomination.
func (s *Service) CancelDecrease(nominator, candidate para.Address) error {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return err
	}
	if !nom.HasDecrease() {
		return reverts.ErrNoPendingRequest
	}
	nom.LessAmount = nil
	nom.LessEra = 0
	return s.set(nominator, n)
}

// ExecuteDecrease applies a due decrease. It returns the released amount and
// the remaining nomination.
func (s *Service) ExecuteDecrease(nominator, candidate para.Address, minAmount *uint256.Int, now uint64) (released, remaining *uint256.Int, err error) {
	n, nom, err := s.getNomination(nominator, candidate)
	if err != nil {
		return nil, nil, err
	}
	if !nom.HasDecrease() {
		return nil, nil, reverts.ErrNoPendingRequest
	}
	if now < nom.LessEra {
		return nil, nil, reverts.ErrNotYetExecutable
	}
	released = nom.LessAmount
	if remaining, err = remainingAmount(nom.Amount, released, minAmount); err != nil {
		return nil, nil, err
	}
	nom.Amount = remaining
	nom.LessAmount = nil
	nom.LessEra = 0
	return released, remaining.Clone(), s.set(nominator, n)
}

// DueDecreases returns the (nominator, candidate) pairs whose decrease executes in the era.
func (s *Service) DueDecreases(era uint64) ([]store.PairKey, error) {
	queue, err := drain(s.decreaseQueue, era)
	if err != nil {
		return nil, err
	}

	var due []store.PairKey
	for _, pair := range queue {
		n, err := s.Get(pair.First)
		if err != nil {
			return nil, err
		}
		if nom := n.Find(pair.Second); nom != nil && nom.HasDecrease() && nom.LessEra <= era {
			due = append(due, pair)
		}
	}
	return due, nil
}

// ScheduleLeave schedules the revoke of every nomination of the nominator,
// executable from era `when`. Pending decreases are dropped and revokes already
// scheduled are kept. It returns the candidates whose nomination starts revoking.
func (s *Service) ScheduleLeave(nominator para.Address, when uint64) ([]para.Address, error) {
	n, err := s.Get(nominator)
	if err != nil {
		return nil, err
	}
	if n.IsEmpty() {
		return nil, reverts.ErrUnknownNominator
	}

	var (
		revoked []para.Address
		pairs   []store.PairKey
	)
	for _, nom := range n.Nominations {
		if nom.Status == StatusRevoking {
			continue
		}
		nom.LessAmount = nil
		nom.LessEra = 0
		nom.Status = StatusRevoking
		nom.RevokeEra = when
		revoked = append(revoked, nom.Candidate)
		pairs = append(pairs, store.PairKey{First: nominator, Second: nom.Candidate})
	}
	if len(revoked) == 0 {
		return nil, reverts.ErrNominatorLeaving
	}
	if err := enqueue(s.revokeQueue, when, pairs...); err != nil {
		return nil, err
	}
	return revoked, s.set(nominator, n)
}

// CancelLeave reactivates every nomination of a leaving nominator. All of them
// must be revoking and not yet due. It returns the reactivated nominations.
func (s *Service) CancelLeave(nominator para.Address, now uint64) ([]*Nomination, error) {
	n, err := s.Get(nominator)
	if err != nil {
		return nil, err
	}
	if n.IsEmpty() {
		return nil, reverts.ErrUnknownNominator
	}
	for _, nom := range n.Nominations {
		if nom.Status != StatusRevoking {
			return nil, reverts.ErrNominatorNotLeaving
		}
		if now >= nom.RevokeEra {
			return nil, reverts.ErrRequestDue
		}
	}
	for _, nom := range n.Nominations {
		nom.Status = StatusActive
		nom.RevokeEra = 0
	}
	return n.Nominations, s.set(nominator, n)
}

// DueLeave returns the candidates of a leaving nominator once every revoke is due.
func (s *Service) DueLeave(nominator para.Address, now uint64) ([]para.Address, error) {
	n, err := s.Get(nominator)
	if err != nil {
		return nil, err
	}
	if n.IsEmpty() {
		return nil, reverts.ErrUnknownNominator
	}
	candidates := make([]para.Address, 0, len(n.Nominations))
	for _, nom := range n.Nominations {
		if nom.Status != StatusRevoking {
			return nil, reverts.ErrNominatorNotLeaving
		}
		if now < nom.RevokeEra {
			return nil, reverts.ErrNotYetExecutable
		}
		candidates = append(candidates, nom.Candidate)
	}
	return candidates, nil
}
