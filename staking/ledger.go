// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/candidate"
	"github.com/parastake/parastake/staking/nomination"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/staking/reverts"
)

//
// Setters - state change, each one applied in full or not at all
//

func (s *Staker) reserve(addr para.Address, amount *uint256.Int) error {
	free, err := s.balances.FreeBalance(addr)
	if err != nil {
		return err
	}
	if free.Lt(amount) {
		return reverts.ErrInsufficientBalance
	}
	return s.balances.Reserve(addr, amount)
}

// executableEra is the first era a request scheduled now may execute in.
func (s *Staker) executableEra() (uint64, error) {
	info, err := s.Era()
	if err != nil {
		return 0, err
	}
	delay, err := s.params.Get(params.KeyDelay)
	if err != nil {
		return 0, err
	}
	return info.Current + delay.Uint64(), nil
}

// JoinCandidates registers the account as a candidate bonding amount.
func (s *Staker) JoinCandidates(id para.Address, amount *uint256.Int) error {
	logger.Debug("join candidates", "id", id, "amount", amount)

	return s.atomic(func() error {
		nominator, err := s.nominations.IsNominator(id)
		if err != nil {
			return err
		}
		if nominator {
			return reverts.ErrNominatorExists
		}
		minStake, err := s.params.Get(params.KeyMinCollatorStake)
		if err != nil {
			return err
		}
		if err := s.candidates.Join(id, amount, minStake); err != nil {
			return err
		}
		return s.reserve(id, amount)
	})
}

// CandidateBondExtra increases the self bond of a candidate.
func (s *Staker) CandidateBondExtra(id para.Address, amount *uint256.Int) error {
	return s.atomic(func() error {
		if err := s.candidates.BondExtra(id, amount); err != nil {
			return err
		}
		return s.reserve(id, amount)
	})
}

// ScheduleLeaveCandidates requests the candidate to leave after the exit delay.
// A leaving candidate is not selected anymore.
func (s *Staker) ScheduleLeaveCandidates(id para.Address) error {
	return s.atomic(func() error {
		when, err := s.executableEra()
		if err != nil {
			return err
		}
		if err := s.candidates.ScheduleLeave(id, when); err != nil {
			return err
		}
		logger.Info("candidate scheduled to leave", "id", id, "era", when)
		return nil
	})
}

// CancelLeaveCandidates withdraws a leave request before it executes.
func (s *Staker) CancelLeaveCandidates(id para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		return s.candidates.CancelLeave(id, info.Current)
	})
}

// ExecuteLeaveCandidates releases a candidate whose leave request is due, with
// every nomination it holds.
func (s *Staker) ExecuteLeaveCandidates(id para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		return s.executeLeave(id, info.Current)
	})
}

func (s *Staker) executeLeave(id para.Address, now uint64) error {
	bond, nominations, err := s.candidates.ExecuteLeave(id, now)
	if err != nil {
		return err
	}
	if err := s.balances.Unreserve(id, bond); err != nil {
		return errors.Wrap(err, "unreserve candidate bond")
	}
	for _, nom := range nominations {
		amount, err := s.nominations.Remove(nom.Owner, id)
		if err != nil {
			return err
		}
		if err := s.balances.Unreserve(nom.Owner, amount); err != nil {
			return errors.Wrap(err, "unreserve nomination")
		}
	}
	logger.Info("candidate left", "id", id, "bond", bond, "nominations", len(nominations))
	return nil
}

// GoOffline makes an active candidate idle: it keeps its bond and nominations
// but is not selected.
func (s *Staker) GoOffline(id para.Address) error {
	return s.atomic(func() error {
		if err := s.candidates.GoOffline(id); err != nil {
			return err
		}
		logger.Info("candidate went offline", "id", id)
		return nil
	})
}

// GoOnline makes an idle candidate selectable again from the next era.
func (s *Staker) GoOnline(id para.Address) error {
	return s.atomic(func() error {
		if err := s.candidates.GoOnline(id); err != nil {
			return err
		}
		logger.Info("candidate back online", "id", id)
		return nil
	})
}

// ScheduleCandidateUnbond requests the self bond of a candidate to decrease by
// less after the exit delay. The remaining bond must meet the minimum collator stake.
func (s *Staker) ScheduleCandidateUnbond(id para.Address, less *uint256.Int) error {
	return s.atomic(func() error {
		when, err := s.executableEra()
		if err != nil {
			return err
		}
		minStake, err := s.params.Get(params.KeyMinCollatorStake)
		if err != nil {
			return err
		}
		if err := s.candidates.ScheduleUnbond(id, less, minStake, when); err != nil {
			return err
		}
		logger.Debug("candidate unbond scheduled", "id", id, "amount", less, "era", when)
		return nil
	})
}

// CancelCandidateUnbond drops the pending self bond decrease of a candidate.
func (s *Staker) CancelCandidateUnbond(id para.Address) error {
	return s.atomic(func() error {
		return s.candidates.CancelUnbond(id)
	})
}

// ExecuteCandidateUnbond applies a due self bond decrease.
func (s *Staker) ExecuteCandidateUnbond(id para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		return s.executeCandidateUnbond(id, info.Current)
	})
}

func (s *Staker) executeCandidateUnbond(id para.Address, now uint64) error {
	minStake, err := s.params.Get(params.KeyMinCollatorStake)
	if err != nil {
		return err
	}
	amount, err := s.candidates.ExecuteUnbond(id, minStake, now)
	if err != nil {
		return err
	}
	if err := s.balances.Unreserve(id, amount); err != nil {
		return errors.Wrap(err, "unreserve candidate bond")
	}
	logger.Debug("candidate unbonded", "id", id, "amount", amount)
	return nil
}

// Nominate bonds amount from the nominator behind a candidate which is not leaving.
func (s *Staker) Nominate(nominator, id para.Address, amount *uint256.Int) error {
	logger.Debug("nominate", "nominator", nominator, "candidate", id, "amount", amount)

	return s.atomic(func() error {
		isCandidate, err := s.candidates.IsCandidate(nominator)
		if err != nil {
			return err
		}
		if isCandidate {
			return reverts.ErrCandidateExists
		}
		c, err := s.candidates.Get(id)
		if err != nil {
			return err
		}
		if c.IsEmpty() || c.Status == candidate.StatusLeft {
			return reverts.ErrUnknownCandidate
		}
		if c.Status == candidate.StatusLeaving {
			return reverts.ErrCandidateNotActive
		}
		minAmount, err := s.params.Get(params.KeyMinNominationPerCollator)
		if err != nil {
			return err
		}
		if err := s.nominations.Nominate(nominator, id, amount, minAmount, int(para.MaxNominationsPerNominator())); err != nil {
			return err
		}
		if err := s.candidates.SetNomination(id, nominator, amount); err != nil {
			return err
		}
		return s.reserve(nominator, amount)
	})
}

// NominatorBondExtra increases an active nomination.
func (s *Staker) NominatorBondExtra(nominator, id para.Address, amount *uint256.Int) error {
	return s.atomic(func() error {
		total, err := s.nominations.BondExtra(nominator, id, amount)
		if err != nil {
			return err
		}
		if err := s.candidates.SetNomination(id, nominator, total); err != nil {
			return err
		}
		return s.reserve(nominator, amount)
	})
}

// ScheduleRevokeNomination requests a nomination to be revoked after the exit
// delay. It stops counting toward the candidate at once; the bond stays
// reserved until the revoke executes.
func (s *Staker) ScheduleRevokeNomination(nominator, id para.Address) error {
	return s.atomic(func() error {
		when, err := s.executableEra()
		if err != nil {
			return err
		}
		if err := s.nominations.ScheduleRevoke(nominator, id, when); err != nil {
			return err
		}
		live, err := s.candidates.IsCandidate(id)
		if err != nil {
			return err
		}
		if live {
			return s.candidates.RemoveNomination(id, nominator)
		}
		return nil
	})
}

// CancelRevokeNomination reactivates a revoking nomination before it executes.
func (s *Staker) CancelRevokeNomination(nominator, id para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		amount, err := s.nominations.CancelRevoke(nominator, id, info.Current)
		if err != nil {
			return err
		}
		return s.candidates.SetNomination(id, nominator, amount)
	})
}

// ExecuteRevokeNomination releases a nomination whose revoke is due.
func (s *Staker) ExecuteRevokeNomination(nominator, id para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		return s.executeRevoke(nominator, id, info.Current)
	})
}

func (s *Staker) executeRevoke(nominator, id para.Address, now uint64) error {
	amount, err := s.nominations.ExecuteRevoke(nominator, id, now)
	if err != nil {
		return err
	}
	if err := s.balances.Unreserve(nominator, amount); err != nil {
		return errors.Wrap(err, "unreserve nomination")
	}
	logger.Debug("nomination revoked", "nominator", nominator, "candidate", id, "amount", amount)
	return nil
}

// ScheduleNominatorUnbond requests a nomination to decrease by less after the
// exit delay. It keeps counting in full until the decrease executes.
func (s *Staker) ScheduleNominatorUnbond(nominator, id para.Address, less *uint256.Int) error {
	return s.atomic(func() error {
		when, err := s.executableEra()
		if err != nil {
			return err
		}
		minAmount, err := s.params.Get(params.KeyMinNominationPerCollator)
		if err != nil {
			return err
		}
		if err := s.nominations.ScheduleDecrease(nominator, id, less, minAmount, when); err != nil {
			return err
		}
		logger.Debug("nomination decrease scheduled", "nominator", nominator, "candidate", id, "amount", less, "era", when)
		return nil
	})
}

// ExecuteNominationRequest applies the due revoke or decrease of a nomination.
func (s *Staker) ExecuteNominationRequest(nominator, id para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		nom, err := s.pendingRequest(nominator, id)
		if err != nil {
			return err
		}
		if nom.Status == nomination.StatusRevoking {
			return s.executeRevoke(nominator, id, info.Current)
		}
		return s.executeDecrease(nominator, id, info.Current)
	})
}

// CancelNominationRequest drops the pending revoke or decrease of a nomination.
func (s *Staker) CancelNominationRequest(nominator, id para.Address) error {
	nom, err := s.pendingRequest(nominator, id)
	if err != nil {
		return err
	}
	if nom.Status == nomination.StatusRevoking {
		return s.CancelRevokeNomination(nominator, id)
	}
	return s.atomic(func() error {
		return s.nominations.CancelDecrease(nominator, id)
	})
}

// pendingRequest returns a nomination with a pending revoke or decrease.
func (s *Staker) pendingRequest(nominator, id para.Address) (*nomination.Nomination, error) {
	n, err := s.nominations.Get(nominator)
	if err != nil {
		return nil, err
	}
	if n.IsEmpty() {
		return nil, reverts.ErrUnknownNominator
	}
	nom := n.Find(id)
	if nom == nil {
		return nil, reverts.ErrUnknownNomination
	}
	if nom.Status != nomination.StatusRevoking && !nom.HasDecrease() {
		return nil, reverts.ErrNoPendingRequest
	}
	return nom, nil
}

func (s *Staker) executeDecrease(nominator, id para.Address, now uint64) error {
	minAmount, err := s.params.Get(params.KeyMinNominationPerCollator)
	if err != nil {
		return err
	}
	released, remaining, err := s.nominations.ExecuteDecrease(nominator, id, minAmount, now)
	if err != nil {
		return err
	}
	if err := s.candidates.SetNomination(id, nominator, remaining); err != nil {
		return err
	}
	if err := s.balances.Unreserve(nominator, released); err != nil {
		return errors.Wrap(err, "unreserve nomination")
	}
	logger.Debug("nomination decreased", "nominator", nominator, "candidate", id, "amount", released)
	return nil
}

// ScheduleLeaveNominators schedules the revoke of every nomination of the
// nominator after the exit delay. Pending decreases are dropped.
func (s *Staker) ScheduleLeaveNominators(nominator para.Address) error {
	return s.atomic(func() error {
		when, err := s.executableEra()
		if err != nil {
			return err
		}
		revoked, err := s.nominations.ScheduleLeave(nominator, when)
		if err != nil {
			return err
		}
		for _, id := range revoked {
			live, err := s.candidates.IsCandidate(id)
			if err != nil {
				return err
			}
			if !live {
				continue
			}
			if err := s.candidates.RemoveNomination(id, nominator); err != nil {
				return err
			}
		}
		logger.Info("nominator scheduled to leave", "nominator", nominator, "era", when)
		return nil
	})
}

// CancelLeaveNominators reactivates every nomination of a leaving nominator.
func (s *Staker) CancelLeaveNominators(nominator para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		noms, err := s.nominations.CancelLeave(nominator, info.Current)
		if err != nil {
			return err
		}
		for _, nom := range noms {
			if err := s.candidates.SetNomination(nom.Candidate, nominator, nom.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExecuteLeaveNominators releases every nomination of a nominator whose leave is due.
func (s *Staker) ExecuteLeaveNominators(nominator para.Address) error {
	return s.atomic(func() error {
		info, err := s.Era()
		if err != nil {
			return err
		}
		candidates, err := s.nominations.DueLeave(nominator, info.Current)
		if err != nil {
			return err
		}
		for _, id := range candidates {
			if err := s.executeRevoke(nominator, id, info.Current); err != nil {
				return err
			}
		}
		logger.Info("nominator left", "nominator", nominator, "nominations", len(candidates))
		return nil
	})
}

// SetParam updates an administrative setting. Era length changes apply from the next era.
func (s *Staker) SetParam(key para.Bytes32, value *uint256.Int) error {
	return s.atomic(func() error {
		return s.params.Set(key, value)
	})
}
