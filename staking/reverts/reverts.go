// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a validation fault: the operation is rejected and no state is changed.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// stake ledger
var (
	ErrZeroAmount             = New("amount must be greater than zero")
	ErrInsufficientBalance    = New("insufficient free balance")
	ErrCandidateExists        = New("account is already a candidate")
	ErrNominatorExists        = New("account is already a nominator")
	ErrUnknownCandidate       = New("candidate does not exist")
	ErrCandidateNotActive     = New("candidate is not active")
	ErrBelowMinCollatorStake  = New("bond is below the minimum collator stake")
	ErrAlreadyLeaving         = New("candidate already scheduled to leave")
	ErrNotLeaving             = New("candidate is not scheduled to leave")
	ErrNotYetExecutable       = New("request is not yet executable")
	ErrRequestDue             = New("request is due and can no longer be cancelled")
	ErrUnknownNominator       = New("nominator does not exist")
	ErrUnknownNomination      = New("nomination does not exist")
	ErrAlreadyNominated       = New("candidate already nominated by this nominator")
	ErrBelowMinimumNomination = New("nomination is below the minimum per collator")
	ErrTooManyNominations     = New("nominator exceeds the maximum number of nominations")
	ErrRevokeAlreadyScheduled = New("revoke already scheduled")
	ErrNoPendingRevoke        = New("no pending revoke for this nomination")
	ErrAlreadyOffline         = New("candidate is already offline")
	ErrAlreadyActive          = New("candidate is already active")
	ErrPendingRequestExists   = New("a request is already pending")
	ErrNoPendingRequest       = New("no pending request")
	ErrNominatorLeaving       = New("nominator already scheduled to leave")
	ErrNominatorNotLeaving    = New("nominator is not scheduled to leave")
)

// settings
var (
	ErrNoWritingSameValue = New("setting already has this value")
	ErrInvalidSetting     = New("setting value is out of range")
)

// growth
var (
	ErrUnknownGrowthRequest   = New("growth request does not exist")
	ErrGrowthAlreadyProcessed = New("growth period already processed")
)
