// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bridge keeps the outbound growth mint requests until a relayer resolves them.
package bridge

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/store"
	"github.com/parastake/parastake/state"
)

var logger = log.WithContext("pkg", "bridge")

// Address is the storage account of the request queue.
var Address = para.NamedAddress("bridge")

var ErrUnknownRequest = errors.New("unknown mint request")

var (
	slotNonce    = para.BytesToBytes32([]byte("nonce"))
	slotRequests = para.BytesToBytes32([]byte("requests"))
	slotPending  = para.BytesToBytes32([]byte("pending"))
)

type Status uint8

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is a mint request sent to the counterparty chain.
type Request struct {
	ID           uint64
	Block        uint64 // block the request was issued in
	AverageStake *uint256.Int
	TotalRewards *uint256.Int
	Status       Status
	Minted       *uint256.Int
}

// Queue is the state backed outbound request queue.
type Queue struct {
	block    uint64
	nonce    *store.Value[uint64]
	requests *store.Mapping[store.Uint64Key, *Request]
	pending  *store.Value[[]uint64]
}

// New binds the queue to the state of the given block.
func New(st *state.State, block uint64) *Queue {
	sctx := store.NewContext(Address, st)
	return &Queue{
		block:    block,
		nonce:    store.NewValue[uint64](sctx, slotNonce),
		requests: store.NewMapping[store.Uint64Key, *Request](sctx, slotRequests),
		pending:  store.NewValue[[]uint64](sctx, slotPending),
	}
}

// RequestMint enqueues a request and returns its identifier, starting from 1.
func (q *Queue) RequestMint(averageStake, totalRewards *uint256.Int) (uint64, error) {
	nonce, err := q.nonce.Get()
	if err != nil {
		return 0, err
	}
	id := nonce + 1
	if err := q.nonce.Set(id); err != nil {
		return 0, err
	}
	req := &Request{
		ID:           id,
		Block:        q.block,
		AverageStake: averageStake.Clone(),
		TotalRewards: totalRewards.Clone(),
		Status:       StatusPending,
		Minted:       new(uint256.Int),
	}
	if err := q.requests.Set(store.Uint64Key(id), req); err != nil {
		return 0, err
	}
	pending, err := q.pending.Get()
	if err != nil {
		return 0, err
	}
	if err := q.pending.Set(append(pending, id)); err != nil {
		return 0, err
	}
	logger.Debug("mint requested", "id", id, "average_stake", averageStake, "rewards", totalRewards)
	return id, nil
}

func (q *Queue) Get(id uint64) (*Request, error) {
	return q.requests.Get(store.Uint64Key(id))
}

// Pending returns the unresolved requests in request order.
func (q *Queue) Pending() ([]*Request, error) {
	ids, err := q.pending.Get()
	if err != nil {
		return nil, err
	}
	reqs := make([]*Request, 0, len(ids))
	for _, id := range ids {
		req, err := q.Get(id)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Resolve records the outcome of a pending request.
func (q *Queue) Resolve(id uint64, status Status, minted *uint256.Int) error {
	req, err := q.Get(id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrUnknownRequest
	}
	if req.Status != StatusPending {
		return errors.Errorf("mint request %d already %v", id, req.Status)
	}
	req.Status = status
	if minted != nil {
		req.Minted = minted.Clone()
	}
	pending, err := q.pending.Get()
	if err != nil {
		return err
	}
	pending = slices.DeleteFunc(pending, func(p uint64) bool { return p == id })
	if err := q.pending.Set(pending); err != nil {
		return err
	}
	return q.requests.Set(store.Uint64Key(id), req)
}
