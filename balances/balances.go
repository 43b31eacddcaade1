// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances is a state backed account ledger with free and reserved balances.
package balances

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/store"
	"github.com/parastake/parastake/state"
)

// Address is the storage account of the ledger.
var Address = para.NamedAddress("balances")

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountFrozen     = errors.New("account is frozen")
)

var (
	slotFree     = para.BytesToBytes32([]byte("free"))
	slotReserved = para.BytesToBytes32([]byte("reserved"))
	slotFrozen   = para.BytesToBytes32([]byte("frozen"))
	slotIssuance = para.BytesToBytes32([]byte("issuance"))
)

// Balances binds the account ledger to a state.
type Balances struct {
	free     *store.Mapping[para.Address, *uint256.Int]
	reserved *store.Mapping[para.Address, *uint256.Int]
	frozen   *store.Mapping[para.Address, bool]
	issuance *store.Uint256
}

func New(st *state.State) *Balances {
	sctx := store.NewContext(Address, st)
	return &Balances{
		free:     store.NewMapping[para.Address, *uint256.Int](sctx, slotFree),
		reserved: store.NewMapping[para.Address, *uint256.Int](sctx, slotReserved),
		frozen:   store.NewMapping[para.Address, bool](sctx, slotFrozen),
		issuance: store.NewUint256(sctx, slotIssuance),
	}
}

func get(m *store.Mapping[para.Address, *uint256.Int], addr para.Address) (*uint256.Int, error) {
	v, err := m.Get(addr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

func put(m *store.Mapping[para.Address, *uint256.Int], addr para.Address, v *uint256.Int) error {
	if v.IsZero() {
		m.Delete(addr)
		return nil
	}
	return m.Set(addr, v)
}

// FreeBalance returns the transferable balance of the account.
func (b *Balances) FreeBalance(addr para.Address) (*uint256.Int, error) {
	return get(b.free, addr)
}

// ReservedBalance returns the balance held by reservations.
func (b *Balances) ReservedBalance(addr para.Address) (*uint256.Int, error) {
	return get(b.reserved, addr)
}

// TotalIssuance returns the sum of every minted amount.
func (b *Balances) TotalIssuance() (*uint256.Int, error) {
	return b.issuance.Get()
}

func (b *Balances) IsFrozen(addr para.Address) (bool, error) {
	return b.frozen.Get(addr)
}

// SetFrozen makes the account reject incoming transfers.
func (b *Balances) SetFrozen(addr para.Address, frozen bool) error {
	if !frozen {
		b.frozen.Delete(addr)
		return nil
	}
	return b.frozen.Set(addr, true)
}

// Mint credits a new amount to the free balance.
func (b *Balances) Mint(addr para.Address, amount *uint256.Int) error {
	free, err := get(b.free, addr)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(free, amount)
	if overflow {
		return errors.New("balance overflow")
	}
	if err := b.issuance.Add(amount); err != nil {
		return err
	}
	return put(b.free, addr, sum)
}

// Transfer moves amount between free balances. Nothing changes on error.
func (b *Balances) Transfer(from, to para.Address, amount *uint256.Int) error {
	frozen, err := b.frozen.Get(to)
	if err != nil {
		return err
	}
	if frozen {
		return errors.Wrapf(ErrAccountFrozen, "transfer to %v", to)
	}
	src, err := get(b.free, from)
	if err != nil {
		return err
	}
	if src.Lt(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "transfer from %v", from)
	}
	if from == to {
		return nil
	}
	dst, err := get(b.free, to)
	if err != nil {
		return err
	}
	if err := put(b.free, from, new(uint256.Int).Sub(src, amount)); err != nil {
		return err
	}
	return put(b.free, to, new(uint256.Int).Add(dst, amount))
}

// Reserve moves amount from the free to the reserved balance.
func (b *Balances) Reserve(addr para.Address, amount *uint256.Int) error {
	free, err := get(b.free, addr)
	if err != nil {
		return err
	}
	if free.Lt(amount) {
		return ErrInsufficientFunds
	}
	reserved, err := get(b.reserved, addr)
	if err != nil {
		return err
	}
	if err := put(b.free, addr, new(uint256.Int).Sub(free, amount)); err != nil {
		return err
	}
	return put(b.reserved, addr, new(uint256.Int).Add(reserved, amount))
}

// Unreserve returns a reserved amount to the free balance.
func (b *Balances) Unreserve(addr para.Address, amount *uint256.Int) error {
	reserved, err := get(b.reserved, addr)
	if err != nil {
		return err
	}
	if reserved.Lt(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "unreserve %v", addr)
	}
	free, err := get(b.free, addr)
	if err != nil {
		return err
	}
	if err := put(b.reserved, addr, new(uint256.Int).Sub(reserved, amount)); err != nil {
		return err
	}
	return put(b.free, addr, new(uint256.Int).Add(free, amount))
}
