// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
)

// Value is a single RLP encoded storage slot.
type Value[V any] struct {
	context *Context
	pos     para.Bytes32
}

func NewValue[V any](context *Context, pos para.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Uint256 is an amount slot. Arithmetic is checked, an overflow or underflow leaves the slot untouched.
type Uint256 struct {
	value *Value[*uint256.Int]
}

func NewUint256(context *Context, pos para.Bytes32) *Uint256 {
	return &Uint256{value: NewValue[*uint256.Int](context, pos)}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	v, err := u.value.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

func (u *Uint256) Set(value *uint256.Int) error {
	return u.value.Set(value)
}

func (u *Uint256) Add(delta *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(current, delta)
	if overflow {
		return errors.New("uint256 storage overflow")
	}
	return u.Set(sum)
}

func (u *Uint256) Sub(delta *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	diff, underflow := new(uint256.Int).SubOverflow(current, delta)
	if underflow {
		return errors.New("uint256 storage underflow")
	}
	return u.Set(diff)
}
