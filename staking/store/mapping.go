// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/parastake/parastake/para"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key keys a mapping by a number, e.g. an era index.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// PairKey keys a mapping by two addresses, e.g. (nominator, candidate).
type PairKey struct {
	First  para.Address
	Second para.Address
}

func (k PairKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*para.AddressLength), k.First[:]...), k.Second[:]...)
}

// EraAddressKey keys a mapping by an era and an address.
type EraAddressKey struct {
	Era     uint64
	Address para.Address
}

func (k EraAddressKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.Era), k.Address[:]...)
}

// Mapping is a key/value storage abstraction, values are RLP encoded at Blake2b(key, basePos).
// An absent entry reads as the zero value of V.
type Mapping[K Key, V any] struct {
	context *Context
	basePos para.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos para.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) para.Bytes32 {
	return para.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
