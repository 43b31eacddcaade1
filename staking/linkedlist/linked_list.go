// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/store"
)

// LinkedList is a storage backed list of addresses in insertion order.
type LinkedList struct {
	head  *store.Value[para.Address]
	tail  *store.Value[para.Address]
	count *store.Value[uint64]
	next  *store.Mapping[para.Address, para.Address]
	prev  *store.Mapping[para.Address, para.Address]
}

// NewLinkedList creates a list whose pointers are derived from the given slot name.
func NewLinkedList(sctx *store.Context, name string) *LinkedList {
	slot := func(suffix string) para.Bytes32 {
		return para.BytesToBytes32([]byte(name + "-" + suffix))
	}
	return &LinkedList{
		head:  store.NewValue[para.Address](sctx, slot("head")),
		tail:  store.NewValue[para.Address](sctx, slot("tail")),
		count: store.NewValue[uint64](sctx, slot("count")),
		next:  store.NewMapping[para.Address, para.Address](sctx, slot("next")),
		prev:  store.NewMapping[para.Address, para.Address](sctx, slot("prev")),
	}
}

// Contains reports whether the address is linked.
func (l *LinkedList) Contains(address para.Address) (bool, error) {
	if address.IsZero() {
		return false, nil
	}
	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	if !prev.IsZero() {
		return true, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	return head == address, nil
}

// Add appends an address to the end of the list. Adding a linked address is a no-op.
func (l *LinkedList) Add(address para.Address) error {
	if address.IsZero() {
		return errors.New("zero address can not be linked")
	}
	if ok, err := l.Contains(address); err != nil || ok {
		return err
	}

	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		if err := l.head.Set(address); err != nil {
			return err
		}
	} else {
		if err := l.next.Set(oldTail, address); err != nil {
			return err
		}
		if err := l.prev.Set(address, oldTail); err != nil {
			return err
		}
	}
	if err := l.tail.Set(address); err != nil {
		return err
	}
	return l.addCount(1)
}

// Remove unlinks an address from anywhere in the list.
func (l *LinkedList) Remove(address para.Address) error {
	ok, err := l.Contains(address)
	if err != nil || !ok {
		return err
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return err
	}

	if !prev.IsZero() {
		if err := l.next.Set(prev, next); err != nil {
			return err
		}
	} else if err := l.head.Set(next); err != nil {
		return err
	}

	if !next.IsZero() {
		if err := l.prev.Set(next, prev); err != nil {
			return err
		}
	} else if err := l.tail.Set(prev); err != nil {
		return err
	}

	l.next.Delete(address)
	l.prev.Delete(address)

	return l.addCount(-1)
}

func (l *LinkedList) addCount(delta int) error {
	count, err := l.count.Get()
	if err != nil {
		return err
	}
	if delta < 0 {
		if count == 0 {
			return errors.New("linked list count underflow")
		}
		count--
	} else {
		count++
	}
	return l.count.Set(count)
}

// Len returns the number of linked addresses.
func (l *LinkedList) Len() (uint64, error) {
	return l.count.Get()
}

// Iter traverses the list in insertion order, calling callback for each address until completion or error
func (l *LinkedList) Iter(callback func(para.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}
	for !ptr.IsZero() {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr, err = l.next.Get(ptr); err != nil {
			return err
		}
	}
	return nil
}

// Addresses collects all linked addresses.
func (l *LinkedList) Addresses() ([]para.Address, error) {
	var all []para.Address
	err := l.Iter(func(addr para.Address) error {
		all = append(all, addr)
		return nil
	})
	return all, err
}
