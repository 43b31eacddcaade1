// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/parastake/parastake/kv"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/stackedmap"
)

const (
	storageBucket kv.Bucket = "s"
	metaBucket    kv.Bucket = "m"
)

var rootKey = []byte("root")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

type storageKey struct {
	addr para.Address
	key  para.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, para.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages the storage of the modules, each module owning the storage space of its address.
// Changes are journaled in memory and persisted only through Stage.
type State struct {
	db    kv.Store
	cache *lru.Cache
	root  para.Bytes32
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object on top of the committed state identified by root.
func New(db kv.Store, cache *lru.Cache, root para.Bytes32) *State {
	s := &State{
		db:    db,
		cache: cache,
		root:  root,
	}
	s.sm = stackedmap.New(s.committedGetter)
	return s
}

// Root returns the root this state is built on.
func (s *State) Root() para.Bytes32 {
	return s.root
}

func (s *State) committedGetter(key storageKey) ([]byte, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.([]byte), true, nil
		}
	}
	getter := storageBucket.NewGetter(s.db)
	v, err := getter.Get(key.dbKey())
	if err != nil {
		if !getter.IsNotFound(err) {
			return nil, false, &Error{err}
		}
		v = nil
	}
	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr para.Address, key para.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetRawStorage set storage value in rlp raw. An empty value removes the entry.
func (s *State) SetRawStorage(addr para.Address, key para.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr para.Address, key para.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr para.Address, key para.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object to compute the new root or commit all changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		changes[k] = v
		return true
	})

	// drop writes that restore the committed value
	for k, v := range changes {
		committed, _, err := s.committedGetter(k)
		if err != nil {
			return &Stage{err: err}
		}
		if bytes.Equal(committed, v) {
			delete(changes, k)
		}
	}
	return newStage(s.db, s.cache, s.root, changes)
}
