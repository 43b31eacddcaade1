// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/kv"
	"github.com/parastake/parastake/para"
)

// Stage abstracts changes on the committed storage.
type Stage struct {
	err error

	db      kv.Store
	cache   *lru.Cache
	keys    []storageKey
	changes map[storageKey][]byte
	root    para.Bytes32
}

func newStage(db kv.Store, cache *lru.Cache, parent para.Bytes32, changes map[storageKey][]byte) *Stage {
	keys := make([]storageKey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].dbKey(), keys[j].dbKey()) < 0
	})

	// the root chains the parent root with the sorted change set, so two nodes
	// replaying the same blocks end up with the same root.
	root := parent
	if len(keys) > 0 {
		root = para.Blake2bFn(func(w io.Writer) {
			w.Write(parent[:])
			for _, k := range keys {
				w.Write(k.dbKey())
				w.Write(changes[k])
			}
		})
	}

	return &Stage{
		db:      db,
		cache:   cache,
		keys:    keys,
		changes: changes,
		root:    root,
	}
}

// Hash returns the root of the state after the changes are applied.
func (s *Stage) Hash() (para.Bytes32, error) {
	if s.err != nil {
		return para.Bytes32{}, s.err
	}
	return s.root, nil
}

// Len returns the count of changed storage entries.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit commits all changes into the store.
func (s *Stage) Commit() (para.Bytes32, error) {
	if s.err != nil {
		return para.Bytes32{}, s.err
	}
	batch := s.db.NewBatch()
	putter := storageBucket.NewPutter(batch)
	for _, k := range s.keys {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.dbKey())
		} else {
			err = putter.Put(k.dbKey(), v)
		}
		if err != nil {
			return para.Bytes32{}, errors.Wrap(err, "stage storage")
		}
	}
	if err := metaBucket.NewPutter(batch).Put(rootKey, s.root[:]); err != nil {
		return para.Bytes32{}, errors.Wrap(err, "stage root")
	}
	if err := batch.Write(); err != nil {
		return para.Bytes32{}, errors.Wrap(err, "commit stage")
	}
	if s.cache != nil {
		for _, k := range s.keys {
			v := s.changes[k]
			if len(v) == 0 {
				v = nil
			}
			s.cache.Add(k, v)
		}
	}
	return s.root, nil
}
