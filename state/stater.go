// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/kv"
	"github.com/parastake/parastake/para"
)

const cacheSize = 4096

// Stater is the state creator.
type Stater struct {
	db    kv.Store
	cache *lru.Cache
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	cache, _ := lru.New(cacheSize)
	return &Stater{db, cache}
}

// NewState create a new state object.
func (s *Stater) NewState(root para.Bytes32) *State {
	return New(s.db, s.cache, root)
}

// BestRoot returns the root of the last committed stage, zero if nothing is committed yet.
func (s *Stater) BestRoot() (para.Bytes32, error) {
	getter := metaBucket.NewGetter(s.db)
	v, err := getter.Get(rootKey)
	if err != nil {
		if getter.IsNotFound(err) {
			return para.Bytes32{}, nil
		}
		return para.Bytes32{}, errors.Wrap(err, "load best root")
	}
	return para.BytesToBytes32(v), nil
}
