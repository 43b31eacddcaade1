// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package points

import (
	"slices"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/store"
)

var (
	slotAwarded = para.BytesToBytes32([]byte("points-awarded"))
	slotTotal   = para.BytesToBytes32([]byte("points-total"))
	slotAuthors = para.BytesToBytes32([]byte("points-authors"))
)

// Tracker records the authorship points of every era.
type Tracker struct {
	awarded *store.Mapping[store.EraAddressKey, uint64]
	total   *store.Mapping[store.Uint64Key, uint64]
	authors *store.Mapping[store.Uint64Key, []para.Address]
}

func New(sctx *store.Context) *Tracker {
	return &Tracker{
		awarded: store.NewMapping[store.EraAddressKey, uint64](sctx, slotAwarded),
		total:   store.NewMapping[store.Uint64Key, uint64](sctx, slotTotal),
		authors: store.NewMapping[store.Uint64Key, []para.Address](sctx, slotAuthors),
	}
}

// Award credits points to the candidate for the era. Each call is one authored block.
func (t *Tracker) Award(era uint64, candidate para.Address, pts uint64) error {
	key := store.EraAddressKey{Era: era, Address: candidate}
	current, err := t.awarded.Get(key)
	if err != nil {
		return err
	}
	total, err := t.total.Get(store.Uint64Key(era))
	if err != nil {
		return err
	}

	newCurrent, overflow := math.SafeAdd(current, pts)
	if overflow {
		return errors.New("candidate points overflow")
	}
	newTotal, overflow := math.SafeAdd(total, pts)
	if overflow {
		return errors.New("era points overflow")
	}

	if current == 0 {
		authors, err := t.authors.Get(store.Uint64Key(era))
		if err != nil {
			return err
		}
		i, _ := slices.BinarySearchFunc(authors, candidate, para.Address.Compare)
		authors = slices.Insert(authors, i, candidate)
		if err := t.authors.Set(store.Uint64Key(era), authors); err != nil {
			return err
		}
	}
	if err := t.awarded.Set(key, newCurrent); err != nil {
		return err
	}
	return t.total.Set(store.Uint64Key(era), newTotal)
}

// Points returns the points of the candidate in the era.
func (t *Tracker) Points(era uint64, candidate para.Address) (uint64, error) {
	return t.awarded.Get(store.EraAddressKey{Era: era, Address: candidate})
}

// Total returns the points awarded in the era.
func (t *Tracker) Total(era uint64) (uint64, error) {
	return t.total.Get(store.Uint64Key(era))
}

// Authors returns the candidates awarded in the era, ascending.
func (t *Tracker) Authors(era uint64) ([]para.Address, error) {
	return t.authors.Get(store.Uint64Key(era))
}

// Prune drops the records of the era.
func (t *Tracker) Prune(era uint64) error {
	authors, err := t.Authors(era)
	if err != nil {
		return err
	}
	for _, author := range authors {
		t.awarded.Delete(store.EraAddressKey{Era: era, Address: author})
	}
	t.authors.Delete(store.Uint64Key(era))
	t.total.Delete(store.Uint64Key(era))
	return nil
}
