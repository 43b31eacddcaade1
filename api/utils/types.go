// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/para"
)

// Amount converts a balance for JSON output. Nil stays nil.
func Amount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseAddress parses an address path parameter.
func ParseAddress(name, value string) (para.Address, error) {
	addr, err := para.ParseAddress(value)
	if err != nil {
		return para.Address{}, BadRequest(errors.Wrap(err, name))
	}
	return *addr, nil
}
