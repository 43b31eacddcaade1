// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/parastake/parastake/para"
)

// Decrease is a pending nomination decrease.
type Decrease struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
	Era    uint64                `json:"era"`
}

type Nomination struct {
	Candidate para.Address          `json:"candidate"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Status    string                `json:"status"`
	RevokeEra uint64                `json:"revokeEra,omitempty"`
	Decrease  *Decrease             `json:"decrease,omitempty"`
}

// Account is the balance and stake position of an address.
type Account struct {
	Free        *math.HexOrDecimal256 `json:"free"`
	Reserved    *math.HexOrDecimal256 `json:"reserved"`
	Frozen      bool                  `json:"frozen"`
	Candidate   bool                  `json:"candidate"`
	Nominations []Nomination          `json:"nominations"`
}
