// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/para"
)

// BlockMessage is pushed to block subscribers for every produced block.
type BlockMessage struct {
	Number uint64       `json:"number"`
	Author para.Address `json:"author"`
	Era    uint64       `json:"era"`
	Root   para.Bytes32 `json:"root"`
	Lifted []uint64     `json:"lifted"`
}

func convertBlock(s *node.Summary) *BlockMessage {
	lifted := s.Lifted
	if lifted == nil {
		lifted = []uint64{}
	}
	return &BlockMessage{
		Number: s.Number,
		Author: s.Author,
		Era:    s.Era,
		Root:   s.Root,
		Lifted: lifted,
	}
}
