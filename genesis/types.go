// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/params"
)

// Amount is a balance written as a decimal string.
type Amount struct {
	uint256.Int
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", node.Line, s)
	}
	a.Int = *v
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	return a.Dec(), nil
}

// Value returns a copy of the amount, zero for nil.
func (a *Amount) Value() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return a.Int.Clone()
}

// Account is a hex address or a name hashed into an address.
type Account string

func (a Account) Address() para.Address {
	if addr, err := para.ParseAddress(string(a)); err == nil {
		return *addr
	}
	return para.NamedAddress(string(a))
}

type Balance struct {
	Account Account `yaml:"account"`
	Amount  *Amount `yaml:"amount"`
}

type Candidate struct {
	ID   Account `yaml:"id"`
	Bond *Amount `yaml:"bond"`
}

type Nomination struct {
	Nominator Account `yaml:"nominator"`
	Candidate Account `yaml:"candidate"`
	Amount    *Amount `yaml:"amount"`
}

// Settings overrides the default staking settings, unset fields keep their default.
type Settings struct {
	Delay                    *uint64 `yaml:"delay"`
	MinCollatorStake         *Amount `yaml:"minCollatorStake"`
	MinNominationPerCollator *Amount `yaml:"minNominationPerCollator"`
	TotalSelected            *uint32 `yaml:"totalSelected"`
	BlocksPerEra             *uint32 `yaml:"blocksPerEra"`
	RewardPaymentDelay       *uint64 `yaml:"rewardPaymentDelay"`
	ErasPerGrowthPeriod      *uint64 `yaml:"erasPerGrowthPeriod"`
	GrowthEnabled            *bool   `yaml:"growthEnabled"`
	EraRewardAllocation      *Amount `yaml:"eraRewardAllocation"`
}

func (s *Settings) apply(out *params.Settings) {
	if s.Delay != nil {
		out.Delay = *s.Delay
	}
	if s.MinCollatorStake != nil {
		out.MinCollatorStake = s.MinCollatorStake.Value()
	}
	if s.MinNominationPerCollator != nil {
		out.MinNominationPerCollator = s.MinNominationPerCollator.Value()
	}
	if s.TotalSelected != nil {
		out.TotalSelected = *s.TotalSelected
	}
	if s.BlocksPerEra != nil {
		out.BlocksPerEra = *s.BlocksPerEra
	}
	if s.RewardPaymentDelay != nil {
		out.RewardPaymentDelay = *s.RewardPaymentDelay
	}
	if s.ErasPerGrowthPeriod != nil {
		out.ErasPerGrowthPeriod = *s.ErasPerGrowthPeriod
	}
	if s.GrowthEnabled != nil {
		out.GrowthEnabled = *s.GrowthEnabled
	}
	if s.EraRewardAllocation != nil {
		out.EraRewardAllocation = s.EraRewardAllocation.Value()
	}
}
