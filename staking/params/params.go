// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/store"
)

var logger = log.WithContext("pkg", "params")

// keys of the administrative settings.
var (
	KeyDelay                    = para.BytesToBytes32([]byte("delay"))
	KeyMinCollatorStake         = para.BytesToBytes32([]byte("min-collator-stake"))
	KeyMinNominationPerCollator = para.BytesToBytes32([]byte("min-nomination"))
	KeyTotalSelected            = para.BytesToBytes32([]byte("total-selected"))
	KeyBlocksPerEra             = para.BytesToBytes32([]byte("blocks-per-era"))
	KeyRewardPaymentDelay       = para.BytesToBytes32([]byte("reward-payment-delay"))
	KeyErasPerGrowthPeriod      = para.BytesToBytes32([]byte("eras-per-growth-period"))
	KeyGrowthEnabled            = para.BytesToBytes32([]byte("growth-enabled"))
	KeyEraRewardAllocation      = para.BytesToBytes32([]byte("era-reward-allocation"))
)

var names = map[para.Bytes32]string{
	KeyDelay:                    "delay",
	KeyMinCollatorStake:         "minCollatorStake",
	KeyMinNominationPerCollator: "minNominationPerCollator",
	KeyTotalSelected:            "totalSelected",
	KeyBlocksPerEra:             "blocksPerEra",
	KeyRewardPaymentDelay:       "rewardPaymentDelay",
	KeyErasPerGrowthPeriod:      "erasPerGrowthPeriod",
	KeyGrowthEnabled:            "growthEnabled",
	KeyEraRewardAllocation:      "eraRewardAllocation",
}

// Name returns the readable name of a setting key.
func Name(key para.Bytes32) string {
	if n, ok := names[key]; ok {
		return n
	}
	return key.AbbrevString()
}

// Settings is a consistent view of all settings.
type Settings struct {
	Delay                    uint64       // eras before a leave or revoke request executes
	MinCollatorStake         *uint256.Int // self bond required to be selected
	MinNominationPerCollator *uint256.Int // smallest nomination accepted
	TotalSelected            uint32       // size of the active set
	BlocksPerEra             uint32
	RewardPaymentDelay       uint64 // eras between the end of an era and its payout
	ErasPerGrowthPeriod      uint64
	GrowthEnabled            bool
	EraRewardAllocation      *uint256.Int // zero distributes the whole available pot
}

// Defaults returns the settings used when a genesis leaves them out.
func Defaults() *Settings {
	return &Settings{
		Delay:                    2,
		MinCollatorStake:         uint256.NewInt(10),
		MinNominationPerCollator: uint256.NewInt(1),
		TotalSelected:            para.MinSelectedCandidates(),
		BlocksPerEra:             max(para.MinBlocksPerEra(), para.MinSelectedCandidates()),
		RewardPaymentDelay:       2,
		ErasPerGrowthPeriod:      2,
		GrowthEnabled:            true,
		EraRewardAllocation:      new(uint256.Int),
	}
}

// Params binder of the staking settings.
type Params struct {
	values *store.Mapping[para.Bytes32, *uint256.Int]
}

func New(ctx *store.Context) *Params {
	return &Params{
		values: store.NewMapping[para.Bytes32, *uint256.Int](ctx, para.BytesToBytes32([]byte("params"))),
	}
}

// Get returns the raw value of a setting, zero when never set.
func (p *Params) Get(key para.Bytes32) (*uint256.Int, error) {
	v, err := p.values.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "get param %s", Name(key))
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

// Set validates and writes a setting. Writing the current value is rejected.
func (p *Params) Set(key para.Bytes32, value *uint256.Int) error {
	current, err := p.Load()
	if err != nil {
		return err
	}
	old, err := p.Get(key)
	if err != nil {
		return err
	}
	if old.Eq(value) {
		return reverts.ErrNoWritingSameValue
	}
	if err := validate(key, value, current); err != nil {
		return err
	}
	if err := p.values.Set(key, value.Clone()); err != nil {
		return errors.Wrapf(err, "set param %s", Name(key))
	}
	logger.Info("setting updated", "key", Name(key), "old", old, "new", value)
	return nil
}

// Init writes a complete settings set, used at genesis.
func (p *Params) Init(s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for key, value := range s.values() {
		if err := p.values.Set(key, value); err != nil {
			return errors.Wrapf(err, "init param %s", Name(key))
		}
	}
	return nil
}

// Load reads all settings.
func (p *Params) Load() (*Settings, error) {
	var err error
	read := func(key para.Bytes32) *uint256.Int {
		if err != nil {
			return nil
		}
		var v *uint256.Int
		v, err = p.Get(key)
		return v
	}
	s := &Settings{
		MinCollatorStake:         read(KeyMinCollatorStake),
		MinNominationPerCollator: read(KeyMinNominationPerCollator),
		EraRewardAllocation:      read(KeyEraRewardAllocation),
	}
	delay := read(KeyDelay)
	totalSelected := read(KeyTotalSelected)
	blocksPerEra := read(KeyBlocksPerEra)
	paymentDelay := read(KeyRewardPaymentDelay)
	growthPeriod := read(KeyErasPerGrowthPeriod)
	growthEnabled := read(KeyGrowthEnabled)
	if err != nil {
		return nil, err
	}
	s.Delay = delay.Uint64()
	s.TotalSelected = uint32(totalSelected.Uint64())
	s.BlocksPerEra = uint32(blocksPerEra.Uint64())
	s.RewardPaymentDelay = paymentDelay.Uint64()
	s.ErasPerGrowthPeriod = growthPeriod.Uint64()
	s.GrowthEnabled = !growthEnabled.IsZero()
	return s, nil
}

// Validate checks the settings against each other and the runtime bounds.
func (s *Settings) Validate() error {
	for key, value := range s.values() {
		if err := validate(key, value, s); err != nil {
			return errors.Wrapf(err, "param %s", Name(key))
		}
	}
	return nil
}

func (s *Settings) values() map[para.Bytes32]*uint256.Int {
	enabled := uint64(0)
	if s.GrowthEnabled {
		enabled = 1
	}
	orZero := func(v *uint256.Int) *uint256.Int {
		if v == nil {
			return new(uint256.Int)
		}
		return v.Clone()
	}
	return map[para.Bytes32]*uint256.Int{
		KeyDelay:                    uint256.NewInt(s.Delay),
		KeyMinCollatorStake:         orZero(s.MinCollatorStake),
		KeyMinNominationPerCollator: orZero(s.MinNominationPerCollator),
		KeyTotalSelected:            uint256.NewInt(uint64(s.TotalSelected)),
		KeyBlocksPerEra:             uint256.NewInt(uint64(s.BlocksPerEra)),
		KeyRewardPaymentDelay:       uint256.NewInt(s.RewardPaymentDelay),
		KeyErasPerGrowthPeriod:      uint256.NewInt(s.ErasPerGrowthPeriod),
		KeyGrowthEnabled:            uint256.NewInt(enabled),
		KeyEraRewardAllocation:      orZero(s.EraRewardAllocation),
	}
}

func validate(key para.Bytes32, value *uint256.Int, s *Settings) error {
	if _, ok := names[key]; !ok {
		return errors.Wrap(reverts.ErrInvalidSetting, "unknown key")
	}
	switch key {
	case KeyMinCollatorStake, KeyEraRewardAllocation:
		return nil
	case KeyMinNominationPerCollator:
		if value.IsZero() {
			return reverts.ErrInvalidSetting
		}
		return nil
	}

	if !value.IsUint64() {
		return reverts.ErrInvalidSetting
	}
	v := value.Uint64()
	switch key {
	case KeyDelay, KeyRewardPaymentDelay, KeyErasPerGrowthPeriod:
		if v == 0 {
			return reverts.ErrInvalidSetting
		}
	case KeyGrowthEnabled:
		if v > 1 {
			return reverts.ErrInvalidSetting
		}
	case KeyTotalSelected:
		if v < uint64(para.MinSelectedCandidates()) || v > uint64(s.BlocksPerEra) {
			return reverts.ErrInvalidSetting
		}
	case KeyBlocksPerEra:
		if v < uint64(para.MinBlocksPerEra()) || v < uint64(s.TotalSelected) || v > uint64(^uint32(0)) {
			return reverts.ErrInvalidSetting
		}
	}
	return nil
}
