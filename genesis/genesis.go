// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial chain state from a YAML description.
package genesis

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/parastake/parastake/balances"
	"github.com/parastake/parastake/bridge"
	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking"
	"github.com/parastake/parastake/staking/params"
	"github.com/parastake/parastake/state"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis is the user supplied initial state.
type Genesis struct {
	Config      *para.Config `yaml:"config"` // runtime constants, applied by the command line before Build
	Settings    Settings     `yaml:"settings"`
	Balances    []Balance    `yaml:"balances"`
	RewardPot   *Amount      `yaml:"rewardPot"`
	Candidates  []Candidate  `yaml:"candidates"`
	Nominations []Nomination `yaml:"nominations"`
}

// Parse decodes a YAML genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// Load reads and parses a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// StakingSettings returns the defaults overridden by the genesis settings.
func (g *Genesis) StakingSettings() *params.Settings {
	settings := params.Defaults()
	g.Settings.apply(settings)
	return settings
}

// Build applies the genesis to an empty state, starts era 1 at block 0 and
// commits. It returns the genesis state root.
func (g *Genesis) Build(stater *state.Stater) (para.Bytes32, error) {
	st := stater.NewState(para.Bytes32{})
	bals := balances.New(st)
	staker := staking.New(st, bals, bridge.New(st, 0), nil)

	for _, b := range g.Balances {
		if b.Amount == nil || b.Amount.IsZero() {
			return para.Bytes32{}, errors.Errorf("%s: balance must be set", b.Account)
		}
		if err := bals.Mint(b.Account.Address(), b.Amount.Value()); err != nil {
			return para.Bytes32{}, errors.Wrapf(err, "mint %s", b.Account)
		}
	}
	if g.RewardPot != nil && !g.RewardPot.IsZero() {
		if err := bals.Mint(staking.RewardPot, g.RewardPot.Value()); err != nil {
			return para.Bytes32{}, errors.Wrap(err, "fund reward pot")
		}
	}

	if err := staker.Initialize(g.StakingSettings()); err != nil {
		return para.Bytes32{}, errors.Wrap(err, "staking settings")
	}
	for _, c := range g.Candidates {
		if err := staker.JoinCandidates(c.ID.Address(), c.Bond.Value()); err != nil {
			return para.Bytes32{}, errors.Wrapf(err, "candidate %s", c.ID)
		}
	}
	for _, n := range g.Nominations {
		if err := staker.Nominate(n.Nominator.Address(), n.Candidate.Address(), n.Amount.Value()); err != nil {
			return para.Bytes32{}, errors.Wrapf(err, "nomination %s -> %s", n.Nominator, n.Candidate)
		}
	}
	if err := staker.Start(0); err != nil {
		return para.Bytes32{}, err
	}

	root, err := st.Stage().Commit()
	if err != nil {
		return para.Bytes32{}, errors.Wrap(err, "commit genesis")
	}
	logger.Info("genesis built",
		"root", root,
		"balances", len(g.Balances),
		"candidates", len(g.Candidates),
		"nominations", len(g.Nominations))
	return root, nil
}
