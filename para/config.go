// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package para

// Config is the runtime constants of the staking engine. Most of the parameters will have default values and
// will be 'locked' for production networks. For testing purposes or custom networks, the parameters can be updated.

var (
	pointsPerBlock             uint32 = 20
	minBlocksPerEra            uint32 = 3
	minSelectedCandidates      uint32 = 5
	maxCountedNominations      uint32 = 4
	maxNominationsPerNominator uint32 = 10
	payoutRetentionEras        uint32 = 8

	locked bool
)

type Config struct {
	PointsPerBlock             uint32 `json:"pointsPerBlock" yaml:"pointsPerBlock"`                         // points credited to the author of a block.
	MinBlocksPerEra            uint32 `json:"minBlocksPerEra" yaml:"minBlocksPerEra"`                       // lower bound for the BlocksPerEra setting.
	MinSelectedCandidates      uint32 `json:"minSelectedCandidates" yaml:"minSelectedCandidates"`           // lower bound for the TotalSelected setting.
	MaxCountedNominations      uint32 `json:"maxCountedNominations" yaml:"maxCountedNominations"`           // nominations per candidate counted toward its backed stake.
	MaxNominationsPerNominator uint32 `json:"maxNominationsPerNominator" yaml:"maxNominationsPerNominator"` // distinct candidates a nominator may back.
	PayoutRetentionEras        uint32 `json:"payoutRetentionEras" yaml:"payoutRetentionEras"`               // eras a settled ledger is kept before pruning.
}

// SetConfig sets the config.
// If the config is not set, the default values will be used.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	if cfg.PointsPerBlock != 0 {
		pointsPerBlock = cfg.PointsPerBlock
	}
	if cfg.MinBlocksPerEra != 0 {
		minBlocksPerEra = cfg.MinBlocksPerEra
	}
	if cfg.MinSelectedCandidates != 0 {
		minSelectedCandidates = cfg.MinSelectedCandidates
	}
	if cfg.MaxCountedNominations != 0 {
		maxCountedNominations = cfg.MaxCountedNominations
	}
	if cfg.MaxNominationsPerNominator != 0 {
		maxNominationsPerNominator = cfg.MaxNominationsPerNominator
	}
	if cfg.PayoutRetentionEras != 0 {
		payoutRetentionEras = cfg.PayoutRetentionEras
	}
}

// LockConfig locks the config, preventing any further changes.
func LockConfig() {
	locked = true
}

func PointsPerBlock() uint32 {
	return pointsPerBlock
}

func MinBlocksPerEra() uint32 {
	return minBlocksPerEra
}

func MinSelectedCandidates() uint32 {
	return minSelectedCandidates
}

func MaxCountedNominations() uint32 {
	return maxCountedNominations
}

func MaxNominationsPerNominator() uint32 {
	return maxNominationsPerNominator
}

func PayoutRetentionEras() uint32 {
	return payoutRetentionEras
}
