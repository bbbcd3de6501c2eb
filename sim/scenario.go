// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jito-foundation/jito-tip-router-sub002/program/fees"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// Scenario describes one ncn epoch: who stakes what, how operators vote and
// how much is tipped.
type Scenario struct {
	Name      string      `yaml:"name"`
	Epoch     uint64      `yaml:"epoch"`
	Fees      FeeSpec     `yaml:"fees"`
	Mints     []*Mint     `yaml:"mints"`
	Vaults    []*Vault    `yaml:"vaults"`
	Operators []*Operator `yaml:"operators"`
	Tips      []uint64    `yaml:"tips"`

	// VoteInterval is the wall time between two votes.
	VoteInterval time.Duration `yaml:"voteInterval"`
	// TieBreaker resolves the epoch if voting stalls without consensus.
	TieBreaker *tiprouter.Bytes32 `yaml:"tieBreaker"`
}

type FeeSpec struct {
	BlockEngineBps    uint16 `yaml:"blockEngineBps"`
	DaoBps            uint16 `yaml:"daoBps"`
	DefaultNcnBps     uint16 `yaml:"defaultNcnBps"`
	EpochsBeforeStall uint64 `yaml:"epochsBeforeStall"`
}

// Feed is a price feed weighing a mint.
type Feed struct {
	Value uint64 `yaml:"value"`
	Scale uint8  `yaml:"scale"`
}

type Mint struct {
	Name                string  `yaml:"name"`
	NcnFeeGroup         uint8   `yaml:"ncnFeeGroup"`
	RewardMultiplierBps uint64  `yaml:"rewardMultiplierBps"`
	NoFeedWeight        *uint64 `yaml:"noFeedWeight"`
	Feed                *Feed   `yaml:"feed"`
}

type Vault struct {
	Name string `yaml:"name"`
	Mint string `yaml:"mint"`
}

type Operator struct {
	Name   string            `yaml:"name"`
	FeeBps uint16            `yaml:"feeBps"`
	Stake  map[string]uint64 `yaml:"stake"`
	// Vote is the merkle root the operator votes for. Operators without one
	// abstain.
	Vote *tiprouter.Bytes32 `yaml:"vote"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a yaml scenario. Unknown fields are
// rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names resolve and fees are in bounds.
func (sc *Scenario) Validate() error {
	if len(sc.Operators) == 0 {
		return errors.New("no operators")
	}
	if len(sc.Vaults) == 0 {
		return errors.New("no vaults")
	}
	if len(sc.Operators) > tiprouter.MaxOperators {
		return errors.Errorf("%d operators, at most %d", len(sc.Operators), tiprouter.MaxOperators)
	}
	if len(sc.Vaults) > tiprouter.MaxVaults {
		return errors.Errorf("%d vaults, at most %d", len(sc.Vaults), tiprouter.MaxVaults)
	}
	if err := state.ValidateEpochsBeforeStall(sc.Fees.EpochsBeforeStall); err != nil {
		return errors.WithMessage(err, "fees")
	}
	f := fees.Fees{BlockEngineFeeBps: sc.Fees.BlockEngineBps, DaoFeeBps: sc.Fees.DaoBps}
	f.NcnFeeGroupsBps[0] = sc.Fees.DefaultNcnBps
	if err := f.Validate(); err != nil {
		return errors.WithMessage(err, "fees")
	}

	mints := make(map[string]bool, len(sc.Mints))
	for _, m := range sc.Mints {
		if m.Name == "" || mints[m.Name] {
			return errors.Errorf("mint name %q empty or duplicated", m.Name)
		}
		if m.NcnFeeGroup >= tiprouter.NcnFeeGroups {
			return errors.Errorf("mint %s: fee group %d out of range", m.Name, m.NcnFeeGroup)
		}
		mints[m.Name] = true
	}
	vaults := make(map[string]bool, len(sc.Vaults))
	for _, v := range sc.Vaults {
		if v.Name == "" || vaults[v.Name] {
			return errors.Errorf("vault name %q empty or duplicated", v.Name)
		}
		if !mints[v.Mint] {
			return errors.Errorf("vault %s: unknown mint %q", v.Name, v.Mint)
		}
		vaults[v.Name] = true
	}
	operators := make(map[string]bool, len(sc.Operators))
	for _, op := range sc.Operators {
		if op.Name == "" || operators[op.Name] {
			return errors.Errorf("operator name %q empty or duplicated", op.Name)
		}
		if uint64(op.FeeBps) > tiprouter.MaxFeeBps {
			return errors.Errorf("operator %s: fee %d bps", op.Name, op.FeeBps)
		}
		for vault := range op.Stake {
			if !vaults[vault] {
				return errors.Errorf("operator %s: unknown vault %q", op.Name, vault)
			}
		}
		if op.Vote != nil && op.Vote.IsZero() {
			return errors.Errorf("operator %s: zero merkle root", op.Name)
		}
		operators[op.Name] = true
	}
	return nil
}
