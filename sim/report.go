// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"github.com/gagliardetto/solana-go"
)

// VoteResult is the outcome of one operator's vote.
type VoteResult struct {
	Operator    string `yaml:"operator"`
	Root        string `yaml:"root"`
	Slot        uint64 `yaml:"slot"`
	StakeWeight uint64 `yaml:"stakeWeight"`
	Accepted    bool   `yaml:"accepted"`
	Reason      string `yaml:"reason,omitempty"`
}

// Payout is what a recipient received.
type Payout struct {
	Recipient string           `yaml:"recipient"`
	Address   solana.PublicKey `yaml:"-"`
	Lamports  uint64           `yaml:"lamports"`
}

// Report summarizes a scenario run.
type Report struct {
	Scenario    string        `yaml:"scenario"`
	Ncn         string        `yaml:"ncn"`
	Epoch       uint64        `yaml:"epoch"`
	StakeWeight uint64        `yaml:"stakeWeight"`
	Votes       []*VoteResult `yaml:"votes"`
	Consensus   bool          `yaml:"consensus"`
	TieBroken   bool          `yaml:"tieBroken"`
	WinningRoot string        `yaml:"winningRoot,omitempty"`
	Tipped      uint64        `yaml:"tipped"`
	Payouts     []*Payout     `yaml:"payouts"`
	// Undistributed is what the routers hold above their rent reserve.
	Undistributed uint64 `yaml:"undistributed"`
}

// Paid sums every payout.
func (r *Report) Paid() uint64 {
	var total uint64
	for _, p := range r.Payouts {
		total += p.Lamports
	}
	return total
}

// Payout returns the payout of recipient, zero if it got nothing.
func (r *Report) Payout(recipient string) uint64 {
	for _, p := range r.Payouts {
		if p.Recipient == recipient {
			return p.Lamports
		}
	}
	return 0
}
