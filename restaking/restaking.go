// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package restaking reads the accounts of the external restaking and vault
// programs. The tip router never writes them.
package restaking

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

var (
	// ProgramID is the restaking program, owner of ncns, operators and their tickets.
	ProgramID = solana.MustPublicKeyFromBase58("RestkWeAVL8fRGgzhfeoqFhsqKRchg6aa1XrcH96z4Q")
	// VaultProgramID owns vaults and vault operator delegations.
	VaultProgramID = solana.MustPublicKeyFromBase58("Vau1t6sLNxnzB7ZDsef8TLbPLfyZMYXH8WTNqUdm9g8")
)

// SlotToggle records when a relationship was switched on and off. The zero
// value is inactive.
type SlotToggle struct {
	SlotAdded   uint64
	SlotRemoved uint64
}

// NewActiveToggle returns a toggle switched on at slot.
func NewActiveToggle(slot uint64) SlotToggle {
	return SlotToggle{SlotAdded: slot, SlotRemoved: tiprouter.NoSlot}
}

// IsActive reports whether the toggle is on at slot.
func (t SlotToggle) IsActive(slot uint64) bool {
	return t.SlotAdded <= slot && slot < t.SlotRemoved
}

// Ncn is a node consensus network.
type Ncn struct {
	Base          solana.PublicKey
	Admin         solana.PublicKey
	Index         uint64
	OperatorCount uint64
	VaultCount    uint64
	Bump          uint8
	Reserved      [263]byte
}

func (*Ncn) Discriminator() uint8 { return 2 }

// Operator runs validators for ncns.
type Operator struct {
	Base           solana.PublicKey
	Admin          solana.PublicKey
	Voter          solana.PublicKey
	FeeWallet      solana.PublicKey
	Index          uint64
	NcnCount       uint64
	OperatorFeeBps uint16
	Bump           uint8
	Reserved       [261]byte
}

func (*Operator) Discriminator() uint8 { return 3 }

// NcnOperatorState is the opt-in handshake between an ncn and an operator.
type NcnOperatorState struct {
	Ncn           solana.PublicKey
	Operator      solana.PublicKey
	Index         uint64
	NcnOptIn      SlotToggle
	OperatorOptIn SlotToggle
	Bump          uint8
	Reserved      [263]byte
}

func (*NcnOperatorState) Discriminator() uint8 { return 4 }

// IsActive reports whether both sides opted in at slot.
func (s *NcnOperatorState) IsActive(slot uint64) bool {
	return s.NcnOptIn.IsActive(slot) && s.OperatorOptIn.IsActive(slot)
}

// NcnVaultTicket records an ncn accepting a vault.
type NcnVaultTicket struct {
	Ncn      solana.PublicKey
	Vault    solana.PublicKey
	Index    uint64
	State    SlotToggle
	Bump     uint8
	Reserved [263]byte
}

func (*NcnVaultTicket) Discriminator() uint8 { return 5 }

// Vault holds restaked tokens of a single mint.
type Vault struct {
	Base            solana.PublicKey
	Admin           solana.PublicKey
	SupportedMint   solana.PublicKey
	TokensDeposited uint64
	Index           uint64
	Bump            uint8
	Reserved        [263]byte
}

func (*Vault) Discriminator() uint8 { return 2 }

// VaultOperatorDelegation is the stake a vault delegates to an operator.
type VaultOperatorDelegation struct {
	Vault               solana.PublicKey
	Operator            solana.PublicKey
	StakedAmount        uint64
	EnqueuedForCooldown uint64
	CoolingDown         uint64
	Index               uint64
	Bump                uint8
	Reserved            [263]byte
}

func (*VaultOperatorDelegation) Discriminator() uint8 { return 4 }

// DelegatedAmount is the stake still counting towards the operator.
func (d *VaultOperatorDelegation) DelegatedAmount() uint64 {
	return d.StakedAmount
}

func NcnSeeds(base solana.PublicKey) [][]byte {
	return [][]byte{[]byte("ncn"), base[:]}
}

func OperatorSeeds(base solana.PublicKey) [][]byte {
	return [][]byte{[]byte("operator"), base[:]}
}

func VaultSeeds(base solana.PublicKey) [][]byte {
	return [][]byte{[]byte("vault"), base[:]}
}

func NcnOperatorStateSeeds(ncn, operator solana.PublicKey) [][]byte {
	return [][]byte{[]byte("ncn_operator_state"), ncn[:], operator[:]}
}

func NcnVaultTicketSeeds(ncn, vault solana.PublicKey) [][]byte {
	return [][]byte{[]byte("ncn_vault_ticket"), ncn[:], vault[:]}
}

func VaultOperatorDelegationSeeds(vault, operator solana.PublicKey) [][]byte {
	return [][]byte{[]byte("vault_operator_delegation"), vault[:], operator[:]}
}

func load[T any, PT interface {
	*T
	account.Body
}](info *host.AccountInfo, owner solana.PublicKey) (PT, error) {
	v, err := account.Load[T, PT](info, owner, false)
	if err != nil {
		return nil, reverts.ErrInvalidRestaking.Withf("%v: %v", info.Key, err)
	}
	return v, nil
}

// LoadNcn reads an ncn.
func LoadNcn(info *host.AccountInfo) (*Ncn, error) {
	return load[Ncn](info, ProgramID)
}

// LoadOperator reads an operator.
func LoadOperator(info *host.AccountInfo) (*Operator, error) {
	return load[Operator](info, ProgramID)
}

// LoadVault reads a vault.
func LoadVault(info *host.AccountInfo) (*Vault, error) {
	return load[Vault](info, VaultProgramID)
}

// LoadNcnOperatorState reads the state of (ncn, operator) and checks its address.
func LoadNcnOperatorState(info *host.AccountInfo, ncn, operator solana.PublicKey) (*NcnOperatorState, error) {
	if _, err := account.CheckAddress(info, ProgramID, NcnOperatorStateSeeds(ncn, operator)...); err != nil {
		return nil, err
	}
	return load[NcnOperatorState](info, ProgramID)
}

// LoadNcnVaultTicket reads the ticket of (ncn, vault) and checks its address.
func LoadNcnVaultTicket(info *host.AccountInfo, ncn, vault solana.PublicKey) (*NcnVaultTicket, error) {
	if _, err := account.CheckAddress(info, ProgramID, NcnVaultTicketSeeds(ncn, vault)...); err != nil {
		return nil, err
	}
	return load[NcnVaultTicket](info, ProgramID)
}

// LoadVaultOperatorDelegation reads the delegation of (vault, operator) and checks its address.
func LoadVaultOperatorDelegation(info *host.AccountInfo, vault, operator solana.PublicKey) (*VaultOperatorDelegation, error) {
	if _, err := account.CheckAddress(info, VaultProgramID, VaultOperatorDelegationSeeds(vault, operator)...); err != nil {
		return nil, err
	}
	return load[VaultOperatorDelegation](info, VaultProgramID)
}

// FindNcnOperatorStateAddress derives the address of the (ncn, operator) state.
func FindNcnOperatorStateAddress(ncn, operator solana.PublicKey) solana.PublicKey {
	addr, _ := account.FindAddress(ProgramID, NcnOperatorStateSeeds(ncn, operator)...)
	return addr
}

// FindNcnVaultTicketAddress derives the address of the (ncn, vault) ticket.
func FindNcnVaultTicketAddress(ncn, vault solana.PublicKey) solana.PublicKey {
	addr, _ := account.FindAddress(ProgramID, NcnVaultTicketSeeds(ncn, vault)...)
	return addr
}

// FindVaultOperatorDelegationAddress derives the address of the (vault, operator) delegation.
func FindVaultOperatorDelegationAddress(vault, operator solana.PublicKey) solana.PublicKey {
	addr, _ := account.FindAddress(VaultProgramID, VaultOperatorDelegationSeeds(vault, operator)...)
	return addr
}

// FindNcnAddress derives an ncn address from its base.
func FindNcnAddress(base solana.PublicKey) solana.PublicKey {
	addr, _ := account.FindAddress(ProgramID, NcnSeeds(base)...)
	return addr
}

// FindOperatorAddress derives an operator address from its base.
func FindOperatorAddress(base solana.PublicKey) solana.PublicKey {
	addr, _ := account.FindAddress(ProgramID, OperatorSeeds(base)...)
	return addr
}

// FindVaultAddress derives a vault address from its base.
func FindVaultAddress(base solana.PublicKey) solana.PublicKey {
	addr, _ := account.FindAddress(VaultProgramID, VaultSeeds(base)...)
	return addr
}

// NewAccount encodes v into a rent exempt account owned by owner. It is used
// by fixtures and the simulator to seed restaking state.
func NewAccount(v account.Body, owner solana.PublicKey, rent host.Rent) (*host.Account, error) {
	data, err := account.Encode(v)
	if err != nil {
		return nil, err
	}
	return &host.Account{
		Lamports: rent.MinimumBalance(len(data)),
		Owner:    owner,
		Data:     data,
	}, nil
}
