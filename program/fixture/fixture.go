// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixture seeds a bank with an ncn, its operators and vaults, and
// drives the tip router through an epoch.
package fixture

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/pkg/errors"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/kv"
	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
	"github.com/jito-foundation/jito-tip-router-sub002/oracle"
	"github.com/jito-foundation/jito-tip-router-sub002/program"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/restaking"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// PayerFunding is what the account payer and the tipper start with.
const PayerFunding = uint64(1_000_000_000_000)

// Operator is a seeded restaking operator.
type Operator struct {
	Address   solana.PublicKey
	Voter     solana.PublicKey
	FeeWallet solana.PublicKey
	FeeBps    uint16
}

// Vault is a seeded vault.
type Vault struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
}

// Network is an ncn deployed on a bank with the tip router registered.
type Network struct {
	Bank    *host.Bank
	Builder *instruction.Builder

	Ncn     solana.PublicKey
	Admin   solana.PublicKey
	Tipper  solana.PublicKey
	Wallets instruction.FeeWallets

	Operators []Operator
	Vaults    []Vault
	Mints     []solana.PublicKey

	// MintArgs overrides how Setup registers a mint. Unlisted mints get a
	// 1x multiplier and the default weight.
	MintArgs map[solana.PublicKey]instruction.AdminRegisterStMintArgs

	ncn *restaking.Ncn
}

// NewBank creates an in-memory bank running the tip router.
func NewBank(cfg host.Config) (*host.Bank, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	return NewBankWithStore(db, cfg)
}

// NewBankWithStore creates a bank over store running the tip router.
func NewBankWithStore(store kv.Store, cfg host.Config) (*host.Bank, error) {
	bank, err := host.NewBank(store, cfg)
	if err != nil {
		return nil, err
	}
	program.Register(bank, tiprouter.ProgramID)
	return bank, nil
}

// New seeds an ncn on bank. The admin holds every admin role.
func New(bank *host.Bank) (*Network, error) {
	base := solana.NewWallet().PublicKey()
	n := &Network{
		Bank:   bank,
		Ncn:    restaking.FindNcnAddress(base),
		Admin:  solana.NewWallet().PublicKey(),
		Tipper: solana.NewWallet().PublicKey(),
		Wallets: instruction.FeeWallets{
			Dao:         solana.NewWallet().PublicKey(),
			BlockEngine: solana.NewWallet().PublicKey(),
			Ncn:         solana.NewWallet().PublicKey(),
		},
	}
	n.Builder = instruction.NewBuilder(tiprouter.ProgramID, n.Ncn)
	_, bump := account.FindAddress(restaking.ProgramID, restaking.NcnSeeds(base)...)
	n.ncn = &restaking.Ncn{Base: base, Admin: n.Admin, Bump: bump}
	if err := n.put(n.Ncn, n.ncn, restaking.ProgramID); err != nil {
		return nil, err
	}
	if err := bank.Airdrop(n.Builder.Addresses(0).AccountPayer(), PayerFunding); err != nil {
		return nil, err
	}
	if err := bank.Airdrop(n.Tipper, PayerFunding); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Network) put(key solana.PublicKey, v account.Body, owner solana.PublicKey) error {
	acc, err := restaking.NewAccount(v, owner, n.Bank.Rent())
	if err != nil {
		return err
	}
	return n.Bank.SetAccount(key, acc)
}

// Execute processes ixs in one transaction signed by signers.
func (n *Network) Execute(signers []solana.PublicKey, ixs ...solana.Instruction) (*host.Receipt, error) {
	return n.Bank.Process(host.NewTransaction(signers, ixs...))
}

// Run processes ixs signed by the admin.
func (n *Network) Run(ixs ...solana.Instruction) error {
	_, err := n.Execute([]solana.PublicKey{n.Admin}, ixs...)
	return err
}

// AddOperator seeds an operator that opted in to the ncn at the current slot.
func (n *Network) AddOperator(feeBps uint16) (Operator, error) {
	slot := n.Bank.Clock().Slot
	base := solana.NewWallet().PublicKey()
	op := Operator{
		Address:   restaking.FindOperatorAddress(base),
		Voter:     solana.NewWallet().PublicKey(),
		FeeWallet: solana.NewWallet().PublicKey(),
		FeeBps:    feeBps,
	}
	if err := n.put(op.Address, &restaking.Operator{
		Base:           base,
		Admin:          op.Voter,
		Voter:          op.Voter,
		FeeWallet:      op.FeeWallet,
		Index:          uint64(len(n.Operators)),
		OperatorFeeBps: feeBps,
	}, restaking.ProgramID); err != nil {
		return Operator{}, err
	}
	if err := n.put(restaking.FindNcnOperatorStateAddress(n.Ncn, op.Address), &restaking.NcnOperatorState{
		Ncn:           n.Ncn,
		Operator:      op.Address,
		Index:         n.ncn.OperatorCount,
		NcnOptIn:      restaking.NewActiveToggle(slot),
		OperatorOptIn: restaking.NewActiveToggle(slot),
	}, restaking.ProgramID); err != nil {
		return Operator{}, err
	}
	n.ncn.OperatorCount++
	if err := n.put(n.Ncn, n.ncn, restaking.ProgramID); err != nil {
		return Operator{}, err
	}
	n.Operators = append(n.Operators, op)
	return op, nil
}

// AddVault seeds a vault of mint with an active ncn ticket.
func (n *Network) AddVault(mint solana.PublicKey) (Vault, error) {
	slot := n.Bank.Clock().Slot
	base := solana.NewWallet().PublicKey()
	v := Vault{Address: restaking.FindVaultAddress(base), Mint: mint}
	if err := n.put(v.Address, &restaking.Vault{
		Base:          base,
		Admin:         n.Admin,
		SupportedMint: mint,
		Index:         uint64(len(n.Vaults)),
	}, restaking.VaultProgramID); err != nil {
		return Vault{}, err
	}
	if err := n.put(restaking.FindNcnVaultTicketAddress(n.Ncn, v.Address), &restaking.NcnVaultTicket{
		Ncn:   n.Ncn,
		Vault: v.Address,
		Index: n.ncn.VaultCount,
		State: restaking.NewActiveToggle(slot),
	}, restaking.ProgramID); err != nil {
		return Vault{}, err
	}
	n.ncn.VaultCount++
	if err := n.put(n.Ncn, n.ncn, restaking.ProgramID); err != nil {
		return Vault{}, err
	}
	n.Vaults = append(n.Vaults, v)
	return v, nil
}

// Delegate sets the stake vault delegates to operator.
func (n *Network) Delegate(vault Vault, operator Operator, amount uint64) error {
	return n.put(restaking.FindVaultOperatorDelegationAddress(vault.Address, operator.Address), &restaking.VaultOperatorDelegation{
		Vault:        vault.Address,
		Operator:     operator.Address,
		StakedAmount: amount,
	}, restaking.VaultProgramID)
}

// SetFeed writes a price feed account.
func (n *Network) SetFeed(key solana.PublicKey, value uint64, scale uint8) error {
	return n.put(key, &oracle.Feed{
		Value:          value,
		Scale:          scale,
		LastUpdateSlot: n.Bank.Clock().Slot,
	}, oracle.ProgramID)
}

// grow runs init followed by as many reallocs as an account of size needs.
func (n *Network) grow(size int, init solana.Instruction, realloc func() solana.Instruction) error {
	if err := n.Run(init); err != nil {
		return err
	}
	for range account.ReallocsNeeded(size) {
		if err := n.Run(realloc()); err != nil {
			return err
		}
	}
	return nil
}

// Setup creates the config and the vault registry, registers mints with
// their default weight and registers every seeded vault.
func (n *Network) Setup(args instruction.InitializeConfigArgs) error {
	if err := n.Run(n.Builder.InitializeConfig(n.Admin, n.Admin, n.Admin, n.Wallets, args)); err != nil {
		return errors.WithMessage(err, "initialize config")
	}
	if err := n.grow(account.Size(&state.VaultRegistry{}),
		n.Builder.InitializeVaultRegistry(), n.Builder.ReallocVaultRegistry); err != nil {
		return errors.WithMessage(err, "vault registry")
	}
	for _, v := range n.Vaults {
		args, ok := n.MintArgs[v.Mint]
		if !ok {
			args = instruction.AdminRegisterStMintArgs{RewardMultiplierBps: 10_000}
		}
		if err := n.RegisterMint(v.Mint, args); err != nil {
			return err
		}
	}
	for _, v := range n.Vaults {
		if err := n.Run(n.Builder.RegisterVault(v.Address)); err != nil {
			return errors.WithMessagef(err, "register vault %v", v.Address)
		}
	}
	return nil
}

// RegisterMint registers mint unless it already is.
func (n *Network) RegisterMint(mint solana.PublicKey, args instruction.AdminRegisterStMintArgs) error {
	for _, m := range n.Mints {
		if m == mint {
			return nil
		}
	}
	if err := n.Run(n.Builder.AdminRegisterStMint(n.Admin, mint, args)); err != nil {
		return errors.WithMessagef(err, "register mint %v", mint)
	}
	n.Mints = append(n.Mints, mint)
	return nil
}

// InitWeightTable creates the weight table of epoch at full size.
func (n *Network) InitWeightTable(epoch uint64) error {
	b := n.Builder
	return n.grow(account.Size(&state.WeightTable{}),
		b.InitializeWeightTable(epoch), func() solana.Instruction { return b.ReallocWeightTable(epoch) })
}

// Snapshot sets the weights of epoch from the registered feeds or defaults
// and creates the epoch snapshot.
func (n *Network) Snapshot(epoch uint64) error {
	b := n.Builder
	if err := n.InitWeightTable(epoch); err != nil {
		return errors.WithMessage(err, "weight table")
	}
	for _, mint := range n.Mints {
		var feed solana.PublicKey
		if args, ok := n.MintArgs[mint]; ok && args.Feed != nil {
			feed = *args.Feed
		}
		if err := n.Run(b.SetWeight(epoch, mint, feed)); err != nil {
			return errors.WithMessagef(err, "set weight %v", mint)
		}
	}
	if err := n.Run(b.InitializeEpochSnapshot(epoch)); err != nil {
		return errors.WithMessage(err, "epoch snapshot")
	}
	return nil
}

// SnapshotOperator creates the operator snapshot and registers every vault.
func (n *Network) SnapshotOperator(epoch uint64, op Operator) error {
	if err := n.Run(n.Builder.InitializeOperatorSnapshot(epoch, op.Address)); err != nil {
		return errors.WithMessagef(err, "operator snapshot %v", op.Address)
	}
	for _, v := range n.Vaults {
		if err := n.Run(n.Builder.SnapshotVaultOperatorDelegation(epoch, op.Address, v.Address)); err != nil {
			return errors.WithMessagef(err, "delegation %v -> %v", v.Address, op.Address)
		}
	}
	return nil
}

// OpenVoting prepares the ballot box of epoch.
func (n *Network) OpenVoting(epoch uint64) error {
	b := n.Builder
	return n.grow(account.Size(&state.BallotBox{}),
		b.InitializeBallotBox(epoch), func() solana.Instruction { return b.ReallocBallotBox(epoch) })
}

// Prepare runs Snapshot, SnapshotOperator for every operator and OpenVoting.
func (n *Network) Prepare(epoch uint64) error {
	if err := n.Snapshot(epoch); err != nil {
		return err
	}
	for _, op := range n.Operators {
		if err := n.SnapshotOperator(epoch, op); err != nil {
			return err
		}
	}
	return n.OpenVoting(epoch)
}

// Vote casts the operator's vote for root.
func (n *Network) Vote(epoch uint64, op Operator, root tiprouter.Bytes32) error {
	ix := n.Builder.CastVote(epoch, op.Address, op.Voter, state.NewBallot(root, 0, 0))
	_, err := n.Execute([]solana.PublicKey{op.Voter}, ix)
	return err
}

// InitRouters creates the reward routers of epoch.
func (n *Network) InitRouters(epoch uint64) error {
	b := n.Builder
	if err := n.Run(b.InitializeEpochRewardRouter(epoch)); err != nil {
		return errors.WithMessage(err, "epoch reward router")
	}
	if err := n.grow(account.Size(&state.BaseRewardRouter{}),
		b.InitializeBaseRewardRouter(epoch), func() solana.Instruction { return b.ReallocBaseRewardRouter(epoch) }); err != nil {
		return errors.WithMessage(err, "base reward router")
	}
	for _, op := range n.Operators {
		if err := n.Run(b.InitializeOperatorRewardRouter(epoch, op.Address)); err != nil {
			return errors.WithMessagef(err, "operator reward router %v", op.Address)
		}
	}
	return nil
}

// Tip sends lamports to the epoch reward router.
func (n *Network) Tip(epoch uint64, lamports uint64) error {
	to := n.Builder.Addresses(epoch).EpochRewardRouter()
	_, err := n.Execute([]solana.PublicKey{n.Tipper}, system.NewTransferInstruction(lamports, n.Tipper, to).Build())
	return err
}

// Distribute routes the epoch's rewards down to every wallet and vault.
func (n *Network) Distribute(epoch uint64) error {
	b := n.Builder
	steps := []solana.Instruction{
		b.ProcessRewardPool(epoch),
		b.DistributeDaoRewards(epoch, n.Wallets.Dao),
		b.DistributeBlockEngineRewards(epoch, n.Wallets.BlockEngine),
	}
	for group := range uint8(tiprouter.NcnFeeGroups) {
		steps = append(steps, b.DistributeNcnFeeRewards(epoch, group, n.Wallets.Ncn))
	}
	steps = append(steps, b.DistributeBaseRewards(epoch), b.ProcessBuckets(epoch))
	for _, op := range n.Operators {
		steps = append(steps,
			b.DistributeOperatorRewards(epoch, op.Address),
			b.ProcessOperatorRewards(epoch, op.Address),
			b.DistributeOperatorFeeRewards(epoch, op.Address, op.FeeWallet),
		)
		for _, v := range n.Vaults {
			steps = append(steps, b.DistributeVaultRewards(epoch, op.Address, v.Address))
		}
	}
	for _, ix := range steps {
		if err := n.Run(ix); err != nil {
			return err
		}
	}
	return nil
}

// Lamports returns the balance of key.
func (n *Network) Lamports(key solana.PublicKey) (uint64, error) {
	acc, err := n.Bank.GetAccount(key)
	if err != nil {
		return 0, err
	}
	return acc.Lamports, nil
}

// Load decodes the program account at key into v.
func (n *Network) Load(key solana.PublicKey, v account.Body) error {
	acc, err := n.Bank.GetAccount(key)
	if err != nil {
		return err
	}
	return account.Decode(acc.Data, v)
}
