// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

// noEpoch marks accounts that are not bound to an epoch.
const noEpoch = ^uint64(0)

// programAccount is a decoded tip router account.
type programAccount struct {
	Address  string       `yaml:"address"`
	Kind     string       `yaml:"kind"`
	Ncn      string       `yaml:"ncn"`
	Epoch    *uint64      `yaml:"epoch,omitempty"`
	Lamports uint64       `yaml:"lamports"`
	Body     account.Body `yaml:"-"`
}

func newBody(discriminator uint8) (account.Body, string) {
	switch discriminator {
	case state.DiscriminatorConfig:
		return &state.Config{}, "config"
	case state.DiscriminatorVaultRegistry:
		return &state.VaultRegistry{}, "vault_registry"
	case state.DiscriminatorWeightTable:
		return &state.WeightTable{}, "weight_table"
	case state.DiscriminatorEpochSnapshot:
		return &state.EpochSnapshot{}, "epoch_snapshot"
	case state.DiscriminatorOperatorSnapshot:
		return &state.OperatorSnapshot{}, "operator_snapshot"
	case state.DiscriminatorBallotBox:
		return &state.BallotBox{}, "ballot_box"
	case state.DiscriminatorEpochRewardRouter:
		return &state.EpochRewardRouter{}, "epoch_reward_router"
	case state.DiscriminatorBaseRewardRouter:
		return &state.BaseRewardRouter{}, "base_reward_router"
	case state.DiscriminatorOperatorRewardRouter:
		return &state.OperatorRewardRouter{}, "operator_reward_router"
	}
	return nil, ""
}

// scope returns the ncn and epoch an account belongs to.
func scope(body account.Body) (solana.PublicKey, uint64) {
	switch b := body.(type) {
	case *state.Config:
		return b.Ncn, noEpoch
	case *state.VaultRegistry:
		return b.Ncn, noEpoch
	case *state.WeightTable:
		return b.Ncn, b.Epoch
	case *state.EpochSnapshot:
		return b.Ncn, b.Epoch
	case *state.OperatorSnapshot:
		return b.Ncn, b.Epoch
	case *state.BallotBox:
		return b.Ncn, b.Epoch
	case *state.EpochRewardRouter:
		return b.Ncn, b.Epoch
	case *state.BaseRewardRouter:
		return b.Ncn, b.Epoch
	case *state.OperatorRewardRouter:
		return b.Ncn, b.Epoch
	}
	return solana.PublicKey{}, noEpoch
}

type accountFilter struct {
	ncn   *solana.PublicKey
	epoch *uint64
}

// decodeAccount decodes a program account. It reports false for accounts
// the tip router does not know or that the filter excludes.
func decodeAccount(key solana.PublicKey, acc *host.Account, filter accountFilter) (*programAccount, bool, error) {
	if len(acc.Data) == 0 {
		return nil, false, nil
	}
	body, kind := newBody(acc.Data[0])
	if body == nil {
		return nil, false, nil
	}
	if err := account.Decode(acc.Data, body); err != nil {
		return nil, false, errors.WithMessagef(err, "decode %s at %s", kind, key)
	}
	ncn, epoch := scope(body)
	if filter.ncn != nil && *filter.ncn != ncn {
		return nil, false, nil
	}
	if filter.epoch != nil && *filter.epoch != epoch {
		return nil, false, nil
	}
	pa := &programAccount{
		Address:  key.String(),
		Kind:     kind,
		Ncn:      ncn.String(),
		Lamports: acc.Lamports,
		Body:     body,
	}
	if epoch != noEpoch {
		pa.Epoch = &epoch
	}
	return pa, true, nil
}

func parseFilter(ctx *cli.Context) (accountFilter, error) {
	var filter accountFilter
	if s := ctx.String(ncnFlag.Name); s != "" {
		ncn, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return filter, errors.Wrapf(err, "--%s", ncnFlag.Name)
		}
		filter.ncn = &ncn
	}
	if e := ctx.Int64(epochFlag.Name); e >= 0 {
		epoch := uint64(e)
		filter.epoch = &epoch
	}
	return filter, nil
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return errors.Errorf("--%s is required", dataDirFlag.Name)
	}
	filter, err := parseFilter(ctx)
	if err != nil {
		return err
	}
	store, closer, err := openStore(dataDir)
	if err != nil {
		return err
	}
	defer closer.Close()

	bank, err := host.NewBank(store, host.DefaultConfig())
	if err != nil {
		return err
	}
	accounts, err := collectAccounts(bank, filter)
	if err != nil {
		return err
	}
	logger.Info("accounts loaded", "count", len(accounts), "slot", bank.Clock().Slot)
	return writeAccounts(os.Stdout, accounts, ctx.String(outputFlag.Name))
}

func collectAccounts(bank *host.Bank, filter accountFilter) ([]*programAccount, error) {
	var (
		accounts []*programAccount
		iterErr  error
	)
	err := bank.Accounts(tiprouter.ProgramID, func(key solana.PublicKey, acc *host.Account) bool {
		pa, ok, err := decodeAccount(key, acc, filter)
		if err != nil {
			iterErr = err
			return false
		}
		if ok {
			accounts = append(accounts, pa)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return accounts, iterErr
}

func writeAccounts(w io.Writer, accounts []*programAccount, format string) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(accounts); err != nil {
			return errors.Wrap(err, "encode accounts")
		}
		return enc.Close()
	case "dump":
		for _, pa := range accounts {
			spew.Fdump(w, pa.Address, pa.Body)
		}
		return nil
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
