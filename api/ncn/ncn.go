// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ncn

import (
	"bytes"
	"net/http"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jito-foundation/jito-tip-router-sub002/api/utils"
	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
)

// NCN serves the tip router accounts of an ncn.
type NCN struct {
	bank      *host.Bank
	programID solana.PublicKey
}

func New(bank *host.Bank, programID solana.PublicKey) *NCN {
	return &NCN{
		bank,
		programID,
	}
}

// load decodes the program account at key into v and returns its balance.
// found is false when nothing owned by the program lives there.
func (n *NCN) load(key solana.PublicKey, v account.Body) (lamports uint64, found bool, err error) {
	acc, err := n.bank.GetAccount(key)
	if err != nil {
		return 0, false, err
	}
	if acc.Owner != n.programID || len(acc.Data) == 0 || acc.Data[0] != v.Discriminator() {
		return 0, false, nil
	}
	if err := account.Decode(acc.Data, v); err != nil {
		return 0, false, errors.WithMessagef(err, "decode %v", key)
	}
	return acc.Lamports, true, nil
}

func (n *NCN) mustLoad(key solana.PublicKey, v account.Body, what string) (uint64, error) {
	lamports, found, err := n.load(key, v)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, utils.NotFound(errors.Errorf("%s not found", what))
	}
	return lamports, nil
}

// addresses resolves the ncn and epoch path variables.
func (n *NCN) addresses(req *http.Request, withEpoch bool) (state.Addresses, uint64, error) {
	ncn, err := utils.PublicKeyVar(req, "ncn")
	if err != nil {
		return state.Addresses{}, 0, err
	}
	clock := n.bank.Clock()
	epoch := clock.Epoch
	if withEpoch {
		if epoch, err = utils.EpochVar(req, "epoch", clock.Epoch); err != nil {
			return state.Addresses{}, 0, err
		}
	}
	return state.NewAddresses(n.programID, ncn, epoch), epoch, nil
}

func (n *NCN) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	addrs, epoch, err := n.addresses(req, false)
	if err != nil {
		return err
	}
	var cfg state.Config
	if _, err := n.mustLoad(addrs.Config(), &cfg, "config"); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertConfig(addrs.Config(), &cfg, epoch))
}

func (n *NCN) handleGetVaultRegistry(w http.ResponseWriter, req *http.Request) error {
	addrs, _, err := n.addresses(req, false)
	if err != nil {
		return err
	}
	var reg state.VaultRegistry
	if _, err := n.mustLoad(addrs.VaultRegistry(), &reg, "vault registry"); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertVaultRegistry(addrs.VaultRegistry(), &reg))
}

func (n *NCN) handleGetWeightTable(w http.ResponseWriter, req *http.Request) error {
	addrs, _, err := n.addresses(req, true)
	if err != nil {
		return err
	}
	var table state.WeightTable
	if _, err := n.mustLoad(addrs.WeightTable(), &table, "weight table"); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertWeightTable(addrs.WeightTable(), &table))
}

func (n *NCN) handleGetEpochSnapshot(w http.ResponseWriter, req *http.Request) error {
	addrs, _, err := n.addresses(req, true)
	if err != nil {
		return err
	}
	var snap state.EpochSnapshot
	if _, err := n.mustLoad(addrs.EpochSnapshot(), &snap, "epoch snapshot"); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertEpochSnapshot(addrs.EpochSnapshot(), &snap))
}

func (n *NCN) handleGetOperatorSnapshot(w http.ResponseWriter, req *http.Request) error {
	addrs, _, err := n.addresses(req, true)
	if err != nil {
		return err
	}
	operator, err := utils.PublicKeyVar(req, "operator")
	if err != nil {
		return err
	}
	var snap state.OperatorSnapshot
	if _, err := n.mustLoad(addrs.OperatorSnapshot(operator), &snap, "operator snapshot"); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertOperatorSnapshot(addrs.OperatorSnapshot(operator), &snap))
}

func (n *NCN) handleGetBallotBox(w http.ResponseWriter, req *http.Request) error {
	addrs, _, err := n.addresses(req, true)
	if err != nil {
		return err
	}
	var cfg state.Config
	if _, err := n.mustLoad(addrs.Config(), &cfg, "config"); err != nil {
		return err
	}
	var box state.BallotBox
	if _, err := n.mustLoad(addrs.BallotBox(), &box, "ballot box"); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertBallotBox(addrs.BallotBox(), &box, n.bank.Clock().Epoch, cfg.EpochsBeforeStall))
}

func (n *NCN) handleGetRewardRouters(w http.ResponseWriter, req *http.Request) error {
	addrs, epoch, err := n.addresses(req, true)
	if err != nil {
		return err
	}
	routers := &RewardRouters{Epoch: epoch, Operators: make([]*OperatorRewardRouter, 0)}

	var er state.EpochRewardRouter
	lamports, found, err := n.load(addrs.EpochRewardRouter(), &er)
	if err != nil {
		return err
	}
	if found {
		routers.EpochRouter = &EpochRewardRouter{
			Address:            addrs.EpochRewardRouter(),
			Lamports:           lamports,
			Pool:               convertPool(&er.Pool),
			DaoRewards:         er.DaoRewards,
			BlockEngineRewards: er.BlockEngineRewards,
			NcnFeeGroupRewards: append([]uint64(nil), er.NcnFeeGroupRewards[:]...),
			OperatorPool:       er.OperatorPool,
		}
	}

	var br state.BaseRewardRouter
	if lamports, found, err = n.load(addrs.BaseRewardRouter(), &br); err != nil {
		return err
	}
	if found {
		routers.BaseRouter = &BaseRewardRouter{
			Address:  addrs.BaseRewardRouter(),
			Lamports: lamports,
			Pool:     convertPool(&br.Pool),
			Ledger:   convertLedger(br.Ledger[:]),
		}
	}

	ops, err := n.operatorRouters(addrs, epoch)
	if err != nil {
		return err
	}
	routers.Operators = append(routers.Operators, ops...)
	return utils.WriteJSON(w, routers)
}

// operatorRouters scans the program accounts for the operator routers of
// the epoch, ordered by address.
func (n *NCN) operatorRouters(addrs state.Addresses, epoch uint64) ([]*OperatorRewardRouter, error) {
	var (
		routers []*OperatorRewardRouter
		scanErr error
	)
	ncn := addrs.Ncn()
	err := n.bank.Accounts(n.programID, func(key solana.PublicKey, acc *host.Account) bool {
		var r state.OperatorRewardRouter
		if len(acc.Data) == 0 || acc.Data[0] != r.Discriminator() {
			return true
		}
		if scanErr = account.Decode(acc.Data, &r); scanErr != nil {
			return false
		}
		if r.Ncn != ncn || r.Epoch != epoch || key != addrs.OperatorRewardRouter(r.Operator) {
			return true
		}
		routers = append(routers, &OperatorRewardRouter{
			Address:            key,
			Operator:           r.Operator,
			Lamports:           acc.Lamports,
			Pool:               convertPool(&r.Pool),
			OperatorFeeRewards: r.OperatorFeeRewards,
			Ledger:             convertLedger(r.Ledger[:]),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	sort.Slice(routers, func(i, j int) bool {
		return bytes.Compare(routers[i].Address[:], routers[j].Address[:]) < 0
	})
	return routers, nil
}

func (n *NCN) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{ncn}/config").
		Methods(http.MethodGet).
		Name("ncn_get_config").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetConfig))
	sub.Path("/{ncn}/vault-registry").
		Methods(http.MethodGet).
		Name("ncn_get_vault_registry").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetVaultRegistry))
	sub.Path("/{ncn}/epochs/{epoch}/weight-table").
		Methods(http.MethodGet).
		Name("ncn_get_weight_table").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetWeightTable))
	sub.Path("/{ncn}/epochs/{epoch}/epoch-snapshot").
		Methods(http.MethodGet).
		Name("ncn_get_epoch_snapshot").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetEpochSnapshot))
	sub.Path("/{ncn}/epochs/{epoch}/operators/{operator}/snapshot").
		Methods(http.MethodGet).
		Name("ncn_get_operator_snapshot").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetOperatorSnapshot))
	sub.Path("/{ncn}/epochs/{epoch}/ballot-box").
		Methods(http.MethodGet).
		Name("ncn_get_ballot_box").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetBallotBox))
	sub.Path("/{ncn}/epochs/{epoch}/reward-routers").
		Methods(http.MethodGet).
		Name("ncn_get_reward_routers").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetRewardRouters))
}
