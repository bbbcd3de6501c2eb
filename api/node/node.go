// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"

	"github.com/jito-foundation/jito-tip-router-sub002/api/utils"
	"github.com/jito-foundation/jito-tip-router-sub002/host"
)

// Clock is the bank clock as served.
type Clock struct {
	Slot          uint64 `json:"slot"`
	Epoch         uint64 `json:"epoch"`
	SlotsPerEpoch uint64 `json:"slotsPerEpoch"`
}

// Info describes the node.
type Info struct {
	ProgramID solana.PublicKey `json:"programId"`
	Version   string           `json:"version"`
}

type Node struct {
	bank *host.Bank
	info Info
}

func New(bank *host.Bank, info Info) *Node {
	return &Node{
		bank,
		info,
	}
}

func (n *Node) handleGetClock(w http.ResponseWriter, req *http.Request) error {
	c := n.bank.Clock()
	return utils.WriteJSON(w, &Clock{
		Slot:          c.Slot,
		Epoch:         c.Epoch,
		SlotsPerEpoch: c.SlotsPerEpoch,
	})
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, n.info)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/clock").
		Methods(http.MethodGet).
		Name("node_get_clock").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetClock))
	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
