// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package program is the tip router instruction processor.
package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/log"
	"github.com/jito-foundation/jito-tip-router-sub002/metrics"
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
)

var (
	logger = log.WithContext("pkg", "tiprouter")

	metricInstructions = metrics.LazyLoadCounterVec("program_instructions_total", []string{"instruction", "result"})
	metricConsensus    = metrics.LazyLoadGaugeVec("program_consensus_reached", []string{"ncn", "epoch"})
	metricDistributed  = metrics.LazyLoadCounterVec("program_lamports_distributed_total", []string{"bucket"})
)

// env is what a handler sees of the running instruction.
type env struct {
	ctx      *host.InvokeContext
	accounts []*host.AccountInfo
	payload  []byte
}

// Args decodes the instruction arguments.
func (e *env) Args(args any) error {
	return instruction.DecodeArgs(e.payload, args)
}

// Expect checks that at least n accounts were passed.
func (e *env) Expect(n int) error {
	return account.Expect(e.accounts, n)
}

func (e *env) slot() uint64  { return e.ctx.Clock().Slot }
func (e *env) epoch() uint64 { return e.ctx.Clock().Epoch }

// rentExempt is the minimum balance of info at its current size.
func (e *env) rentExempt(info *host.AccountInfo) uint64 {
	return e.ctx.Rent().MinimumBalance(len(info.Data))
}

type handler func(env *env) error

var handlers = map[instruction.Selector]handler{}

func define(sel instruction.Selector, h handler) {
	if _, dup := handlers[sel]; dup {
		panic("duplicated handler " + sel.String())
	}
	handlers[sel] = h
}

// Processor runs tip router instructions.
type Processor struct{}

var _ host.Program = Processor{}

// Register deploys the processor on bank at programID.
func Register(bank *host.Bank, programID solana.PublicKey) {
	bank.RegisterProgram(programID, Processor{})
}

// Process implements host.Program.
func (Processor) Process(ctx *host.InvokeContext, accounts []*host.AccountInfo, data []byte) (err error) {
	sel, payload, err := instruction.Split(data)
	if err != nil {
		return err
	}
	h, ok := handlers[sel]
	if !ok {
		return reverts.ErrInvalidInstructionData.Withf("no handler for %v", sel)
	}

	defer func() {
		result := "ok"
		if err != nil {
			result = reverts.KindOf(err).String()
			logger.Debug("instruction failed", "instruction", sel, "err", err)
		}
		metricInstructions().AddWithLabel(1, map[string]string{"instruction": sel.String(), "result": result})
	}()

	ctx.Log("Instruction: " + sel.String())
	return h(&env{ctx: ctx, accounts: accounts, payload: payload})
}
