// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/jito-foundation/jito-tip-router-sub002/kv"
	"github.com/jito-foundation/jito-tip-router-sub002/log"
	"github.com/jito-foundation/jito-tip-router-sub002/metrics"
	"github.com/jito-foundation/jito-tip-router-sub002/stackedmap"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

var (
	logger = log.WithContext("pkg", "host")

	metricTransactions = metrics.LazyLoadCounterVec("host_transactions_total", []string{"result"})
	metricTxDuration   = metrics.LazyLoadHistogram("host_transaction_duration_us", metrics.BucketTxMicros)
	metricSlot         = metrics.LazyLoadGauge("host_slot")
	metricCacheHitRate = metrics.LazyLoadGauge("host_accounts_cache_hit_permille")
)

// Config holds the bank parameters.
type Config struct {
	SlotsPerEpoch uint64
	StartSlot     uint64
	Rent          Rent
	CacheSize     int
}

// DefaultConfig returns mainnet like parameters.
func DefaultConfig() Config {
	return Config{
		SlotsPerEpoch: tiprouter.DefaultSlotsPerEpoch,
		Rent:          DefaultRent,
		CacheSize:     4096,
	}
}

// Transaction is a list of instructions executed atomically. Signers lists
// the addresses whose signatures the transaction carries.
type Transaction struct {
	Instructions []solana.Instruction
	Signers      []solana.PublicKey
}

// NewTransaction creates a transaction.
func NewTransaction(signers []solana.PublicKey, ixs ...solana.Instruction) *Transaction {
	return &Transaction{Instructions: ixs, Signers: signers}
}

// Receipt is the outcome of a processed transaction.
type Receipt struct {
	Slot uint64
	Logs []string
}

// Bank executes transactions against the accounts db. Transactions are
// applied one at a time.
type Bank struct {
	mu       sync.Mutex
	cfg      Config
	db       *AccountsDB
	slot     uint64
	programs map[solana.PublicKey]Program
}

// NewBank creates a bank over the store. The slot is restored if the store
// was used before.
func NewBank(store kv.Store, cfg Config) (*Bank, error) {
	if cfg.SlotsPerEpoch == 0 {
		cfg.SlotsPerEpoch = tiprouter.DefaultSlotsPerEpoch
	}
	db, err := NewAccountsDB(store, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	slot, ok, err := db.loadSlot()
	if err != nil {
		return nil, err
	}
	if !ok {
		slot = cfg.StartSlot
		if err := db.saveSlot(slot); err != nil {
			return nil, err
		}
	}
	b := &Bank{
		cfg:      cfg,
		db:       db,
		slot:     slot,
		programs: make(map[solana.PublicKey]Program),
	}
	b.programs[solana.SystemProgramID] = systemProgram{}
	return b, nil
}

// RegisterProgram deploys a program at id.
func (b *Bank) RegisterProgram(id solana.PublicKey, p Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs[id] = p
}

// Rent returns the rent schedule.
func (b *Bank) Rent() Rent { return b.cfg.Rent }

// Clock returns the current clock.
func (b *Bank) Clock() Clock {
	b.mu.Lock()
	defer b.mu.Unlock()
	return newClock(b.slot, b.cfg.SlotsPerEpoch)
}

// WarpToSlot moves the bank to slot. Slots never go backwards.
func (b *Bank) WarpToSlot(slot uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slot < b.slot {
		return errors.Errorf("cannot warp back from slot %d to %d", b.slot, slot)
	}
	if err := b.db.saveSlot(slot); err != nil {
		return err
	}
	b.slot = slot
	metricSlot().Set(int64(slot))
	return nil
}

// WarpToEpoch moves the bank to the first slot of epoch.
func (b *Bank) WarpToEpoch(epoch uint64) error {
	return b.WarpToSlot(epoch * b.cfg.SlotsPerEpoch)
}

// AdvanceSlots moves the bank forward by n slots.
func (b *Bank) AdvanceSlots(n uint64) error {
	return b.WarpToSlot(b.Clock().Slot + n)
}

// GetAccount returns the account stored at key, or an empty system account.
func (b *Bank) GetAccount(key solana.PublicKey) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok, err := b.db.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewAccount(), nil
	}
	return acc, nil
}

// SetAccount overwrites the account stored at key. It is meant for genesis
// and test fixtures.
func (b *Bank) SetAccount(key solana.PublicKey, acc *Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.Commit(map[solana.PublicKey]*Account{key: acc.Clone()})
}

// Airdrop credits lamports to key out of thin air.
func (b *Bank) Airdrop(key solana.PublicKey, lamports uint64) error {
	acc, err := b.GetAccount(key)
	if err != nil {
		return err
	}
	acc.Lamports += lamports
	return b.SetAccount(key, acc)
}

// Accounts iterates accounts owned by owner until fn returns false.
func (b *Bank) Accounts(owner solana.PublicKey, fn func(key solana.PublicKey, acc *Account) bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.Iterate(func(key solana.PublicKey, acc *Account) bool {
		if acc.Owner != owner {
			return true
		}
		return fn(key, acc)
	})
}

// Process executes the transaction and commits its effects. On error nothing
// is committed; the receipt still carries the logs emitted so far.
func (b *Bank) Process(tx *Transaction) (*Receipt, error) {
	return b.run(tx, true)
}

// Simulate executes the transaction and discards its effects.
func (b *Bank) Simulate(tx *Transaction) (*Receipt, error) {
	return b.run(tx, false)
}

func (b *Bank) run(tx *Transaction, commit bool) (receipt *Receipt, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metricTransactions().AddWithLabel(1, map[string]string{"result": result})
		metricTxDuration().Observe(time.Since(start).Microseconds())
	}()

	receipt = &Receipt{Slot: b.slot}
	if len(tx.Instructions) == 0 {
		return receipt, ErrEmptyTransaction
	}

	signed := make(map[solana.PublicKey]bool, len(tx.Signers))
	for _, s := range tx.Signers {
		signed[s] = true
	}

	working := stackedmap.New(b.db.Get)
	clock := newClock(b.slot, b.cfg.SlotsPerEpoch)

	for i, ix := range tx.Instructions {
		working.Push()
		if err := b.runInstruction(working, clock, signed, ix, &receipt.Logs); err != nil {
			logger.Debug("transaction failed", "slot", b.slot, "instruction", i, "err", err)
			return receipt, errors.WithMessagef(err, "instruction %d", i)
		}
	}
	if !commit {
		return receipt, nil
	}

	changes := make(map[solana.PublicKey]*Account)
	working.Journal(func(key solana.PublicKey, acc *Account) bool {
		changes[key] = acc
		return true
	})
	if err := b.db.Commit(changes); err != nil {
		return receipt, err
	}
	return receipt, nil
}

func (b *Bank) runInstruction(
	working *stackedmap.StackedMap[solana.PublicKey, *Account],
	clock Clock,
	signed map[solana.PublicKey]bool,
	ix solana.Instruction,
	logs *[]string,
) error {
	ctx := &InvokeContext{
		bank:      b,
		programID: ix.ProgramID(),
		clock:     clock,
		accounts:  make(map[solana.PublicKey]*frameAccount),
		logs:      logs,
	}

	infos := make([]*AccountInfo, 0, len(ix.Accounts()))
	for _, meta := range ix.Accounts() {
		if meta.IsSigner && !signed[meta.PublicKey] {
			return errors.Wrapf(ErrMissingSignature, "%v", meta.PublicKey)
		}
		fa, ok := ctx.accounts[meta.PublicKey]
		if !ok {
			acc, found, err := working.Get(meta.PublicKey)
			if err != nil {
				return err
			}
			if !found {
				acc = NewAccount()
			}
			fa = &frameAccount{info: &AccountInfo{Key: meta.PublicKey, Account: acc.Clone()}}
			ctx.accounts[meta.PublicKey] = fa
		}
		fa.info.IsSigner = fa.info.IsSigner || meta.IsSigner
		fa.info.IsWritable = fa.info.IsWritable || meta.IsWritable

		infos = append(infos, &AccountInfo{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    fa.info.Account,
		})
	}
	ctx.snapshot()

	data, err := ix.Data()
	if err != nil {
		return errors.Wrap(err, "instruction data")
	}
	if err := b.execute(ctx, infos, data); err != nil {
		return err
	}

	for key, fa := range ctx.accounts {
		if fa.info.IsWritable {
			working.Put(key, fa.info.Account.Clone())
		}
	}
	return nil
}

// execute runs the program of ctx and verifies the account rules afterwards.
func (b *Bank) execute(ctx *InvokeContext, infos []*AccountInfo, data []byte) error {
	program, ok := b.programs[ctx.programID]
	if !ok {
		return errors.Wrapf(ErrUnknownProgram, "%v", ctx.programID)
	}
	if err := program.Process(ctx, infos, data); err != nil {
		return err
	}
	return ctx.verify(ctx.depth == 0)
}
