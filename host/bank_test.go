// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

const (
	opCreate byte = iota
	opMove
	opWrite
	opGrow
	opCreateUnsigned
)

var testProgramID = solana.NewWallet().PublicKey()

func pda(seed string) (solana.PublicKey, uint8) {
	addr, bump, err := solana.FindProgramAddress([][]byte{[]byte(seed)}, testProgramID)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// testProgram exercises the runtime rules.
func testProgram(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error {
	switch data[0] {
	case opCreate, opCreateUnsigned:
		_, payerBump := pda("payer")
		_, dataBump := pda("data")
		ix := system.NewCreateAccountInstruction(
			ctx.Rent().MinimumBalance(16), 16, testProgramID, accounts[0].Key, accounts[1].Key,
		).Build()
		seeds := [][][]byte{{[]byte("payer"), {payerBump}}}
		if data[0] == opCreate {
			seeds = append(seeds, [][]byte{[]byte("data"), {dataBump}})
		}
		return ctx.Invoke(ix, seeds...)
	case opMove:
		accounts[0].Lamports--
		accounts[1].Lamports++
	case opWrite:
		accounts[0].Data[0] = data[1]
	case opGrow:
		n := binary.LittleEndian.Uint32(data[1:])
		accounts[0].Realloc(len(accounts[0].Data) + int(n))
	}
	return nil
}

func newTestBank(t *testing.T) *Bank {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	bank, err := NewBank(db, DefaultConfig())
	require.NoError(t, err)
	bank.RegisterProgram(testProgramID, ProgramFunc(testProgram))
	return bank
}

func ix(data []byte, metas ...*solana.AccountMeta) solana.Instruction {
	return solana.NewInstruction(testProgramID, metas, data)
}

func TestTransferCommit(t *testing.T) {
	bank := newTestBank(t)
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Airdrop(from, 1_000))

	tx := NewTransaction([]solana.PublicKey{from}, system.NewTransferInstruction(400, from, to).Build())
	_, err := bank.Process(tx)
	require.NoError(t, err)

	acc, err := bank.GetAccount(from)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), acc.Lamports)
	acc, err = bank.GetAccount(to)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), acc.Lamports)
}

func TestFailedTransactionCommitsNothing(t *testing.T) {
	bank := newTestBank(t)
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Airdrop(from, 1_000))

	tx := NewTransaction([]solana.PublicKey{from},
		system.NewTransferInstruction(400, from, to).Build(),
		system.NewTransferInstruction(700, from, to).Build(),
	)
	_, err := bank.Process(tx)
	assert.ErrorIs(t, err, ErrInsufficientLamports)

	acc, err := bank.GetAccount(from)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), acc.Lamports)
	acc, err = bank.GetAccount(to)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
}

func TestMissingSignature(t *testing.T) {
	bank := newTestBank(t)
	from := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Airdrop(from, 1_000))

	tx := NewTransaction(nil, system.NewTransferInstruction(1, from, solana.NewWallet().PublicKey()).Build())
	_, err := bank.Process(tx)
	assert.ErrorIs(t, err, ErrMissingSignature)

	_, err = bank.Process(NewTransaction(nil))
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}

func TestPDASignedCreate(t *testing.T) {
	bank := newTestBank(t)
	payer, _ := pda("payer")
	target, _ := pda("data")
	require.NoError(t, bank.Airdrop(payer, 1_000_000_000))

	metas := []*solana.AccountMeta{
		solana.Meta(payer).WRITE(),
		solana.Meta(target).WRITE(),
		solana.Meta(solana.SystemProgramID),
	}
	receipt, err := bank.Process(NewTransaction(nil, ix([]byte{opCreate}, metas...)))
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Logs)

	acc, err := bank.GetAccount(target)
	require.NoError(t, err)
	assert.Equal(t, testProgramID, acc.Owner)
	assert.Len(t, acc.Data, 16)
	assert.Equal(t, bank.Rent().MinimumBalance(16), acc.Lamports)

	// the program owns the new account, so it may write it
	_, err = bank.Process(NewTransaction(nil, ix([]byte{opWrite, 7}, solana.Meta(target).WRITE())))
	require.NoError(t, err)
	acc, err = bank.GetAccount(target)
	require.NoError(t, err)
	assert.Equal(t, byte(7), acc.Data[0])

	// a second creation hits an account in use
	_, err = bank.Process(NewTransaction(nil, ix([]byte{opCreate}, metas...)))
	assert.ErrorIs(t, err, ErrAccountAlreadyInUse)
}

func TestPrivilegeEscalation(t *testing.T) {
	bank := newTestBank(t)
	payer, _ := pda("payer")
	target, _ := pda("data")
	require.NoError(t, bank.Airdrop(payer, 1_000_000_000))

	_, err := bank.Process(NewTransaction(nil, ix([]byte{opCreateUnsigned},
		solana.Meta(payer).WRITE(),
		solana.Meta(target).WRITE(),
	)))
	assert.ErrorIs(t, err, ErrPrivilegeEscalation)

	// read-only caller account cannot be passed on as writable
	_, err = bank.Process(NewTransaction(nil, ix([]byte{opCreate},
		solana.Meta(payer).WRITE(),
		solana.Meta(target),
	)))
	assert.ErrorIs(t, err, ErrPrivilegeEscalation)
}

func TestAccountRules(t *testing.T) {
	bank := newTestBank(t)
	foreign := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Airdrop(foreign, 1_000))

	_, err := bank.Process(NewTransaction(nil, ix([]byte{opMove},
		solana.Meta(foreign).WRITE(), solana.Meta(other).WRITE())))
	assert.ErrorIs(t, err, ErrExternalLamportSpend)

	owned := solana.NewWallet().PublicKey()
	require.NoError(t, bank.SetAccount(owned, &Account{
		Lamports: bank.Rent().MinimumBalance(4),
		Owner:    testProgramID,
		Data:     make([]byte, 4),
	}))

	_, err = bank.Process(NewTransaction(nil, ix([]byte{opWrite, 1}, solana.Meta(owned))))
	assert.ErrorIs(t, err, ErrReadonlyModified)

	grow := func(n uint32) []byte {
		data := []byte{opGrow, 0, 0, 0, 0}
		binary.LittleEndian.PutUint32(data[1:], n)
		return data
	}
	_, err = bank.Process(NewTransaction(nil, ix(grow(tiprouter.MaxReallocBytes+1), solana.Meta(owned).WRITE())))
	assert.ErrorIs(t, err, ErrInvalidRealloc)

	_, err = bank.Process(NewTransaction(nil, ix(grow(64), solana.Meta(owned).WRITE())))
	assert.ErrorIs(t, err, ErrInsufficientFundsForRent)
}

func TestSimulate(t *testing.T) {
	bank := newTestBank(t)
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	require.NoError(t, bank.Airdrop(from, 10))

	_, err := bank.Simulate(NewTransaction([]solana.PublicKey{from}, system.NewTransferInstruction(10, from, to).Build()))
	require.NoError(t, err)

	acc, err := bank.GetAccount(from)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), acc.Lamports)
}

func TestWarpAndReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SlotsPerEpoch = 32
	bank, err := NewBank(db, cfg)
	require.NoError(t, err)

	require.NoError(t, bank.WarpToEpoch(3))
	assert.Equal(t, Clock{Slot: 96, Epoch: 3, SlotsPerEpoch: 32}, bank.Clock())
	assert.Error(t, bank.WarpToSlot(1))
	require.NoError(t, bank.AdvanceSlots(40))
	assert.Equal(t, uint64(4), bank.Clock().Epoch)

	key := solana.NewWallet().PublicKey()
	require.NoError(t, bank.SetAccount(key, &Account{Lamports: 5, Owner: testProgramID, Data: []byte{1, 2, 3}}))

	reopened, err := NewBank(db, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(136), reopened.Clock().Slot)

	acc, err := reopened.GetAccount(key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, acc.Data)

	var owned []solana.PublicKey
	require.NoError(t, reopened.Accounts(testProgramID, func(k solana.PublicKey, _ *Account) bool {
		owned = append(owned, k)
		return true
	}))
	assert.Equal(t, []solana.PublicKey{key}, owned)
}
