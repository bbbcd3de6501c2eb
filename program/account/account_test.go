// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

type small struct {
	Owner solana.PublicKey
	Value uint64
	Flag  bool
}

func (*small) Discriminator() uint8 { return 42 }

type large struct {
	Counter uint64
	Blob    [3 * tiprouter.MaxReallocBytes]byte
}

func (*large) Discriminator() uint8 { return 43 }

func TestCodec(t *testing.T) {
	assert.Equal(t, HeaderLen+32+8+1, Size(&small{}))

	in := &small{Owner: solana.NewWallet().PublicKey(), Value: 7, Flag: true}
	data, err := Encode(in)
	require.NoError(t, err)
	assert.Len(t, data, Size(in))
	assert.Equal(t, byte(42), data[0])
	assert.Equal(t, make([]byte, 7), data[1:HeaderLen])

	var out small
	require.NoError(t, Decode(data, &out))
	assert.Equal(t, *in, out)

	data[0] = 43
	assert.ErrorIs(t, Decode(data, &out), reverts.ErrInvalidDiscriminator)
	assert.ErrorIs(t, Decode(data[:10], &out), reverts.ErrInvalidAccountData)
}

func TestLoad(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	data, err := Encode(&small{Value: 9})
	require.NoError(t, err)

	info := &host.AccountInfo{
		Key:     solana.NewWallet().PublicKey(),
		Account: &host.Account{Owner: program, Data: data},
	}
	got, err := Load[small](info, program, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Value)

	_, err = Load[small](info, program, true)
	assert.ErrorIs(t, err, reverts.ErrAccountNotWritable)

	_, err = Load[small](info, solana.SystemProgramID, false)
	assert.ErrorIs(t, err, reverts.ErrInvalidAccountOwner)

	_, err = Load[large](info, program, false)
	assert.ErrorIs(t, err, reverts.ErrInvalidAccountData)
}

func TestReallocsNeeded(t *testing.T) {
	assert.Equal(t, 0, ReallocsNeeded(100))
	assert.Equal(t, 0, ReallocsNeeded(tiprouter.MaxReallocBytes))
	assert.Equal(t, 1, ReallocsNeeded(tiprouter.MaxReallocBytes+1))
	assert.Equal(t, 1, ReallocsNeeded(2*tiprouter.MaxReallocBytes))
	assert.Equal(t, 3, ReallocsNeeded(Size(&large{})))
}

var (
	testProgramID = solana.NewWallet().PublicKey()
	testNcn       = solana.NewWallet().PublicKey()
)

// payerProgram creates (op 0) or grows (op 1) a large account keyed by ncn.
func payerProgram(ctx *host.InvokeContext, accounts []*host.AccountInfo, data []byte) error {
	if err := Expect(accounts, 2); err != nil {
		return err
	}
	payer, err := NewPayer(ctx, accounts[0], testNcn)
	if err != nil {
		return err
	}
	target := accounts[1]
	var full bool
	if data[0] == 0 {
		full, err = payer.Create(target, Size(&large{}), []byte("large"), testNcn[:])
	} else {
		full, err = payer.Realloc(target, Size(&large{}))
	}
	if err != nil {
		return err
	}
	if full && !IsInitialized(target) {
		return Store(target, &large{Counter: 1})
	}
	return nil
}

func TestPayerCreateAndRealloc(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	bank, err := host.NewBank(db, host.DefaultConfig())
	require.NoError(t, err)
	bank.RegisterProgram(testProgramID, host.ProgramFunc(payerProgram))

	payer, _ := FindAddress(testProgramID, PayerSeeds(testNcn)...)
	target, _ := FindAddress(testProgramID, []byte("large"), testNcn[:])
	require.NoError(t, bank.Airdrop(payer, 10_000_000_000))

	run := func(op byte) error {
		ix := solana.NewInstruction(testProgramID, solana.AccountMetaSlice{
			solana.Meta(payer).WRITE(),
			solana.Meta(target).WRITE(),
			solana.Meta(solana.SystemProgramID),
		}, []byte{op})
		_, err := bank.Process(host.NewTransaction(nil, ix))
		return err
	}

	require.NoError(t, run(0))
	acc, err := bank.GetAccount(target)
	require.NoError(t, err)
	assert.Len(t, acc.Data, tiprouter.MaxReallocBytes)
	assert.Equal(t, testProgramID, acc.Owner)

	assert.ErrorIs(t, run(0), reverts.ErrAccountAlreadyInitialized)

	for range ReallocsNeeded(Size(&large{})) {
		require.NoError(t, run(1))
	}
	acc, err = bank.GetAccount(target)
	require.NoError(t, err)
	assert.Len(t, acc.Data, Size(&large{}))
	assert.Equal(t, bank.Rent().MinimumBalance(Size(&large{})), acc.Lamports)

	info := &host.AccountInfo{Key: target, Account: acc}
	got, err := Load[large](info, testProgramID, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Counter)

	// further reallocs are no-ops
	require.NoError(t, run(1))
}

func TestPayerAdoptsFundedAccount(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	bank, err := host.NewBank(db, host.DefaultConfig())
	require.NoError(t, err)
	bank.RegisterProgram(testProgramID, host.ProgramFunc(payerProgram))

	payer, _ := FindAddress(testProgramID, PayerSeeds(testNcn)...)
	target, _ := FindAddress(testProgramID, []byte("large"), testNcn[:])
	require.NoError(t, bank.Airdrop(payer, 10_000_000_000))
	// lamports sent before the account exists
	require.NoError(t, bank.Airdrop(target, 5_000))

	run := func(op byte) error {
		ix := solana.NewInstruction(testProgramID, solana.AccountMetaSlice{
			solana.Meta(payer).WRITE(),
			solana.Meta(target).WRITE(),
			solana.Meta(solana.SystemProgramID),
		}, []byte{op})
		_, err := bank.Process(host.NewTransaction(nil, ix))
		return err
	}

	require.NoError(t, run(0))
	acc, err := bank.GetAccount(target)
	require.NoError(t, err)
	assert.Equal(t, testProgramID, acc.Owner)
	assert.Len(t, acc.Data, tiprouter.MaxReallocBytes)
	assert.Equal(t, 5_000+bank.Rent().MinimumBalance(tiprouter.MaxReallocBytes), acc.Lamports)

	assert.ErrorIs(t, run(0), reverts.ErrAccountAlreadyInitialized)

	for range ReallocsNeeded(Size(&large{})) {
		require.NoError(t, run(1))
	}
	acc, err = bank.GetAccount(target)
	require.NoError(t, err)
	assert.Len(t, acc.Data, Size(&large{}))
	assert.Equal(t, 5_000+bank.Rent().MinimumBalance(Size(&large{})), acc.Lamports)
}
