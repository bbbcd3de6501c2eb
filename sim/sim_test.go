// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

const rootX = "0xaa00000000000000000000000000000000000000000000000000000000000001"

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario("testdata/basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "two operators agree", sc.Name)
	assert.Equal(t, uint64(5), sc.Epoch)
	assert.Equal(t, uint16(500), sc.Fees.DaoBps)
	require.Len(t, sc.Operators, 2)
	assert.Equal(t, uint64(200), sc.Operators[1].Stake["main"])
	require.NotNil(t, sc.Operators[0].Vote)
	assert.Equal(t, tiprouter.MustParseBytes32(rootX), *sc.Operators[0].Vote)
	assert.Equal(t, []uint64{600_000_000, 400_000_000}, sc.Tips)
	assert.Equal(t, "2s", sc.VoteInterval.String())
}

func TestParseScenarioErrors(t *testing.T) {
	base := `
fees: {daoBps: 500, epochsBeforeStall: 3}
mints: [{name: m}]
vaults: [{name: v, mint: m}]
`
	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown field", base + "operators: [{name: a, color: red}]"},
		{"unknown vault", base + "operators: [{name: a, stake: {nope: 1}}]"},
		{"duplicate operator", base + "operators: [{name: a}, {name: a}]"},
		{"no operators", base},
		{"zero root", base + "operators: [{name: a, vote: '0x" + zeros(64) + "'}]"},
		{"fee cap", `
fees: {daoBps: 9000, blockEngineBps: 1001, epochsBeforeStall: 3}
mints: [{name: m}]
vaults: [{name: v, mint: m}]
operators: [{name: a}]`},
		{"stall", `
fees: {epochsBeforeStall: 0}
mints: [{name: m}]
vaults: [{name: v, mint: m}]
operators: [{name: a}]`},
		{"unknown mint", `
fees: {epochsBeforeStall: 3}
mints: [{name: m}]
vaults: [{name: v, mint: x}]
operators: [{name: a}]`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func TestRunBasic(t *testing.T) {
	sc, err := LoadScenario("testdata/basic.yaml")
	require.NoError(t, err)

	report, err := Run(context.Background(), sc, Options{Bank: host.DefaultConfig()})
	require.NoError(t, err)

	assert.True(t, report.Consensus)
	assert.False(t, report.TieBroken)
	assert.Equal(t, tiprouter.MustParseBytes32(rootX).Base58(), report.WinningRoot)
	assert.Equal(t, uint64(300), report.StakeWeight)

	require.Len(t, report.Votes, 2)
	assert.True(t, report.Votes[0].Accepted)
	assert.True(t, report.Votes[1].Accepted)
	assert.Equal(t, uint64(100), report.Votes[0].StakeWeight)
	assert.Greater(t, report.Votes[1].Slot, report.Votes[0].Slot)

	assert.Equal(t, uint64(1_000_000_000), report.Tipped)
	assert.Equal(t, uint64(50_000_000), report.Payout("dao"))
	assert.Equal(t, uint64(30_000_000), report.Payout("block_engine"))
	assert.Zero(t, report.Payout("ncn"))
	assert.Equal(t, uint64(30_666_666), report.Payout("operator/alice"))
	assert.Zero(t, report.Payout("operator/bob"))
	assert.Equal(t, uint64(276_000_000+613_333_333), report.Payout("vault/main"))

	assert.Equal(t, uint64(1), report.Undistributed)
	assert.Equal(t, report.Tipped, report.Paid()+report.Undistributed)
}

func TestRunLateVote(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: late vote
fees: {blockEngineBps: 300, daoBps: 500, epochsBeforeStall: 3}
mints: [{name: m}]
vaults: [{name: v, mint: m}]
operators:
  - {name: a, stake: {v: 200}, vote: "` + rootX + `"}
  - {name: b, stake: {v: 100}, vote: "` + rootX + `"}
  - {name: c, stake: {v: 100}, vote: "` + rootX + `"}
tips: [1000000]
`))
	require.NoError(t, err)

	report, err := Run(context.Background(), sc, Options{})
	require.NoError(t, err)

	assert.True(t, report.Consensus)
	require.Len(t, report.Votes, 3)
	assert.True(t, report.Votes[1].Accepted)
	assert.False(t, report.Votes[2].Accepted)
	assert.Equal(t, "consensus already reached", report.Votes[2].Reason)
	assert.Equal(t, report.Tipped, report.Paid()+report.Undistributed)
}

func TestRunTieBreaker(t *testing.T) {
	rootY := "0xbb00000000000000000000000000000000000000000000000000000000000002"
	sc, err := ParseScenario([]byte(`
name: split vote
fees: {blockEngineBps: 300, daoBps: 500, epochsBeforeStall: 1}
mints: [{name: m}]
vaults: [{name: v, mint: m}]
operators:
  - {name: a, stake: {v: 100}, vote: "` + rootX + `"}
  - {name: b, stake: {v: 100}, vote: "` + rootY + `"}
  - {name: c, stake: {v: 100}}
tieBreaker: "` + rootY + `"
tips: [1000000]
`))
	require.NoError(t, err)

	report, err := Run(context.Background(), sc, Options{})
	require.NoError(t, err)

	assert.False(t, report.Consensus)
	assert.True(t, report.TieBroken)
	assert.Equal(t, tiprouter.MustParseBytes32(rootY).Base58(), report.WinningRoot)
	assert.Len(t, report.Votes, 2)

	// only b voted for the winner
	assert.Equal(t, uint64(50_000), report.Payout("dao"))
	assert.Equal(t, uint64(30_000), report.Payout("block_engine"))
	assert.Equal(t, uint64(920_000), report.Payout("vault/v"))
	assert.Zero(t, report.Undistributed)
}

func TestRunWithoutConsensus(t *testing.T) {
	sc, err := ParseScenario([]byte(`
fees: {epochsBeforeStall: 3}
mints: [{name: m}]
vaults: [{name: v, mint: m}]
operators:
  - {name: a, stake: {v: 100}, vote: "` + rootX + `"}
  - {name: b, stake: {v: 300}}
tips: [1000000]
`))
	require.NoError(t, err)

	report, err := Run(context.Background(), sc, Options{})
	require.NoError(t, err)

	assert.False(t, report.Consensus)
	assert.Empty(t, report.WinningRoot)
	assert.Zero(t, report.Tipped)
	assert.Empty(t, report.Payouts)
}

func TestRunOnLevelDB(t *testing.T) {
	sc, err := LoadScenario("testdata/basic.yaml")
	require.NoError(t, err)

	db, err := lvldb.New(t.TempDir(), lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	first, err := Run(context.Background(), sc, Options{Store: db, Bank: host.DefaultConfig()})
	require.NoError(t, err)
	// a second ncn on the same bank ends the same way
	second, err := Run(context.Background(), sc, Options{Store: db, Bank: host.DefaultConfig()})
	require.NoError(t, err)

	assert.NotEqual(t, first.Ncn, second.Ncn)
	assert.Equal(t, first.Payout("vault/main"), second.Payout("vault/main"))
	assert.Equal(t, first.Paid(), second.Paid())

	// the bank cannot go back
	sc.Epoch = 4
	_, err = Run(context.Background(), sc, Options{Store: db, Bank: host.DefaultConfig()})
	assert.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	sc, err := LoadScenario("testdata/basic.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, sc, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
