// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/lvldb"
	"github.com/jito-foundation/jito-tip-router-sub002/program/fixture"
	"github.com/jito-foundation/jito-tip-router-sub002/sim"
)

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TIPROUTER_TEST_ADDR=localhost:9999\n"), 0o600))

	t.Setenv("TIPROUTER_TEST_ADDR", "")
	os.Unsetenv("TIPROUTER_TEST_ADDR")
	require.NoError(t, loadEnv(path))
	assert.Equal(t, "localhost:9999", os.Getenv("TIPROUTER_TEST_ADDR"))

	assert.Error(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestInspectAccounts(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	sc, err := sim.LoadScenario("../../sim/testdata/basic.yaml")
	require.NoError(t, err)
	report, err := sim.Run(context.Background(), sc, sim.Options{Store: db})
	require.NoError(t, err)

	bank, err := fixture.NewBankWithStore(db, host.DefaultConfig())
	require.NoError(t, err)

	all, err := collectAccounts(bank, accountFilter{})
	require.NoError(t, err)

	kinds := map[string]int{}
	for _, pa := range all {
		kinds[pa.Kind]++
		assert.Equal(t, report.Ncn, pa.Ncn)
	}
	assert.Equal(t, 1, kinds["config"])
	assert.Equal(t, 1, kinds["vault_registry"])
	assert.Equal(t, 1, kinds["weight_table"])
	assert.Equal(t, 1, kinds["epoch_snapshot"])
	assert.Equal(t, 2, kinds["operator_snapshot"])
	assert.Equal(t, 1, kinds["ballot_box"])
	assert.Equal(t, 1, kinds["epoch_reward_router"])
	assert.Equal(t, 1, kinds["base_reward_router"])
	assert.Equal(t, 2, kinds["operator_reward_router"])

	epoch := report.Epoch
	ncn := solana.MustPublicKeyFromBase58(report.Ncn)
	scoped, err := collectAccounts(bank, accountFilter{ncn: &ncn, epoch: &epoch})
	require.NoError(t, err)
	assert.Len(t, scoped, len(all)-2)
	for _, pa := range scoped {
		require.NotNil(t, pa.Epoch)
		assert.Equal(t, epoch, *pa.Epoch)
	}

	other := epoch + 1
	none, err := collectAccounts(bank, accountFilter{epoch: &other})
	require.NoError(t, err)
	assert.Empty(t, none)

	var buf bytes.Buffer
	require.NoError(t, writeAccounts(&buf, scoped, "yaml"))
	var out []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out, len(scoped))

	buf.Reset()
	require.NoError(t, writeAccounts(&buf, scoped[:1], "dump"))
	assert.Contains(t, buf.String(), scoped[0].Address)

	assert.Error(t, writeAccounts(&buf, scoped, "json"))
}

func TestWriteReport(t *testing.T) {
	report := &sim.Report{
		Scenario: "basic",
		Epoch:    5,
		Tipped:   10,
		Payouts:  []*sim.Payout{{Recipient: "dao", Lamports: 10}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, ""))
	assert.Contains(t, buf.String(), "scenario: basic")

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, "dump"))
	assert.Contains(t, buf.String(), "basic")

	assert.Error(t, writeReport(&buf, report, "xml"))
}
