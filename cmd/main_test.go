package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"artisan-dex/config"
	"artisan-dex/core"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func TestPromptConfirm(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirm(strings.NewReader("y\nno\nYES\n"), &out)

	assert.True(t, confirm("first"))
	assert.False(t, confirm("second"))
	assert.True(t, confirm("third"))
	// input exhausted
	assert.False(t, confirm("fourth"))
	assert.Contains(t, out.String(), "second\nApprove? [y/N]: ")
}

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("ARTISAN_STORE_BACKEND", "memory")
	t.Setenv("ARTISAN_WALLET_PRIVATE_KEY", testKey)
	t.Setenv("ARTISAN_REVEAL_DELAY", "0s")
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	return cfg
}

func TestBuildMarket_Memory(t *testing.T) {
	cfg := memoryConfig(t)
	market, cleanup, err := buildMarket(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, market.Wallet().Connected())
	assert.Equal(t, int64(11155111), market.Session().ChainId)

	a, err := market.Create(context.Background(), core.CreateAuctionParams{NftId: "n", MinBid: 2})
	require.NoError(t, err)
	bid, err := market.RevealAuction(context.Background(), a.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(2), bid)
}

func TestBuildMarket_BadKey(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Wallet.PrivateKey = "zz"
	_, _, err := buildMarket(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestRootCommand_List(t *testing.T) {
	memoryConfig(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list", "--tab", "active"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "ID")
	assert.Contains(t, out.String(), "total 0, active 0, closed 0, settled 0")
}

func TestRootCommand_CreateRejected(t *testing.T) {
	memoryConfig(t)

	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetErr(&stderr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"create", "--nft", "punk-1", "--min-bid", "1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Transaction rejected by user")
}

func TestRootCommand_Session(t *testing.T) {
	memoryConfig(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"session"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "contractsChainId:11155111")
	assert.Contains(t, out.String(), "durationDays:30")
}
