package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.toml")
	content := `
title = "test"

[db]
backend = "memdb"

[rpc]
listen = "localhost:0"

[[chain]]
id = "main"

[[chain]]
id = "para"

[lottery]
host_chain = "main"
ticket_price = "0.1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Title)
	require.Len(t, cfg.Chains, 2)
	assert.Equal(t, "para", cfg.Chains[1].ID)
	assert.Equal(t, "main", cfg.Lottery.HostChain)
}

func TestLoadConfigNoChains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.toml")
	require.NoError(t, os.WriteFile(path, []byte(`title = "empty"`), 0o600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestParseCoinAmount(t *testing.T) {
	amount, err := ParseCoinAmount("0.1")
	require.NoError(t, err)
	assert.Equal(t, Coin/10, amount)

	amount, err = ParseCoinAmount("1.5")
	require.NoError(t, err)
	assert.Equal(t, Coin+Coin/2, amount)

	_, err = ParseCoinAmount("0.000000001") // below base unit precision
	assert.Error(t, err)
	_, err = ParseCoinAmount("abc")
	assert.Error(t, err)
	_, err = ParseCoinAmount("-1")
	assert.Error(t, err)
}
