package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/config"
)

func TestLoadProfileEmptyPath(t *testing.T) {
	p, err := config.LoadProfile("")

	require.NoError(t, err)
	assert.Empty(t, p.Aliases)
	assert.Equal(t, domain.DefaultNamedAccounts(), p.Accounts)
}

func TestLoadProfileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := []byte(`
aliases:
  date: ["Dt Mov"]
  amount: ["Vlr"]
accounts:
  tax: "Impostos - ICMS"
  top_n: 10
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	p, err := config.LoadProfile(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Dt Mov"}, p.Aliases["date"])
	assert.Equal(t, []string{"Vlr"}, p.Aliases["amount"])
	assert.Equal(t, "Impostos - ICMS", p.Accounts.Tax)
	assert.Equal(t, 10, p.Accounts.TopN)
	assert.Equal(t, domain.DefaultNamedAccounts().Revenue, p.Accounts.Revenue)
	assert.Equal(t, domain.DefaultNamedAccounts().Purchases, p.Accounts.Purchases)
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := config.LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = config.ParseProfile([]byte("aliases: [unclosed"))
	assert.Error(t, err)
}
