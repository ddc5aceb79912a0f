package config

import (
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BUNDLEBASE_DOCUMENTS", filepath.Join(dir, "docs"))
	t.Setenv("BUNDLEBASE_CACHES", filepath.Join(dir, "caches"))
	t.Setenv("BUNDLEBASE_LEDGER", "badger")
	t.Setenv("BUNDLEBASE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "docs"), cfg.Documents)
	assert.Equal(t, filepath.Join(dir, "caches"), cfg.Caches)
	assert.Equal(t, LedgerBadger, cfg.Ledger)
	assert.Equal(t, filepath.Join(dir, "docs", ".ledger"), cfg.LedgerDir)
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestLoadRejectsUnknownLedger(t *testing.T) {
	t.Setenv("BUNDLEBASE_DOCUMENTS", t.TempDir())
	t.Setenv("BUNDLEBASE_LEDGER", "sqlite")
	_, err := Load()
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg := Default()
	assert.Equal(t, "/data/bundlebase/documents", cfg.Documents)
	assert.Equal(t, "/data/bundlebase/ledger", cfg.LedgerDir)
	assert.NotEmpty(t, cfg.Caches)
	require.NoError(t, cfg.Validate())
}

func TestValidateMessages(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "chatty"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")

	cfg = Default()
	cfg.Ledger = "sqlite"
	assert.EqualError(t, cfg.Validate(), `unknown ledger backend "sqlite"`)
}
