// Package config loads bundlebase settings from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Prefix is prepended to every environment variable name, e.g.
// BUNDLEBASE_DOCUMENTS.
const Prefix = "BUNDLEBASE"

// Ledger backends.
const (
	LedgerFile   = "file"
	LedgerBadger = "badger"
)

// Config holds the storage roots and the ledger backend.
type Config struct {
	Documents string `envconfig:"DOCUMENTS"`
	Caches    string `envconfig:"CACHES"`
	Ledger    string `envconfig:"LEDGER" default:"file"`
	LedgerDir string `envconfig:"LEDGER_DIR"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment and fills in
// defaults for unset roots.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when the environment sets
// nothing.
func Default() *Config {
	cfg := &Config{Ledger: LedgerFile, LogLevel: "info"}
	cfg.fill()
	return cfg
}

// Validate checks the fields that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Ledger {
	case LedgerFile, LedgerBadger:
	default:
		return errors.Errorf("unknown ledger backend %q", c.Ledger)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// Level returns the configured logrus level, defaulting to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (c *Config) fill() {
	if c.Documents == "" {
		c.Documents = filepath.Join(dataHome(), "bundlebase", "documents")
		if c.LedgerDir == "" {
			c.LedgerDir = filepath.Join(dataHome(), "bundlebase", "ledger")
		}
	}
	if c.LedgerDir == "" {
		c.LedgerDir = filepath.Join(c.Documents, ".ledger")
	}
	if c.Caches == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		c.Caches = filepath.Join(dir, "bundlebase")
	}
}

// dataHome follows the XDG base directory convention.
func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".local", "share")
}
