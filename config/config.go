// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the vibectl YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/allocation"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/ledger"
	"github.com/bitfsorg/libvibe-go/logging"
	"github.com/bitfsorg/libvibe-go/policy"
)

// FileName is the configuration file name inside the data directory.
const FileName = "config.yaml"

const header = "# Vibe ledger configuration\n"

// Config holds the operator settings.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file,omitempty"`

	Ledger LedgerConfig `yaml:"ledger"`
}

// LedgerConfig holds genesis parameters. Amounts are whole tokens written as
// decimal strings; they are scaled by Decimals when the ledger is built.
type LedgerConfig struct {
	Name                  string          `yaml:"name"`
	Symbol                string          `yaml:"symbol"`
	Decimals              uint8           `yaml:"decimals"`
	TotalSupply           string          `yaml:"total_supply"`
	Fees                  fee.Rates       `yaml:"fees"`
	MaxTxBps              uint16          `yaml:"max_tx_bps"`
	MaxWalletBps          uint16          `yaml:"max_wallet_bps"`
	CooldownSeconds       uint64          `yaml:"cooldown_seconds"`
	MinTokensForDividends string          `yaml:"min_tokens_for_dividends"`
	AllowZeroTransfers    bool            `yaml:"allow_zero_transfers"`
	Recipients            allocation.Plan `yaml:"recipients"`
}

// DefaultDataDir returns ~/.vibe, or .vibe when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibe"
	}
	return filepath.Join(home, ".vibe")
}

// DefaultConfig returns the default settings. Recipients are left empty so
// they can be derived from the operator wallet.
func DefaultConfig() Config {
	return Config{
		DataDir:   DefaultDataDir(),
		LogLevel:  "info",
		LogFormat: logging.FormatPlain,
		Ledger:    DefaultLedgerConfig(),
	}
}

// DefaultLedgerConfig mirrors ledger.DefaultGenesis.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		Name:                  ledger.DefaultName,
		Symbol:                ledger.DefaultSymbol,
		Decimals:              ledger.DefaultDecimals,
		TotalSupply:           fmt.Sprint(ledger.DefaultWholeSupply),
		Fees:                  fee.DefaultRates,
		MaxTxBps:              ledger.DefaultMaxTxBps,
		MaxWalletBps:          ledger.DefaultMaxWalletBps,
		CooldownSeconds:       ledger.DefaultCooldownSeconds,
		MinTokensForDividends: fmt.Sprint(ledger.DefaultMinWholeTokens),
		AllowZeroTransfers:    true,
	}
}

// ConfigPath returns the configuration file path for dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	out := append([]byte(header), data...)
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Supply returns the total supply in base units.
func (c LedgerConfig) Supply() (*uint256.Int, error) {
	whole, err := uint256.FromDecimal(c.TotalSupply)
	if err != nil || whole.IsZero() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSupply, c.TotalSupply)
	}
	if c.Decimals > ledger.MaxDecimals {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidDecimals, c.Decimals, ledger.MaxDecimals)
	}
	supply, overflow := new(uint256.Int).MulOverflow(whole, ledger.Unit(c.Decimals))
	if overflow {
		return nil, fmt.Errorf("%w: %s tokens with %d decimals overflows", ErrInvalidSupply, c.TotalSupply, c.Decimals)
	}
	return supply, nil
}

// MinTokens returns the dividend threshold in base units.
func (c LedgerConfig) MinTokens() (*uint256.Int, error) {
	whole, err := uint256.FromDecimal(c.MinTokensForDividends)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMinTokens, c.MinTokensForDividends)
	}
	v, overflow := new(uint256.Int).MulOverflow(whole, ledger.Unit(c.Decimals))
	if overflow {
		return nil, fmt.Errorf("%w: %q overflows", ErrInvalidMinTokens, c.MinTokensForDividends)
	}
	return v, nil
}

// Limits converts the basis-point caps to base units of supply.
func (c LedgerConfig) Limits(supply *uint256.Int) policy.Limits {
	var l policy.Limits
	l.MaxTx.MulDivOverflow(supply, uint256.NewInt(uint64(c.MaxTxBps)), uint256.NewInt(fee.Denominator))
	l.MaxWallet.MulDivOverflow(supply, uint256.NewInt(uint64(c.MaxWalletBps)), uint256.NewInt(fee.Denominator))
	l.CooldownSeconds = c.CooldownSeconds
	return l
}

// HasRecipients reports whether every genesis recipient is set.
func (c LedgerConfig) HasRecipients() bool {
	for _, s := range c.Recipients.Shares() {
		if s.Recipient.IsZero() {
			return false
		}
	}
	return true
}

// Genesis builds ledger parameters owned by owner. Recipients must be set.
func (c LedgerConfig) Genesis(owner account.Address) (ledger.Genesis, error) {
	if err := c.validate(); err != nil {
		return ledger.Genesis{}, err
	}
	if !c.HasRecipients() {
		return ledger.Genesis{}, fmt.Errorf("%w: no recipients", ErrIncompleteRecipients)
	}
	supply, err := c.Supply()
	if err != nil {
		return ledger.Genesis{}, err
	}
	minTokens, err := c.MinTokens()
	if err != nil {
		return ledger.Genesis{}, err
	}
	limits := c.Limits(supply)

	g := ledger.Genesis{
		Name:                  c.Name,
		Symbol:                c.Symbol,
		Decimals:              c.Decimals,
		TotalSupply:           *supply,
		Owner:                 owner,
		Recipients:            c.Recipients,
		Rates:                 c.Fees,
		Limits:                &limits,
		MinTokensForDividends: minTokens,
		AllowZeroTransfers:    c.AllowZeroTransfers,
	}
	return g, nil
}
