// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/allocation"
	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/ledger"
)

func testRecipients() allocation.Plan {
	return allocation.Plan{
		Treasury:   account.Derive("treasury"),
		Staking:    account.Derive("staking"),
		FairLaunch: account.Derive("fair-launch"),
		Influencer: account.Derive("influencer"),
		Team:       account.Derive("team"),
	}
}

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "plain"},
		{"LogFile", cfg.LogFile, ""},
		{"Name", cfg.Ledger.Name, ledger.DefaultName},
		{"Symbol", cfg.Ledger.Symbol, ledger.DefaultSymbol},
		{"Decimals", cfg.Ledger.Decimals, uint8(18)},
		{"TotalSupply", cfg.Ledger.TotalSupply, "1000000000"},
		{"Fees", cfg.Ledger.Fees, fee.DefaultRates},
		{"MaxTxBps", cfg.Ledger.MaxTxBps, uint16(100)},
		{"MaxWalletBps", cfg.Ledger.MaxWalletBps, uint16(200)},
		{"CooldownSeconds", cfg.Ledger.CooldownSeconds, uint64(30)},
		{"MinTokensForDividends", cfg.Ledger.MinTokensForDividends, "1000"},
		{"AllowZeroTransfers", cfg.Ledger.AllowZeroTransfers, true},
		{"Recipients", cfg.Ledger.Recipients, allocation.Plan{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if !strings.HasSuffix(cfg.DataDir, ".vibe") {
		t.Errorf("DataDir = %q, want suffix %q", cfg.DataDir, ".vibe")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	original := DefaultConfig()
	original.DataDir = "/tmp/test-vibe"
	original.LogLevel = "debug"
	original.LogFormat = "json"
	original.LogFile = "/tmp/vibe.log"
	original.Ledger.Decimals = 9
	original.Ledger.TotalSupply = "21000000"
	original.Ledger.Fees = fee.Rates{BurnBps: 100, TreasuryBps: 200, ReflectBps: 300}
	original.Ledger.AllowZeroTransfers = false
	original.Ledger.Recipients = testRecipients()

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded != original {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", FileName)

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveConfig_OutputContainsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Vibe ledger configuration") {
		t.Error("saved config should start with the header comment")
	}
	for _, key := range []string{"data_dir:", "log_level:", "ledger:", "total_supply:", "burn_bps:"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("saved config should contain key %q", key)
		}
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("log_level: [unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig bad yaml: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigBadAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "ledger:\n  recipients:\n    treasury: not-hex\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig bad address: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `# partial file
log_level: debug
ledger:
  symbol: TST
  fees:
    burn_bps: 50
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Ledger.Symbol != "TST" {
		t.Errorf("Symbol = %q, want %q", cfg.Ledger.Symbol, "TST")
	}
	if cfg.Ledger.Fees.BurnBps != 50 {
		t.Errorf("BurnBps = %d, want 50", cfg.Ledger.Fees.BurnBps)
	}
	// Unset fields should retain defaults.
	if cfg.Ledger.Fees.TreasuryBps != 300 {
		t.Errorf("TreasuryBps = %d, want default 300", cfg.Ledger.Fees.TreasuryBps)
	}
	if cfg.Ledger.Name != ledger.DefaultName {
		t.Errorf("Name = %q, want default %q", cfg.Ledger.Name, ledger.DefaultName)
	}
	if cfg.LogFormat != "plain" {
		t.Errorf("LogFormat = %q, want default %q", cfg.LogFormat, "plain")
	}
}

func TestLoadConfigRecipients(t *testing.T) {
	want := testRecipients()
	path := filepath.Join(t.TempDir(), FileName)
	content := "ledger:\n  recipients:\n" +
		"    treasury: " + want.Treasury.String() + "\n" +
		"    staking: " + want.Staking.String() + "\n" +
		"    fair_launch: " + want.FairLaunch.String() + "\n" +
		"    influencer: " + want.Influencer.String() + "\n" +
		"    team: " + want.Team.String() + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Ledger.Recipients != want {
		t.Errorf("Recipients = %+v, want %+v", cfg.Ledger.Recipients, want)
	}
	if !cfg.Ledger.HasRecipients() {
		t.Error("HasRecipients() = false, want true")
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "empty_datadir",
			modify:  func(c *Config) { c.DataDir = "" },
			wantErr: ErrEmptyDataDir,
		},
		{
			name:    "bad_loglevel",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad_logformat",
			modify:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
		{
			name:    "empty_supply",
			modify:  func(c *Config) { c.Ledger.TotalSupply = "" },
			wantErr: ErrInvalidSupply,
		},
		{
			name:    "zero_supply",
			modify:  func(c *Config) { c.Ledger.TotalSupply = "0" },
			wantErr: ErrInvalidSupply,
		},
		{
			name:    "negative_supply",
			modify:  func(c *Config) { c.Ledger.TotalSupply = "-5" },
			wantErr: ErrInvalidSupply,
		},
		{
			name: "supply_overflow",
			modify: func(c *Config) {
				c.Ledger.TotalSupply = "1" + strings.Repeat("0", 60)
				c.Ledger.Decimals = 30
			},
			wantErr: ErrInvalidSupply,
		},
		{
			name:    "too_many_decimals",
			modify:  func(c *Config) { c.Ledger.Decimals = 37 },
			wantErr: ErrInvalidDecimals,
		},
		{
			name:    "fees_too_high",
			modify:  func(c *Config) { c.Ledger.Fees = fee.Rates{BurnBps: 500, TreasuryBps: 500, ReflectBps: 1} },
			wantErr: ErrFeeTooHigh,
		},
		{
			name:    "zero_max_tx",
			modify:  func(c *Config) { c.Ledger.MaxTxBps = 0 },
			wantErr: ErrInvalidLimits,
		},
		{
			name:    "max_wallet_over_100pct",
			modify:  func(c *Config) { c.Ledger.MaxWalletBps = 10_001 },
			wantErr: ErrInvalidLimits,
		},
		{
			name:    "bad_min_tokens",
			modify:  func(c *Config) { c.Ledger.MinTokensForDividends = "lots" },
			wantErr: ErrInvalidMinTokens,
		},
		{
			name:    "partial_recipients",
			modify:  func(c *Config) { c.Ledger.Recipients.Treasury = account.Derive("t") },
			wantErr: ErrIncompleteRecipients,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfig_FirstErrorWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = ""
	cfg.LogLevel = "verbose"
	cfg.Ledger.TotalSupply = "0"
	if err := ValidateConfig(cfg); !errors.Is(err, ErrEmptyDataDir) {
		t.Errorf("ValidateConfig = %v, want ErrEmptyDataDir", err)
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"INFO", "Debug", "WARN", "Error"} {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig with loglevel %q: %v", level, err)
			}
		})
	}
}

func TestValidateConfig_FullRecipients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ledger.Recipients = testRecipients()
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig with recipients: %v", err)
	}
}

// ---------------------------------------------------------------------------
// ConfigPath tests
// ---------------------------------------------------------------------------

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.vibe")
	want := filepath.Join("/home/user/.vibe", "config.yaml")
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// Genesis conversion tests
// ---------------------------------------------------------------------------

func TestGenesis(t *testing.T) {
	lc := DefaultLedgerConfig()
	lc.Decimals = 2
	lc.TotalSupply = "1000000"
	lc.MinTokensForDividends = "10"
	lc.Recipients = testRecipients()
	owner := account.Derive("owner")

	g, err := lc.Genesis(owner)
	if err != nil {
		t.Fatalf("Genesis: %v", err)
	}

	if g.Owner != owner {
		t.Errorf("Owner = %v, want %v", g.Owner, owner)
	}
	if !g.TotalSupply.Eq(uint256.NewInt(100_000_000)) {
		t.Errorf("TotalSupply = %s, want 100000000", g.TotalSupply.Dec())
	}
	if !g.MinTokensForDividends.Eq(uint256.NewInt(1000)) {
		t.Errorf("MinTokensForDividends = %s, want 1000", g.MinTokensForDividends.Dec())
	}
	if g.Limits == nil {
		t.Fatal("Limits not set")
	}
	if !g.Limits.MaxTx.Eq(uint256.NewInt(1_000_000)) {
		t.Errorf("MaxTx = %s, want 1000000", g.Limits.MaxTx.Dec())
	}
	if !g.Limits.MaxWallet.Eq(uint256.NewInt(2_000_000)) {
		t.Errorf("MaxWallet = %s, want 2000000", g.Limits.MaxWallet.Dec())
	}
	if g.Rates != fee.DefaultRates {
		t.Errorf("Rates = %+v, want %+v", g.Rates, fee.DefaultRates)
	}

	l, err := ledger.New(g)
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}
	if l.Symbol() != ledger.DefaultSymbol {
		t.Errorf("Symbol = %q", l.Symbol())
	}
	if !l.BalanceOf(lc.Recipients.FairLaunch).Eq(uint256.NewInt(50_000_000)) {
		t.Errorf("fair launch balance = %s, want 50000000", l.BalanceOf(lc.Recipients.FairLaunch).Dec())
	}
}

func TestGenesis_NoRecipients(t *testing.T) {
	_, err := DefaultLedgerConfig().Genesis(account.Derive("owner"))
	if !errors.Is(err, ErrIncompleteRecipients) {
		t.Errorf("Genesis without recipients: got %v, want ErrIncompleteRecipients", err)
	}
}

func TestGenesis_InvalidConfig(t *testing.T) {
	lc := DefaultLedgerConfig()
	lc.Recipients = testRecipients()
	lc.TotalSupply = "abc"
	_, err := lc.Genesis(account.Derive("owner"))
	if !errors.Is(err, ErrInvalidSupply) {
		t.Errorf("Genesis bad supply: got %v, want ErrInvalidSupply", err)
	}
}
