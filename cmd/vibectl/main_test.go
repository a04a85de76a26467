package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/config"
	"github.com/bitfsorg/libvibe-go/ledger"
	"github.com/bitfsorg/libvibe-go/wallet"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPassword = "correct horse"
)

// vibectl runs one command line against dir and returns its stdout.
func vibectl(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-dir", dir, "--password", testPassword}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := vibectl(t, dir, args...)
	require.NoError(t, err, "vibectl %v", args)
	return out
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, "wallet", "init", "--mnemonic", testMnemonic)
	mustRun(t, dir, "ledger", "init")
	return dir
}

// --- Wallet ---

func TestWalletInit(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "wallet", "init", "--mnemonic", testMnemonic)
	assert.Contains(t, out, "wallet created")
	assert.NotContains(t, out, testMnemonic)
	assert.FileExists(t, filepath.Join(dir, walletDir, wallet.SeedFile))

	_, err := vibectl(t, dir, "wallet", "init", "--mnemonic", testMnemonic)
	assert.ErrorIs(t, err, wallet.ErrAlreadyInitialized)
}

func TestWalletInit_Generated(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "wallet", "init", "--words", "24")
	assert.Contains(t, out, "Mnemonic")
}

func TestWalletInit_NoPassword(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--data-dir", t.TempDir(), "--password", "", "wallet", "init"})
	assert.Error(t, cmd.Execute())
}

func TestWalletAccounts(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "wallet", "init", "--mnemonic", testMnemonic)

	out := mustRun(t, dir, "wallet", "address")
	assert.Contains(t, out, "m/44'/236'/0'/0/0")

	mustRun(t, dir, "wallet", "new-account", "alice")
	out = mustRun(t, dir, "wallet", "address", "alice")
	assert.Contains(t, out, "m/44'/236'/10'/0/0")

	_, err := vibectl(t, dir, "wallet", "new-account", "alice")
	assert.ErrorIs(t, err, wallet.ErrAccountExists)
	_, err = vibectl(t, dir, "wallet", "new-account", "treasury")
	assert.Error(t, err)

	out = mustRun(t, dir, "wallet", "accounts")
	for _, name := range []string{"operator", "fair-launch", "team", "alice"} {
		assert.Contains(t, out, name)
	}
}

func TestWallet_WrongPassword(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "wallet", "init", "--mnemonic", testMnemonic)

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--data-dir", dir, "--password", "wrong", "wallet", "address"})
	assert.ErrorIs(t, cmd.Execute(), wallet.ErrDecryptionFailed)
}

// --- Ledger ---

func TestLedgerInit(t *testing.T) {
	dir := setup(t)
	assert.FileExists(t, filepath.Join(dir, ledgerFile))
	assert.FileExists(t, config.ConfigPath(dir))

	cfg, err := config.LoadConfig(config.ConfigPath(dir))
	require.NoError(t, err)
	assert.True(t, cfg.Ledger.HasRecipients(), "wallet plan is written back to the config")

	_, err = vibectl(t, dir, "ledger", "init")
	assert.ErrorContains(t, err, "already initialized")

	out := mustRun(t, dir, "ledger", "info")
	assert.Contains(t, out, "Vibe (VIBE)")
	assert.Contains(t, out, "1,000,000,000")
	assert.Contains(t, out, "Trading")

	out = mustRun(t, dir, "ledger", "balance", "fair-launch")
	assert.Contains(t, out, "500,000,000 VIBE")
	assert.Contains(t, out, "fee-exempt=true")
}

func TestLedger_NotInitialized(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "wallet", "init", "--mnemonic", testMnemonic)
	_, err := vibectl(t, dir, "ledger", "info")
	assert.ErrorIs(t, err, ledger.ErrSnapshotNotFound)
}

func TestTransferFlow(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "wallet", "new-account", "alice")
	mustRun(t, dir, "wallet", "new-account", "bob")

	_, err := vibectl(t, dir, "transfer", "alice", "bob", "1")
	assert.ErrorIs(t, err, ledger.ErrPolicyRejection, "trading is off")

	mustRun(t, dir, "admin", "trading", "on")
	mustRun(t, dir, "admin", "limits", "10000000", "20000000", "0")

	mustRun(t, dir, "transfer", "fair-launch", "alice", "1000")
	out := mustRun(t, dir, "ledger", "balance", "alice")
	assert.Contains(t, out, "1,000 VIBE")
	assert.Contains(t, out, "holder=true")

	// 7% fee: 3 burned, 3 to treasury, 1 reflected to alice.
	mustRun(t, dir, "transfer", "alice", "bob", "100")
	assert.Contains(t, mustRun(t, dir, "ledger", "balance", "bob"), "93 VIBE")
	assert.Contains(t, mustRun(t, dir, "ledger", "balance", "treasury"), "200,000,003 VIBE")
	assert.Contains(t, mustRun(t, dir, "ledger", "owing", "alice"), "1 VIBE")

	out = mustRun(t, dir, "claim", "alice")
	assert.Contains(t, out, "claimed 1 VIBE")
	assert.Contains(t, mustRun(t, dir, "ledger", "balance", "alice"), "901 VIBE")

	_, err = vibectl(t, dir, "claim", "alice")
	assert.ErrorIs(t, err, ledger.ErrNothingToClaim)

	_, err = vibectl(t, dir, "transfer", "bob", "alice", "1000")
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	_, err = vibectl(t, dir, "transfer", account.BurnSink.String(), "bob", "3")
	assert.ErrorIs(t, err, ledger.ErrReservedAccount)
	assert.Contains(t, mustRun(t, dir, "ledger", "balance", account.BurnSink.String()), "3 VIBE")

	heights := mustRun(t, dir, "ledger", "history")
	assert.NotEmpty(t, heights)
}

func TestApproveAndSpend(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "wallet", "new-account", "carol")
	mustRun(t, dir, "admin", "trading", "on")

	_, err := vibectl(t, dir, "transfer", "--spender", "carol", "team", "carol", "10")
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	mustRun(t, dir, "approve", "team", "carol", "25")
	mustRun(t, dir, "transfer", "--spender", "carol", "team", "carol", "10")
	assert.Contains(t, mustRun(t, dir, "ledger", "balance", "carol"), "10 VIBE")
}

// --- Admin ---

func TestAdminCommands(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "wallet", "new-account", "mallory")

	mustRun(t, dir, "admin", "fees", "100", "100", "50")
	mustRun(t, dir, "admin", "fees-enabled", "off")
	mustRun(t, dir, "admin", "blacklist", "mallory", "on")
	mustRun(t, dir, "admin", "exclude-limits", "mallory", "on")
	mustRun(t, dir, "admin", "min-dividends", "5")

	out := mustRun(t, dir, "ledger", "info")
	assert.Contains(t, out, "off (burn 100, treasury 100, reflect 50 bps)")
	assert.Contains(t, out, "Dividend threshold")

	out = mustRun(t, dir, "ledger", "balance", "mallory")
	assert.Contains(t, out, "blacklisted=true")
	assert.Contains(t, out, "limit-exempt=true")

	_, err := vibectl(t, dir, "admin", "fees", "600", "600", "0")
	assert.ErrorIs(t, err, ledger.ErrValidation)
	_, err = vibectl(t, dir, "admin", "trading", "sometimes")
	assert.Error(t, err)

	mustRun(t, dir, "admin", "transfer-ownership", "mallory")
	_, err = vibectl(t, dir, "admin", "trading", "on")
	assert.ErrorIs(t, err, ledger.ErrAuthorization)
}

func TestAdminRenounce(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "admin", "renounce-ownership")
	out := mustRun(t, dir, "ledger", "info")
	assert.Contains(t, out, "0x0000000000000000000000000000000000000000")
	_, err := vibectl(t, dir, "admin", "fees-enabled", "on")
	assert.ErrorIs(t, err, ledger.ErrAuthorization)
}
