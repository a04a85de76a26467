package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/config"
	"github.com/bitfsorg/libvibe-go/ledger"
	"github.com/bitfsorg/libvibe-go/logging"
	"github.com/bitfsorg/libvibe-go/wallet"
)

const (
	walletDir  = "wallet"
	ledgerFile = "ledger.db"
)

// Account names resolved against the wallet's fixed accounts.
var roleAccounts = map[string]uint32{
	"operator":    wallet.OperatorAccount,
	"treasury":    wallet.TreasuryAccount,
	"staking":     wallet.StakingAccount,
	"fair-launch": wallet.FairLaunchAccount,
	"influencer":  wallet.InfluencerAccount,
	"team":        wallet.TeamAccount,
}

// env is what one command invocation works with.
type env struct {
	g      *globalFlags
	cfg    config.Config
	cfgNew bool
	log    zerolog.Logger
	out    io.Writer
	closer io.Closer

	w  *wallet.Wallet
	ws *wallet.State
}

func loadEnv(cmd *cobra.Command, g *globalFlags) (*env, error) {
	cfg, err := config.LoadConfig(config.ConfigPath(g.DataDir))
	cfgNew := errors.Is(err, config.ErrConfigNotFound)
	if err != nil && !cfgNew {
		return nil, err
	}
	cfg.DataDir = g.DataDir
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	e := &env{g: g, cfg: cfg, cfgNew: cfgNew, out: cmd.OutOrStdout()}

	var w io.Writer = cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		w, e.closer = f, f
	}
	e.log, err = logging.New(w, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

// runE wraps fn with environment setup.
func runE(g *globalFlags, fn func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, g)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(e, args)
	}
}

func (e *env) walletPath() string { return filepath.Join(e.cfg.DataDir, walletDir) }
func (e *env) ledgerPath() string { return filepath.Join(e.cfg.DataDir, ledgerFile) }

func (e *env) openWallet() (*wallet.Wallet, *wallet.State, error) {
	if e.w == nil {
		w, ws, err := wallet.Open(e.walletPath(), e.g.Password)
		if err != nil {
			return nil, nil, err
		}
		e.w, e.ws = w, ws
	}
	return e.w, e.ws, nil
}

// key derives the wallet key called name: a fixed role or a named account.
func (e *env) key(name string) (*wallet.KeyPair, error) {
	w, ws, err := e.openWallet()
	if err != nil {
		return nil, err
	}
	if acct, ok := roleAccounts[name]; ok {
		return w.DeriveKey(acct, 0)
	}
	return w.NamedKey(ws, name)
}

// resolve turns a hex address or a wallet account name into an address.
func (e *env) resolve(arg string) (account.Address, error) {
	if a, err := account.Parse(arg); err == nil {
		return a, nil
	}
	kp, err := e.key(arg)
	if err != nil {
		return account.Zero, fmt.Errorf("resolve %q: %w", arg, err)
	}
	return kp.Address()
}

// withLedger restores the latest snapshot, runs fn and, when save is set,
// persists the result.
func (e *env) withLedger(save bool, fn func(l *ledger.Ledger) error) error {
	store, err := ledger.OpenBoltStore(e.ledgerPath())
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Load()
	if errors.Is(err, ledger.ErrSnapshotNotFound) {
		return fmt.Errorf("ledger not initialized, run `vibectl ledger init`: %w", err)
	}
	if err != nil {
		return err
	}
	l, err := ledger.Restore(snap, ledger.WithLogger(e.log))
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return store.Save(l.Snapshot())
}

// admin issues the owner capability from the operator key.
func (e *env) admin(l *ledger.Ledger) (*ledger.Admin, error) {
	kp, err := e.key("operator")
	if err != nil {
		return nil, err
	}
	return l.Admin(kp.PrivateKey)
}

func (e *env) ok(format string, args ...interface{}) {
	fmt.Fprintln(e.out, color.GreenString("✔"), fmt.Sprintf(format, args...))
}
