// Command vibectl operates a vibe ledger stored under a data directory.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libvibe-go/config"
)

// PasswordEnv supplies the wallet password when --password is not given.
const PasswordEnv = "VIBE_PASSWORD"

type globalFlags struct {
	DataDir  string
	Password string
	LogLevel string
}

func newRootCmd() *cobra.Command {
	g := new(globalFlags)
	cmd := &cobra.Command{
		Use:           "vibectl",
		Short:         "Operate a reflection-fee token ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.DataDir, "data-dir", "d", config.DefaultDataDir(), "Directory holding the configuration, wallet and ledger database")
	cmd.PersistentFlags().StringVar(&g.Password, "password", os.Getenv(PasswordEnv), "Wallet password (default $"+PasswordEnv+")")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(
		newWalletCmd(g),
		newLedgerCmd(g),
		newTransferCmd(g),
		newApproveCmd(g),
		newClaimCmd(g),
		newAdminCmd(g),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
