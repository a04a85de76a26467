package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libvibe-go/wallet"
)

func newWalletCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the operator wallet",
	}

	var flagInit struct {
		Mnemonic   string
		Passphrase string
		Words      int
	}
	cmdInit := &cobra.Command{
		Use:   "init",
		Short: "Create the wallet from a new or given mnemonic",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			if g.Password == "" {
				return fmt.Errorf("a wallet password is required (--password or $%s)", PasswordEnv)
			}
			mnemonic := flagInit.Mnemonic
			generated := mnemonic == ""
			if generated {
				bits := wallet.Mnemonic12Words
				if flagInit.Words == 24 {
					bits = wallet.Mnemonic24Words
				}
				var err error
				if mnemonic, err = wallet.GenerateMnemonic(bits); err != nil {
					return err
				}
			}
			if err := wallet.Init(e.walletPath(), mnemonic, flagInit.Passphrase, g.Password); err != nil {
				return err
			}
			if generated {
				fmt.Fprintln(e.out, "Mnemonic (write it down):")
				fmt.Fprintln(e.out, mnemonic)
			}
			kp, err := e.key("operator")
			if err != nil {
				return err
			}
			addr, err := kp.Address()
			if err != nil {
				return err
			}
			e.ok("wallet created, operator %s", addr)
			return nil
		}),
	}
	cmdInit.Flags().StringVar(&flagInit.Mnemonic, "mnemonic", "", "Restore from this BIP39 mnemonic")
	cmdInit.Flags().StringVar(&flagInit.Passphrase, "passphrase", "", "Optional BIP39 passphrase")
	cmdInit.Flags().IntVar(&flagInit.Words, "words", 12, "Words in a generated mnemonic (12 or 24)")

	cmdAddress := &cobra.Command{
		Use:   "address [name]",
		Short: "Print the address of a wallet account (default operator)",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(g, func(e *env, args []string) error {
			name := "operator"
			if len(args) == 1 {
				name = args[0]
			}
			kp, err := e.key(name)
			if err != nil {
				return err
			}
			addr, err := kp.Address()
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s\t%s\t%s\n", name, addr, kp.Path)
			return nil
		}),
	}

	cmdNewAccount := &cobra.Command{
		Use:   "new-account <name>",
		Short: "Reserve a named wallet account",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(e *env, args []string) error {
			if _, ok := roleAccounts[args[0]]; ok {
				return fmt.Errorf("%q is a reserved account name", args[0])
			}
			w, ws, err := e.openWallet()
			if err != nil {
				return err
			}
			if _, err := ws.CreateAccount(args[0]); err != nil {
				return err
			}
			if err := wallet.SaveState(e.walletPath(), ws); err != nil {
				return err
			}
			kp, err := w.NamedKey(ws, args[0])
			if err != nil {
				return err
			}
			addr, err := kp.Address()
			if err != nil {
				return err
			}
			e.ok("account %s: %s", args[0], addr)
			return nil
		}),
	}

	cmdAccounts := &cobra.Command{
		Use:   "accounts",
		Short: "List wallet accounts",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			_, ws, err := e.openWallet()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(roleAccounts))
			for name := range roleAccounts {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool { return roleAccounts[names[i]] < roleAccounts[names[j]] })
			for _, a := range ws.ListAccounts() {
				names = append(names, a.Name)
			}
			for _, name := range names {
				kp, err := e.key(name)
				if err != nil {
					return err
				}
				addr, err := kp.Address()
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%-12s %s\n", name, addr)
			}
			return nil
		}),
	}

	cmd.AddCommand(cmdInit, cmdAddress, cmdNewAccount, cmdAccounts)
	return cmd
}
