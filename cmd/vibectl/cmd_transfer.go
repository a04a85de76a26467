package main

import (
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/ledger"
)

func newTransferCmd(g *globalFlags) *cobra.Command {
	var spender string
	cmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move tokens between accounts",
		Long: `Move tokens between accounts. Accounts are hex addresses or wallet
account names. With --spender the transfer draws on the allowance the
sender granted to the spender.`,
		Args: cobra.ExactArgs(3),
		RunE: runE(g, func(e *env, args []string) error {
			from, to, err := e.resolvePair(args[0], args[1])
			if err != nil {
				return err
			}
			var sp account.Address
			if spender != "" {
				if sp, err = e.resolve(spender); err != nil {
					return err
				}
			}
			return e.withLedger(true, func(l *ledger.Ledger) error {
				amt, err := parseAmount(args[2], l.Decimals())
				if err != nil {
					return err
				}
				if spender != "" {
					err = l.TransferFrom(sp, from, to, amt)
				} else {
					err = l.Transfer(from, to, amt)
				}
				if err != nil {
					return err
				}
				e.ok("transferred %s %s from %s to %s", formatAmount(amt, l.Decimals()), l.Symbol(), args[0], args[1])
				return nil
			})
		}),
	}
	cmd.Flags().StringVar(&spender, "spender", "", "Spend from an allowance granted to this account")
	return cmd
}

func newApproveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <owner> <spender> <amount>",
		Short: "Set the allowance spender may transfer from owner",
		Args:  cobra.ExactArgs(3),
		RunE: runE(g, func(e *env, args []string) error {
			owner, spender, err := e.resolvePair(args[0], args[1])
			if err != nil {
				return err
			}
			return e.withLedger(true, func(l *ledger.Ledger) error {
				amt, err := parseAmount(args[2], l.Decimals())
				if err != nil {
					return err
				}
				if err := l.Approve(owner, spender, amt); err != nil {
					return err
				}
				e.ok("%s may spend %s %s of %s", args[1], formatAmount(amt, l.Decimals()), l.Symbol(), args[0])
				return nil
			})
		}),
	}
}

func newClaimCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <account>",
		Short: "Pay out an account's accrued reflections",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(e *env, args []string) error {
			addr, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			return e.withLedger(true, func(l *ledger.Ledger) error {
				owing := l.DividendsOwing(addr)
				if err := l.ClaimDividends(addr); err != nil {
					return err
				}
				e.ok("claimed %s %s for %s", formatAmount(owing, l.Decimals()), l.Symbol(), args[0])
				return nil
			})
		}),
	}
}

func (e *env) resolvePair(a, b string) (account.Address, account.Address, error) {
	x, err := e.resolve(a)
	if err != nil {
		return account.Zero, account.Zero, err
	}
	y, err := e.resolve(b)
	if err != nil {
		return account.Zero, account.Zero, err
	}
	return x, y, nil
}
