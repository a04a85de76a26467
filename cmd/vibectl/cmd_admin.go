package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libvibe-go/fee"
	"github.com/bitfsorg/libvibe-go/ledger"
	"github.com/bitfsorg/libvibe-go/policy"
)

func newAdminCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Owner-only ledger settings, signed with the operator key",
	}

	// adminRun restores the ledger, obtains the owner capability and saves
	// after fn succeeds.
	adminRun := func(fn func(e *env, l *ledger.Ledger, a *ledger.Admin, args []string) error) func(*cobra.Command, []string) error {
		return runE(g, func(e *env, args []string) error {
			return e.withLedger(true, func(l *ledger.Ledger) error {
				a, err := e.admin(l)
				if err != nil {
					return err
				}
				return fn(e, l, a, args)
			})
		})
	}

	switchCmd := func(use, short string, set func(a *ledger.Admin, on bool) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " on|off",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: adminRun(func(e *env, _ *ledger.Ledger, a *ledger.Admin, args []string) error {
				on, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				if err := set(a, on); err != nil {
					return err
				}
				e.ok("%s %s", use, onOff(on))
				return nil
			}),
		}
	}

	flagCmd := func(use, short string, set func(a *ledger.Admin, e *env, acct string, on bool) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <account> on|off",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: adminRun(func(e *env, _ *ledger.Ledger, a *ledger.Admin, args []string) error {
				on, err := parseSwitch(args[1])
				if err != nil {
					return err
				}
				if err := set(a, e, args[0], on); err != nil {
					return err
				}
				e.ok("%s %s %s", use, args[0], onOff(on))
				return nil
			}),
		}
	}

	cmdTrading := switchCmd("trading", "Enable or disable trading for non-exempt accounts",
		func(a *ledger.Admin, on bool) error { return a.SetTradingEnabled(on) })
	cmdFeesEnabled := switchCmd("fees-enabled", "Enable or disable fee collection",
		func(a *ledger.Admin, on bool) error { return a.SetFeesEnabled(on) })

	cmdBlacklist := flagCmd("blacklist", "Block or unblock an account",
		func(a *ledger.Admin, e *env, acct string, on bool) error {
			addr, err := e.resolve(acct)
			if err != nil {
				return err
			}
			return a.SetBlacklist(addr, on)
		})
	cmdExcludeFees := flagCmd("exclude-fees", "Exempt an account from fees",
		func(a *ledger.Admin, e *env, acct string, on bool) error {
			addr, err := e.resolve(acct)
			if err != nil {
				return err
			}
			return a.SetExcludedFromFees(addr, on)
		})
	cmdExcludeLimits := flagCmd("exclude-limits", "Exempt an account from transfer limits",
		func(a *ledger.Admin, e *env, acct string, on bool) error {
			addr, err := e.resolve(acct)
			if err != nil {
				return err
			}
			return a.SetExcludedFromLimits(addr, on)
		})

	cmdFees := &cobra.Command{
		Use:   "fees <burn-bps> <treasury-bps> <reflect-bps>",
		Short: fmt.Sprintf("Set the fee split in basis points (total at most %d)", fee.MaxTotalBps),
		Args:  cobra.ExactArgs(3),
		RunE: adminRun(func(e *env, _ *ledger.Ledger, a *ledger.Admin, args []string) error {
			var bps [3]uint16
			for i, s := range args {
				v, err := parseBps(s)
				if err != nil {
					return err
				}
				bps[i] = v
			}
			r := fee.Rates{BurnBps: bps[0], TreasuryBps: bps[1], ReflectBps: bps[2]}
			if err := a.SetFees(r); err != nil {
				return err
			}
			e.ok("fees burn %d, treasury %d, reflect %d bps", r.BurnBps, r.TreasuryBps, r.ReflectBps)
			return nil
		}),
	}

	cmdLimits := &cobra.Command{
		Use:   "limits <max-tx> <max-wallet> <cooldown-seconds>",
		Short: "Set the per-transfer cap, wallet cap and cooldown",
		Args:  cobra.ExactArgs(3),
		RunE: adminRun(func(e *env, l *ledger.Ledger, a *ledger.Admin, args []string) error {
			maxTx, err := parseAmount(args[0], l.Decimals())
			if err != nil {
				return err
			}
			maxWallet, err := parseAmount(args[1], l.Decimals())
			if err != nil {
				return err
			}
			cooldown, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cooldown %q", args[2])
			}
			lim := policy.Limits{MaxTx: *maxTx, MaxWallet: *maxWallet, CooldownSeconds: cooldown}
			if err := a.SetLimits(lim); err != nil {
				return err
			}
			e.ok("limits max-tx %s, max-wallet %s, cooldown %ds",
				formatAmount(maxTx, l.Decimals()), formatAmount(maxWallet, l.Decimals()), cooldown)
			return nil
		}),
	}

	cmdMinDividends := &cobra.Command{
		Use:   "min-dividends <amount>",
		Short: "Set the balance required to earn reflections",
		Args:  cobra.ExactArgs(1),
		RunE: adminRun(func(e *env, l *ledger.Ledger, a *ledger.Admin, args []string) error {
			amt, err := parseAmount(args[0], l.Decimals())
			if err != nil {
				return err
			}
			if err := a.SetMinTokensForDividends(amt); err != nil {
				return err
			}
			e.ok("dividend threshold %s %s", formatAmount(amt, l.Decimals()), l.Symbol())
			return nil
		}),
	}

	cmdTreasury := &cobra.Command{
		Use:   "treasury <account>",
		Short: "Set the account receiving the treasury fee",
		Args:  cobra.ExactArgs(1),
		RunE: adminRun(func(e *env, _ *ledger.Ledger, a *ledger.Admin, args []string) error {
			addr, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.SetTreasury(addr); err != nil {
				return err
			}
			e.ok("treasury %s", addr)
			return nil
		}),
	}

	cmdTransferOwnership := &cobra.Command{
		Use:   "transfer-ownership <account>",
		Short: "Hand the owner role to another account",
		Args:  cobra.ExactArgs(1),
		RunE: adminRun(func(e *env, _ *ledger.Ledger, a *ledger.Admin, args []string) error {
			addr, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.TransferOwnership(addr); err != nil {
				return err
			}
			e.ok("owner %s", addr)
			return nil
		}),
	}

	cmdRenounce := &cobra.Command{
		Use:   "renounce-ownership",
		Short: "Give up the owner role permanently",
		Args:  cobra.NoArgs,
		RunE: adminRun(func(e *env, _ *ledger.Ledger, a *ledger.Admin, _ []string) error {
			if err := a.RenounceOwnership(); err != nil {
				return err
			}
			e.ok("ownership renounced")
			return nil
		}),
	}

	cmd.AddCommand(cmdTrading, cmdFeesEnabled, cmdFees, cmdLimits, cmdBlacklist,
		cmdExcludeFees, cmdExcludeLimits, cmdMinDividends, cmdTreasury,
		cmdTransferOwnership, cmdRenounce)
	return cmd
}
