package main

import (
	"errors"
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libvibe-go/config"
	"github.com/bitfsorg/libvibe-go/ledger"
	"github.com/bitfsorg/libvibe-go/metrics"
)

func newLedgerCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Create and inspect the ledger",
	}

	cmdInit := &cobra.Command{
		Use:   "init",
		Short: "Create the ledger from the configuration, owned by the operator key",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			return ledgerInit(e)
		}),
	}

	cmdInfo := &cobra.Command{
		Use:   "info",
		Short: "Print ledger parameters and state",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			return e.withLedger(false, func(l *ledger.Ledger) error {
				d := l.Decimals()
				rates, limits := l.FeeRates(), l.Limits()
				tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "Name\t%s (%s)\n", l.Name(), l.Symbol())
				fmt.Fprintf(tw, "Decimals\t%d\n", d)
				fmt.Fprintf(tw, "Total supply\t%s\n", formatAmount(l.TotalSupply(), d))
				fmt.Fprintf(tw, "Owner\t%s\n", l.Owner())
				fmt.Fprintf(tw, "Treasury\t%s\n", l.Treasury())
				fmt.Fprintf(tw, "Custody\t%s\n", l.Custody())
				fmt.Fprintf(tw, "Trading\t%s\n", onOff(l.TradingEnabled()))
				fmt.Fprintf(tw, "Fees\t%s (burn %d, treasury %d, reflect %d bps)\n",
					onOff(l.FeesEnabled()), rates.BurnBps, rates.TreasuryBps, rates.ReflectBps)
				fmt.Fprintf(tw, "Max transfer\t%s\n", formatAmount(&limits.MaxTx, d))
				fmt.Fprintf(tw, "Max wallet\t%s\n", formatAmount(&limits.MaxWallet, d))
				fmt.Fprintf(tw, "Cooldown\t%s\n", time.Duration(limits.CooldownSeconds)*time.Second)
				fmt.Fprintf(tw, "Dividend threshold\t%s\n", formatAmount(l.MinTokensForDividends(), d))
				fmt.Fprintf(tw, "Holders\t%d\n", l.HolderCount())
				fmt.Fprintf(tw, "Eligible supply\t%s\n", formatAmount(l.TotalEligibleSupply(), d))
				fmt.Fprintf(tw, "Unclaimed reflections\t%s\n", formatAmount(l.BalanceOf(l.Custody()), d))
				fmt.Fprintf(tw, "Pending reflections\t%s\n", formatAmount(l.UnclaimedPool(), d))
				fmt.Fprintf(tw, "Height\t%d\n", l.Height())
				return tw.Flush()
			})
		}),
	}

	cmdBalance := &cobra.Command{
		Use:   "balance <account>",
		Short: "Print an account's balance and flags",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(e *env, args []string) error {
			addr, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			return e.withLedger(false, func(l *ledger.Ledger) error {
				f := l.Flags(addr)
				fmt.Fprintf(e.out, "%s %s %s\n", addr, formatAmount(l.BalanceOf(addr), l.Decimals()), l.Symbol())
				fmt.Fprintf(e.out, "blacklisted=%t fee-exempt=%t limit-exempt=%t holder=%t\n",
					f.Blacklisted, f.FeeExempt, f.LimitExempt, l.IsHolder(addr))
				return nil
			})
		}),
	}

	cmdHolders := &cobra.Command{
		Use:   "holders",
		Short: "List reflection-eligible holders in registry order",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			return e.withLedger(false, func(l *ledger.Ledger) error {
				for i := 0; i < l.HolderCount(); i++ {
					a, err := l.HolderAt(i)
					if err != nil {
						return err
					}
					fmt.Fprintf(e.out, "%d\t%s\t%s\n", i, a, formatAmount(l.BalanceOf(a), l.Decimals()))
				}
				return nil
			})
		}),
	}

	cmdOwing := &cobra.Command{
		Use:   "owing <account>",
		Short: "Print the reflections an account can claim",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(e *env, args []string) error {
			addr, err := e.resolve(args[0])
			if err != nil {
				return err
			}
			return e.withLedger(false, func(l *ledger.Ledger) error {
				fmt.Fprintf(e.out, "%s %s\n", formatAmount(l.DividendsOwing(addr), l.Decimals()), l.Symbol())
				return nil
			})
		}),
	}

	cmdHistory := &cobra.Command{
		Use:   "history",
		Short: "List the heights of saved snapshots",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			store, err := ledger.OpenBoltStore(e.ledgerPath())
			if err != nil {
				return err
			}
			defer store.Close()
			heights, err := store.Heights()
			if err != nil {
				return err
			}
			for _, h := range heights {
				fmt.Fprintln(e.out, h)
			}
			return nil
		}),
	}

	var flagServe struct{ Listen string }
	cmdServeMetrics := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve ledger gauges for Prometheus",
		Args:  cobra.NoArgs,
		RunE: runE(g, func(e *env, _ []string) error {
			return e.withLedger(false, func(l *ledger.Ledger) error {
				c := metrics.NewCollector("")
				c.WatchLedger("", l)
				mux := http.NewServeMux()
				mux.Handle("/metrics", c.Handler())
				e.log.Info().Str("listen", flagServe.Listen).Msg("serving metrics")
				return http.ListenAndServe(flagServe.Listen, mux)
			})
		}),
	}
	cmdServeMetrics.Flags().StringVar(&flagServe.Listen, "listen", "127.0.0.1:9464", "Listen address")

	cmd.AddCommand(cmdInit, cmdInfo, cmdBalance, cmdHolders, cmdOwing, cmdHistory, cmdServeMetrics)
	return cmd
}

func ledgerInit(e *env) error {
	store, err := ledger.OpenBoltStore(e.ledgerPath())
	if err != nil {
		return err
	}
	defer store.Close()
	if _, err := store.Load(); err == nil {
		return fmt.Errorf("ledger already initialized in %s", e.ledgerPath())
	} else if !errors.Is(err, ledger.ErrSnapshotNotFound) {
		return err
	}

	w, _, err := e.openWallet()
	if err != nil {
		return err
	}
	op, err := w.OperatorKey()
	if err != nil {
		return err
	}
	owner, err := op.Address()
	if err != nil {
		return err
	}

	cfg := e.cfg
	if !cfg.Ledger.HasRecipients() {
		if cfg.Ledger.Recipients, err = w.Plan(); err != nil {
			return err
		}
	}
	g, err := cfg.Ledger.Genesis(owner)
	if err != nil {
		return err
	}
	l, err := ledger.New(g, ledger.WithLogger(e.log))
	if err != nil {
		return err
	}
	if err := store.Save(l.Snapshot()); err != nil {
		return err
	}
	if err := config.SaveConfig(config.ConfigPath(cfg.DataDir), cfg); err != nil {
		return err
	}

	e.ok("ledger %s created: %s %s owned by %s", l.Name(), formatAmount(l.TotalSupply(), l.Decimals()), l.Symbol(), owner)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
