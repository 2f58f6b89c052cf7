package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/auditlog"
	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/fees"
	"github.com/conciliador-dev/conciliador/internal/logger"
	"github.com/conciliador-dev/conciliador/internal/model"
)

func newRatesCommand(g *globalOptions) *cobra.Command {
	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage card fee rates",
	}
	ratesCmd.AddCommand(newRatesSetCommand(g))
	ratesCmd.AddCommand(newRatesListCommand(g))
	return ratesCmd
}

func newRatesSetCommand(g *globalOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "set <category> <rate>",
		Short: "Set the fee rate of a category",
		Long: "Set the fee rate of a category from a date on. The rate is a fraction " +
			"(0.033) or a percentage (3.3%). Finishers already loaded are re-annotated.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := model.Category(args[0])
			rate, err := fees.ParseRate(args[1])
			if err != nil {
				return err
			}
			effective, err := dates.ParseISO(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}

			ctx, p, err := openProject(cmd, g)
			if err != nil {
				return err
			}
			defer p.Close()

			updated, err := p.store.SetFeeRate(ctx, model.FeeRate{
				Category:      cat,
				Rate:          rate,
				EffectiveFrom: effective,
			})
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info().
				Str("category", string(cat)).
				Str("rate", rate.String()).
				Int("updated", updated).
				Msg("fee rate set")
			p.audit(auditlog.ActionSetRate, string(cat),
				fmt.Sprintf("rate %s from %s, %d finishers updated", rate, from, updated))

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s from %s (%d finishers updated)\n",
				cat, rate, from, updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day the rate applies (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func newRatesListCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fee rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, p, err := openProject(cmd, g)
			if err != nil {
				return err
			}
			defer p.Close()

			rates, err := p.store.FeeRates(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rates) == 0 {
				fmt.Fprintln(out, "No fee rates set")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tRATE\tFROM")
			for _, r := range rates {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Category, r.Rate, r.EffectiveFrom.Format(dates.ISOFormat))
			}
			return w.Flush()
		},
	}
}
