package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/auditlog"
	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/logger"
	"github.com/conciliador-dev/conciliador/internal/reconcile"
)

func newReconcileCommand(g *globalOptions) *cobra.Command {
	var (
		from, to string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare settled finishers with statement entries per category and day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			ctx, p, err := openProject(cmd, g)
			if err != nil {
				return err
			}
			defer p.Close()

			if !cmd.Flags().Changed("workers") {
				workers = p.cfg.Reconcile.Workers
			}
			engine, err := reconcile.New(reconcile.Config{
				Store:      p.store,
				Categories: p.rules.Categories(),
				Now:        time.Now,
				Workers:    workers,
			})
			if err != nil {
				return err
			}

			rows, runErr := engine.Run(ctx, start, end)
			mismatched := 0
			for _, v := range rows {
				if !v.Matched() {
					mismatched++
				}
			}
			summary := fmt.Sprintf("%d buckets, %d matched, %d mismatched",
				len(rows), len(rows)-mismatched, mismatched)
			span := start.Format(dates.ISOFormat) + ".." + end.Format(dates.ISOFormat)
			p.audit(auditlog.ActionReconcile, span, summary)
			logger.FromContext(ctx).Info().
				Int("buckets", len(rows)).
				Int("mismatched", mismatched).
				Msg("reconcile finished")

			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %s to %s: %s\n",
				start.Format(dates.ISOFormat), end.Format(dates.ISOFormat), summary)
			return runErr
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day, inclusive (YYYY-MM-DD, default --from)")
	cmd.Flags().IntVar(&workers, "workers", 1, "categories reconciled concurrently (default from config)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

// parseRange parses an inclusive ISO day range. An empty to means the single day from.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := dates.ParseISO(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	if to == "" {
		return start, start, nil
	}
	end, err := dates.ParseISO(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return start, end, nil
}
