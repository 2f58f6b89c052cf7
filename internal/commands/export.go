package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/export"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/money"
)

type exportOptions struct {
	from, to   string
	out        string
	mismatched bool
	summary    bool
}

func newExportCommand(g *globalOptions) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reconciliation results as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(opts.from, opts.to)
			if err != nil {
				return err
			}

			ctx, p, err := openProject(cmd, g)
			if err != nil {
				return err
			}
			defer p.Close()

			rows, err := p.store.Verifications(ctx, start, end)
			if err != nil {
				return err
			}
			cur := p.cfg.Currency.Money()

			if opts.summary {
				return writeSummary(cmd.OutOrStdout(), rows, cur)
			}

			var w io.Writer = cmd.OutOrStdout()
			if opts.out != "" {
				f, err := os.Create(opts.out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", opts.out, err)
				}
				defer f.Close()
				w = f
			}
			n, err := export.WriteVerifications(w, rows, export.Options{
				Currency:       cur,
				OnlyMismatched: opts.mismatched,
			})
			if err != nil {
				return err
			}
			if opts.out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d buckets to %s\n", n, opts.out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day, inclusive (YYYY-MM-DD, default --from)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.mismatched, "mismatched", false, "only buckets whose totals differ")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print per-category totals instead of CSV")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func writeSummary(out io.Writer, rows []model.Verification, cur money.Currency) error {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No reconciliation results in range")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tDAYS\tMISMATCHED\tFINISHERS\tSTATEMENT\tDIFFERENCE\t")
	var buckets int
	for _, s := range export.Summarize(rows) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t\n", s.Category, s.Buckets, s.Mismatched,
			cur.String(s.FinisherTotal), cur.String(s.StatementTotal),
			cur.String(s.StatementTotal-s.FinisherTotal))
		buckets += s.Buckets
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d buckets\n", buckets)
	return nil
}
