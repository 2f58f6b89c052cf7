package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/money"
	"github.com/conciliador-dev/conciliador/internal/settle"
)

func newClassifyCommand(g *globalOptions) *cobra.Command {
	var statement bool

	cmd := &cobra.Command{
		Use:   "classify <name> [value]",
		Short: "Show how a payment method or ledger entry is classified",
		Long: "Run a name (and optional value, in reais) through the project's rules " +
			"and print the category, the matching rule and its settlement offset.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value int64
			if len(args) == 2 {
				v, err := money.Parse(args[1])
				if err != nil {
					return err
				}
				value = v
			}

			_, p, err := openProject(cmd, g)
			if err != nil {
				return err
			}
			defer p.Close()

			table, c := "finisher", p.rules.Finisher
			if statement {
				table, c = "statement", p.rules.Statement
			}
			r := c.Match(args[0], value)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:     %s\n", classify.Fold(args[0]))
			fmt.Fprintf(out, "category: %s\n", r.Category)
			if r.Rule < 0 {
				fmt.Fprintf(out, "rule:     none in %s table\n", table)
				return nil
			}
			fmt.Fprintf(out, "rule:     %s #%d\n", table, r.Rule)
			if statement {
				return nil
			}
			switch days, ok := settle.Offset(r.Category); {
			case r.SettlementDays != nil:
				fmt.Fprintf(out, "settles:  %d days (rule override)\n", *r.SettlementDays)
			case ok:
				fmt.Fprintf(out, "settles:  %d days\n", days)
			default:
				fmt.Fprintln(out, "settles:  never")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&statement, "statement", false, "use the bank statement table")

	return cmd
}
