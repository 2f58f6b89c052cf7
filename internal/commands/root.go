package commands

import (
	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/buildinfo"
)

type globalOptions struct {
	dir       string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:     "conciliador",
		Short:   "Reconcile point-of-sale shift reports against bank statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (default from config)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: console or json (default from config)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newLoadCommand(&opts))
	rootCmd.AddCommand(newRatesCommand(&opts))
	rootCmd.AddCommand(newClassifyCommand(&opts))
	rootCmd.AddCommand(newReconcileCommand(&opts))
	rootCmd.AddCommand(newExportCommand(&opts))

	return rootCmd
}
