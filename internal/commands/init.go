package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/config"
	"github.com/conciliador-dev/conciliador/internal/store"
)

const rulesFile = "rules.yaml"

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new conciliador project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(out io.Writer, dir, name string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name)
	cfg.Rules.Path = rulesFile

	dirs := []string{
		cfg.Import.Reports,
		cfg.Import.Statements,
		filepath.Join(cfg.Import.Archive, "reports"),
		filepath.Join(cfg.Import.Archive, "statements"),
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed the rules file with the built-in tables so they can be edited.
	if err := classify.SaveTables(filepath.Join(dir, rulesFile), classify.DefaultTables()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := cfg.Database.Path + "\n" + cfg.Import.Archive + "/\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	st, err := store.Open(config.Resolve(dir, cfg.Database.Path), store.Options{})
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("creating database: %w", err)
	}

	fmt.Fprintf(out, "Initialized conciliador project at %s\n", dir)
	return nil
}
