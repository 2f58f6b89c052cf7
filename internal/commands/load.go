package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/annotate"
	"github.com/conciliador-dev/conciliador/internal/auditlog"
	"github.com/conciliador-dev/conciliador/internal/config"
	"github.com/conciliador-dev/conciliador/internal/importer"
	"github.com/conciliador-dev/conciliador/internal/logger"
)

type loadOptions struct {
	archive   bool
	overwrite bool
	dryRun    bool
}

func newLoadCommand(g *globalOptions) *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load shift reports or bank statements",
	}
	loadCmd.AddCommand(newLoadKindCommand(g, importer.KindReports, "Load shift-close reports"))
	loadCmd.AddCommand(newLoadKindCommand(g, importer.KindStatements, "Load bank statement exports"))
	return loadCmd
}

func newLoadKindCommand(g *globalOptions, kind, short string) *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   kind + " [files...]",
		Short: short,
		Long: short + ". Without arguments, every file in the configured input " +
			"folder is loaded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, p, err := openProject(cmd, g)
			if err != nil {
				return err
			}
			defer p.Close()
			if !cmd.Flags().Changed("overwrite-archive") {
				opts.overwrite = p.cfg.Import.OverwriteArchive
			}
			return runLoad(ctx, cmd.OutOrStdout(), p, kind, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move loaded files to the archive folder")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite-archive", false, "replace files already in the archive (default from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and report without writing")

	return cmd
}

func runLoad(ctx context.Context, out io.Writer, p *project, kind string, paths []string, opts loadOptions) error {
	log := logger.FromContext(ctx)
	parser := importer.DefaultRegistry().Get(kind)

	inputDir := p.cfg.Import.Reports
	action := auditlog.ActionLoadReports
	if kind == importer.KindStatements {
		inputDir = p.cfg.Import.Statements
		action = auditlog.ActionLoadStatements
	}

	if len(paths) == 0 {
		files, err := importer.Scan(config.Resolve(p.root, inputDir), p.cfg.Import.Extension)
		if err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintf(out, "No %s to load in %s\n", kind, inputDir)
		return nil
	}

	var (
		loaded []string
		failed int
	)
	for _, path := range paths {
		name := filepath.Base(path)
		batch, err := importer.ParseFile(parser, path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %v\n", err)
			log.Error().Err(err).Str("file", name).Msg("parse failed")
			continue
		}
		if opts.dryRun {
			fmt.Fprintf(out, "ok   %s: %s\n", name, describeBatch(batch))
			for _, r := range importer.ReportRows(batch.Reports) {
				fmt.Fprintf(out, "     shift %d %s %s %s\n", r.Shift, r.Employee, r.Name, r.Amount)
			}
			continue
		}

		summary, err := storeBatch(ctx, p, batch)
		if err != nil {
			warnings, fatal := splitDerivation(err)
			for _, e := range warnings {
				fmt.Fprintf(out, "WARN %s: %v\n", name, e)
			}
			if fatal != nil {
				// Reports committed before the failure stay; a reload skips them.
				failed++
				fmt.Fprintf(out, "FAIL %s: %v (%s)\n", name, fatal, summary)
				log.Error().Err(fatal).Str("file", name).Str("rows", summary).Msg("store failed")
				p.audit(action, name, "failed: "+fatal.Error())
				continue
			}
			log.Warn().Int("skipped", len(warnings)).Str("file", name).Msg("records skipped")
		}
		fmt.Fprintf(out, "ok   %s: %s\n", name, summary)
		log.Info().Str("file", name).Str("rows", summary).Msg("file loaded")
		p.audit(action, name, summary)
		loaded = append(loaded, path)
	}

	if opts.archive && !opts.dryRun && len(loaded) > 0 {
		dir := config.Resolve(p.root, filepath.Join(p.cfg.Import.Archive, kind))
		moved, err := importer.Archive(loaded, dir, opts.overwrite)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Archived %d of %d files to %s\n", len(moved), len(loaded), dir)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to load", failed, len(paths))
	}
	return nil
}

func storeBatch(ctx context.Context, p *project, b importer.Batch) (string, error) {
	if len(b.Reports) > 0 {
		res, err := p.store.InsertReports(ctx, b.Reports)
		return fmt.Sprintf("%d reports, %d finishers, %d already loaded", res.Reports, res.Finishers, res.Skipped), err
	}
	res, err := p.store.InsertStatements(ctx, b.Statements)
	return fmt.Sprintf("%d days, %d entries, %d days replaced", res.Statements, res.Entries, res.Replaced), err
}

func describeBatch(b importer.Batch) string {
	if len(b.Reports) > 0 {
		return fmt.Sprintf("%d reports, %d finishers", len(b.Reports), len(importer.ReportRows(b.Reports)))
	}
	n := 0
	for _, s := range b.Statements {
		n += len(s.Entries)
	}
	return fmt.Sprintf("%d days, %d entries", len(b.Statements), n)
}

// splitDerivation separates records skipped by annotation, which leave the
// rest of the file stored, from any other store failure.
func splitDerivation(err error) (skipped []error, fatal error) {
	parts := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		parts = j.Unwrap()
	}
	var others []error
	for _, e := range parts {
		var de *annotate.DerivationError
		if errors.As(e, &de) {
			skipped = append(skipped, e)
			continue
		}
		others = append(others, e)
	}
	return skipped, errors.Join(others...)
}
