package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/conciliador-dev/conciliador/internal/auditlog"
	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/config"
	"github.com/conciliador-dev/conciliador/internal/holiday"
	"github.com/conciliador-dev/conciliador/internal/logger"
	"github.com/conciliador-dev/conciliador/internal/store"
)

// project is an opened conciliador directory.
type project struct {
	root  string
	cfg   *config.Config
	rules *classify.Set
	store *store.Store
	log   zerolog.Logger
	runID string
}

// openProject loads the config under opts.dir, sets up logging on the
// command's context and opens the database.
func openProject(cmd *cobra.Command, opts *globalOptions) (context.Context, *project, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("no %s in %s (run conciliador init)", config.FileName, root)
		}
		return nil, nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), level, logger.Format(format))
	if err != nil {
		return nil, nil, err
	}
	runID := auditlog.NewRunID()
	log = logger.WithFields(log, map[string]any{"run": runID})

	rules, err := cfg.Rules.LoadRules(root)
	if err != nil {
		return nil, nil, fmt.Errorf("loading rules: %w", err)
	}
	extra, err := cfg.Holidays.Dates()
	if err != nil {
		return nil, nil, err
	}

	dbPath := config.Resolve(root, cfg.Database.Path)
	st, err := store.Open(dbPath, store.Options{
		Rules:    rules,
		Calendar: holiday.NewBrazil(extra...),
	})
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("db", dbPath).Msg("database opened")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)

	return ctx, &project{
		root:  root,
		cfg:   cfg,
		rules: rules,
		store: st,
		log:   log,
		runID: runID,
	}, nil
}

func (p *project) Close() error {
	return p.store.Close()
}

// audit records an action. A failure to write the log is reported but does
// not fail the command.
func (p *project) audit(action, target, details string) {
	err := auditlog.Append(p.root, []auditlog.Entry{{
		Timestamp: time.Now(),
		RunID:     p.runID,
		Action:    action,
		Target:    target,
		Details:   details,
	}})
	if err != nil {
		p.log.Warn().Err(err).Msg("writing audit log")
	}
}
