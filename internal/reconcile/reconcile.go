// Package reconcile compares the two feeds per category and day and records
// the result as verification buckets.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/logger"
	"github.com/conciliador-dev/conciliador/internal/model"
)

// Store is the persistence the engine reads from and writes to.
type Store interface {
	FinishersSettledOn(ctx context.Context, c model.Category, day time.Time) ([]model.Finisher, error)
	StatementEntriesOn(ctx context.Context, c model.Category, day time.Time) ([]model.StatementEntry, error)
	ReplaceVerification(ctx context.Context, v model.Verification) error
}

// Error identifies the bucket a run stopped on. Days before Date are
// committed; rerunning from Date resumes the range.
type Error struct {
	Date     time.Time
	Category model.Category
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reconciling %s on %s: %v", e.Category, e.Date.Format(dates.ISOFormat), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config holds the dependencies of an Engine.
type Config struct {
	Store      Store
	Categories []model.Category
	// Now stamps VerifiedOn. Default: time.Now.
	Now func() time.Time
	// Workers bounds the buckets of one day processed concurrently. Default 1.
	Workers int
}

// Engine runs reconciliation passes.
type Engine struct {
	store      Store
	categories []model.Category
	now        func() time.Time
	workers    int
}

// New validates cfg and builds an Engine. Uncategorized is never reconciled
// and is dropped from cfg.Categories.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errors.New("reconcile: store is required")
	}
	cats := make([]model.Category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		if c != model.CategoryUncategorized {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return nil, errors.New("reconcile: no categories to reconcile")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Engine{
		store:      cfg.Store,
		categories: cats,
		now:        cfg.Now,
		workers:    cfg.Workers,
	}, nil
}

// Run reconciles every day of [start, end] in ascending order and returns
// the buckets it wrote. On failure it stops after the failing day and
// returns the buckets written so far along with an *Error.
func (e *Engine) Run(ctx context.Context, start, end time.Time) ([]model.Verification, error) {
	days := dates.Range(start, end)
	if days == nil {
		return nil, fmt.Errorf("reconcile: end %s before start %s",
			dates.Day(end).Format(dates.ISOFormat), dates.Day(start).Format(dates.ISOFormat))
	}

	log := logger.FromContext(ctx)
	var out []model.Verification
	for _, day := range days {
		written, err := e.Day(ctx, day)
		out = append(out, written...)
		if err != nil {
			return out, err
		}
		log.Debug().Str("date", day.Format(dates.ISOFormat)).Int("buckets", len(written)).Msg("day reconciled")
	}
	return out, nil
}

// Day reconciles every category of one day. Buckets that completed before a
// failure stay committed and are returned.
func (e *Engine) Day(ctx context.Context, day time.Time) ([]model.Verification, error) {
	day = dates.Day(day)
	results := make([]*model.Verification, len(e.categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, c := range e.categories {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &Error{Date: day, Category: c, Err: err}
			}
			v, err := e.bucket(gctx, c, day)
			if err != nil {
				return &Error{Date: day, Category: c, Err: err}
			}
			results[i] = &v
			return nil
		})
	}
	err := g.Wait()

	out := make([]model.Verification, 0, len(results))
	for _, v := range results {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, err
}

func (e *Engine) bucket(ctx context.Context, c model.Category, day time.Time) (model.Verification, error) {
	finishers, err := e.store.FinishersSettledOn(ctx, c, day)
	if err != nil {
		return model.Verification{}, err
	}
	entries, err := e.store.StatementEntriesOn(ctx, c, day)
	if err != nil {
		return model.Verification{}, err
	}

	v := model.Verification{
		Category:   c,
		Date:       day,
		VerifiedOn: e.now().UTC(),
		IsVerified: false,
	}
	for _, f := range finishers {
		v.FinisherTotal += f.NetValue
	}
	for _, s := range entries {
		v.StatementTotal += s.Value
	}

	if err := e.store.ReplaceVerification(ctx, v); err != nil {
		return model.Verification{}, err
	}
	logger.FromContext(ctx).Debug().
		Str("category", string(c)).
		Str("date", day.Format(dates.ISOFormat)).
		Int64("finishers", v.FinisherTotal).
		Int64("statement", v.StatementTotal).
		Bool("matched", v.Matched()).
		Msg("bucket replaced")
	return v, nil
}
