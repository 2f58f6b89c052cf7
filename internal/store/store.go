// Package store persists shift reports, bank statements, fee rates and
// verification buckets in SQLite through gorm. Every write of a raw record
// derives its computed fields in the same transaction.
package store

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/conciliador-dev/conciliador/internal/annotate"
	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/fees"
	"github.com/conciliador-dev/conciliador/internal/holiday"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/settle"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// Options configures the annotation collaborators of a Store.
type Options struct {
	Rules    *classify.Set    // default: classify.DefaultSet()
	Calendar holiday.Calendar // default: holiday.NewBrazil()
}

// Store is the SQLite-backed persistence layer.
type Store struct {
	db     *gorm.DB
	rules  *classify.Set
	settle *settle.Calculator
}

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string, opts Options) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// SQLite allows one writer; concurrent buckets queue here instead of
	// failing with SQLITE_BUSY. It also keeps an in-memory database alive.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.ShiftReport{},
		&model.Finisher{},
		&model.Statement{},
		&model.StatementEntry{},
		&model.FeeRate{},
		&model.Verification{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	if opts.Rules == nil {
		opts.Rules = classify.DefaultSet()
	}
	if opts.Calendar == nil {
		opts.Calendar = holiday.NewBrazil()
	}
	return &Store{
		db:     db,
		rules:  opts.Rules,
		settle: settle.NewCalculator(opts.Calendar),
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// annotator loads the fee table visible to tx.
func (s *Store) annotator(tx *gorm.DB) (annotate.Context, error) {
	var rates []model.FeeRate
	if err := tx.Find(&rates).Error; err != nil {
		return annotate.Context{}, fmt.Errorf("loading fee rates: %w", err)
	}
	return annotate.Context{
		Rules:  s.rules,
		Settle: s.settle,
		Fees:   fees.NewTable(rates),
	}, nil
}

func (s *Store) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
