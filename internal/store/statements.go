package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/model"
)

// StatementResult counts the outcome of InsertStatements.
type StatementResult struct {
	Statements int
	Entries    int
	// Replaced counts days that were already stored and had their entries replaced.
	Replaced int
}

// InsertStatements stores each statement day in its own transaction. A day
// already present has its entries replaced, so loading the same export twice
// leaves the ledger unchanged.
func (s *Store) InsertStatements(ctx context.Context, statements []model.Statement) (StatementResult, error) {
	var (
		res  StatementResult
		errs []error
	)
	for _, st := range statements {
		day := dates.Day(st.Date)
		var replaced bool
		err := s.tx(ctx, func(tx *gorm.DB) error {
			ann, err := s.annotator(tx)
			if err != nil {
				return err
			}

			var existing model.Statement
			err = tx.Where("date = ?", day).First(&existing).Error
			switch {
			case err == nil:
				replaced = true
				if err := tx.Where("statement_id = ?", existing.ID).Delete(&model.StatementEntry{}).Error; err != nil {
					return fmt.Errorf("clearing statement %s: %w", day.Format(dates.ISOFormat), err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				existing = model.Statement{Date: day}
				if err := tx.Omit(clause.Associations).Create(&existing).Error; err != nil {
					return fmt.Errorf("inserting statement %s: %w", day.Format(dates.ISOFormat), err)
				}
			default:
				return fmt.Errorf("loading statement %s: %w", day.Format(dates.ISOFormat), err)
			}

			entries := make([]model.StatementEntry, 0, len(st.Entries))
			for _, e := range st.Entries {
				e.ID = 0
				e.StatementID = existing.ID
				entries = append(entries, ann.StatementEntry(e))
			}
			if len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return fmt.Errorf("inserting entries of %s: %w", day.Format(dates.ISOFormat), err)
				}
			}
			res.Entries += len(entries)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.Statements++
		if replaced {
			res.Replaced++
		}
	}
	return res, errors.Join(errs...)
}

// StatementEntriesOn returns the entries of category c posted on day.
func (s *Store) StatementEntriesOn(ctx context.Context, c model.Category, day time.Time) ([]model.StatementEntry, error) {
	from, to := dayBounds(day)
	var out []model.StatementEntry
	err := s.db.WithContext(ctx).
		Where("category = ?", c).
		Where("statement_id IN (?)", s.db.Model(&model.Statement{}).Select("id").
			Where("date >= ? AND date < ?", from, to)).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("reading statement entries of %s on %s: %w", c, from.Format(dates.ISOFormat), err)
	}
	return out, nil
}

// dayBounds returns [day, day+1) in UTC.
func dayBounds(day time.Time) (time.Time, time.Time) {
	from := dates.Day(day)
	return from, dates.AddDays(from, 1)
}
