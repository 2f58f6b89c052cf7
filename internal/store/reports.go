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

// ReportResult counts the outcome of InsertReports.
type ReportResult struct {
	Reports   int
	Finishers int
	// Skipped counts reports already stored (same employee and start time).
	Skipped int
}

// InsertReports stores each report with its finishers in its own
// transaction. A finisher whose fields cannot be derived is left out and its
// error returned joined with the others; the rest of the batch is kept.
func (s *Store) InsertReports(ctx context.Context, reports []model.ShiftReport) (ReportResult, error) {
	var (
		res  ReportResult
		errs []error
	)
	for _, r := range reports {
		var stored, skipped bool
		var n int
		err := s.tx(ctx, func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&model.ShiftReport{}).
				Where("employee = ? AND start_time = ?", r.Employee, r.StartTime).
				Count(&count).Error; err != nil {
				return fmt.Errorf("checking report: %w", err)
			}
			if count > 0 {
				skipped = true
				return nil
			}

			ann, err := s.annotator(tx)
			if err != nil {
				return err
			}

			report := r
			report.ID = 0
			report.Finishers = nil
			if err := tx.Omit(clause.Associations).Create(&report).Error; err != nil {
				return fmt.Errorf("inserting report of %s at %s: %w", r.Employee, r.StartTime, err)
			}

			finishers := make([]model.Finisher, 0, len(r.Finishers))
			for _, f := range r.Finishers {
				f.ID = 0
				f.ReportID = report.ID
				af, err := ann.Finisher(f, &report)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				finishers = append(finishers, af)
			}
			if len(finishers) > 0 {
				if err := tx.Create(&finishers).Error; err != nil {
					return fmt.Errorf("inserting finishers of %s at %s: %w", r.Employee, r.StartTime, err)
				}
			}
			stored = true
			n = len(finishers)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if skipped {
			res.Skipped++
		}
		if stored {
			res.Reports++
			res.Finishers += n
		}
	}
	return res, errors.Join(errs...)
}

// SaveFinisher updates a finisher's raw fields and re-derives the rest.
func (s *Store) SaveFinisher(ctx context.Context, f *model.Finisher) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		var report model.ShiftReport
		err := tx.First(&report, f.ReportID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("loading report %d: %w", f.ReportID, err)
		}
		var rp *model.ShiftReport
		if err == nil {
			rp = &report
		}

		ann, err := s.annotator(tx)
		if err != nil {
			return err
		}
		annotated, err := ann.Finisher(*f, rp)
		if err != nil {
			return err
		}
		if err := tx.Save(&annotated).Error; err != nil {
			return fmt.Errorf("saving finisher %q: %w", f.Name, err)
		}
		*f = annotated
		return nil
	})
}

// FinishersSettledOn returns the finishers of category c expected on the bank
// on day.
func (s *Store) FinishersSettledOn(ctx context.Context, c model.Category, day time.Time) ([]model.Finisher, error) {
	from, to := dayBounds(day)
	var out []model.Finisher
	err := s.db.WithContext(ctx).
		Where("category = ? AND settlement_date >= ? AND settlement_date < ?", c, from, to).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("reading finishers of %s on %s: %w", c, from.Format(dates.ISOFormat), err)
	}
	return out, nil
}
