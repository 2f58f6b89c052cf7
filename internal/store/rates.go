package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/conciliador-dev/conciliador/internal/fees"
	"github.com/conciliador-dev/conciliador/internal/model"
)

// SetFeeRate stores rate (replacing one with the same category and effective
// date) and recomputes the net value of every finisher of that category in
// the same transaction. It returns the number of finishers updated.
func (s *Store) SetFeeRate(ctx context.Context, rate model.FeeRate) (int, error) {
	if err := fees.ValidateRate(rate.Rate); err != nil {
		return 0, err
	}
	if !rate.Category.Known() || rate.Category == model.CategoryUncategorized {
		return 0, fmt.Errorf("unknown category %q", rate.Category)
	}
	rate.ID = 0
	rate.EffectiveFrom = rate.EffectiveFrom.UTC()

	var updated int
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "effective_from"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate"}),
		}).Create(&rate).Error; err != nil {
			return fmt.Errorf("saving rate for %s: %w", rate.Category, err)
		}

		ann, err := s.annotator(tx)
		if err != nil {
			return err
		}

		var finishers []model.Finisher
		if err := tx.Where("category = ?", rate.Category).Find(&finishers).Error; err != nil {
			return fmt.Errorf("loading finishers of %s: %w", rate.Category, err)
		}
		reports, err := reportsByID(tx, finishers)
		if err != nil {
			return err
		}
		for _, f := range finishers {
			af, err := ann.Finisher(f, reports[f.ReportID])
			if err != nil {
				return err
			}
			if af.NetValue == f.NetValue {
				continue
			}
			if err := tx.Model(&model.Finisher{}).Where("id = ?", f.ID).
				Update("net_value", af.NetValue).Error; err != nil {
				return fmt.Errorf("updating finisher %d: %w", f.ID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// FeeRates returns every stored rate ordered by category and effective date.
func (s *Store) FeeRates(ctx context.Context) ([]model.FeeRate, error) {
	var out []model.FeeRate
	if err := s.db.WithContext(ctx).Order("category, effective_from").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("reading fee rates: %w", err)
	}
	return out, nil
}

// reportsByID maps the reports referenced by finishers. Missing reports are absent.
func reportsByID(tx *gorm.DB, finishers []model.Finisher) (map[uint]*model.ShiftReport, error) {
	ids := make([]uint, 0, len(finishers))
	seen := make(map[uint]bool)
	for _, f := range finishers {
		if !seen[f.ReportID] {
			seen[f.ReportID] = true
			ids = append(ids, f.ReportID)
		}
	}
	out := make(map[uint]*model.ShiftReport, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var reports []model.ShiftReport
	if err := tx.Where("id IN ?", ids).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("loading reports: %w", err)
	}
	for i := range reports {
		out[reports[i].ID] = &reports[i]
	}
	return out, nil
}
