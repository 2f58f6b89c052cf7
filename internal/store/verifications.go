package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/model"
)

// ReplaceVerification writes the whole bucket row in one transaction,
// inserting or overwriting the row keyed by (category, date).
func (s *Store) ReplaceVerification(ctx context.Context, v model.Verification) error {
	v.Date = dates.Day(v.Date)
	v.VerifiedOn = v.VerifiedOn.UTC()
	return s.tx(ctx, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"verified_on", "is_verified", "finisher_total", "statement_total"}),
		}).Create(&v).Error
		if err != nil {
			return fmt.Errorf("replacing verification %s on %s: %w", v.Category, v.Date.Format(dates.ISOFormat), err)
		}
		return nil
	})
}

// Verifications returns the buckets dated within [from, to], by date then category.
func (s *Store) Verifications(ctx context.Context, from, to time.Time) ([]model.Verification, error) {
	return Read(ctx, s, EntityVerification, Filter{From: from, To: to})
}
