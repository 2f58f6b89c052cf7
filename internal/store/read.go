package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/model"
)

// ErrUnsupportedFilter is returned when a filter names a field the entity lacks.
var ErrUnsupportedFilter = errors.New("filter not supported for entity")

// Entity is a typed handle on one stored record type.
type Entity[T any] struct {
	name     string
	category bool
	order    string
	between  func(db *gorm.DB, from, to time.Time) *gorm.DB
}

func (e Entity[T]) String() string { return e.name }

func column(col string) func(*gorm.DB, time.Time, time.Time) *gorm.DB {
	return func(db *gorm.DB, from, to time.Time) *gorm.DB {
		return db.Where(col+" >= ? AND "+col+" < ?", from, to)
	}
}

var (
	EntityShiftReport = Entity[model.ShiftReport]{
		name: "shift_report", order: "start_time, id", between: column("start_time"),
	}
	EntityFinisher = Entity[model.Finisher]{
		name: "finisher", category: true, order: "id", between: column("settlement_date"),
	}
	EntityStatement = Entity[model.Statement]{
		name: "statement", order: "date", between: column("date"),
	}
	EntityStatementEntry = Entity[model.StatementEntry]{
		name: "statement_entry", category: true, order: "id",
		between: func(db *gorm.DB, from, to time.Time) *gorm.DB {
			return db.Where("statement_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Model(&model.Statement{}).Select("id").Where("date >= ? AND date < ?", from, to))
		},
	}
	EntityFeeRate = Entity[model.FeeRate]{
		name: "fee_rate", category: true, order: "category, effective_from", between: column("effective_from"),
	}
	EntityVerification = Entity[model.Verification]{
		name: "verification", category: true, order: "date, category", between: column("date"),
	}
)

// Filter narrows a Read. Zero fields do not filter. From and To are
// inclusive days on the entity's date: start time for reports, settlement
// date for finishers, statement date for statements and their entries.
type Filter struct {
	Category model.Category
	From     time.Time
	To       time.Time
	Limit    int
}

// Read returns the raw stored records of an entity, uncategorized ones included.
func Read[T any](ctx context.Context, s *Store, e Entity[T], f Filter) ([]T, error) {
	q := s.db.WithContext(ctx).Model(new(T))
	if f.Category != "" {
		if !e.category {
			return nil, fmt.Errorf("%s by category: %w", e.name, ErrUnsupportedFilter)
		}
		q = q.Where("category = ?", f.Category)
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		from := time.Time{}
		if !f.From.IsZero() {
			from = dates.Day(f.From)
		}
		to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		if !f.To.IsZero() {
			to = dates.AddDays(f.To, 1)
		}
		q = e.between(q, from, to)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []T
	if err := q.Order(e.order).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("reading %s: %w", e.name, err)
	}
	return out, nil
}
