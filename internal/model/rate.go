package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeRate is the fraction withheld by the counterparty for a category,
// effective from EffectiveFrom until superseded by a later row.
type FeeRate struct {
	ID            uint            `gorm:"primaryKey"`
	Category      Category        `gorm:"not null;uniqueIndex:idx_rate_category_from"`
	Rate          decimal.Decimal `gorm:"type:text;not null"`
	EffectiveFrom time.Time       `gorm:"not null;uniqueIndex:idx_rate_category_from"`
}
