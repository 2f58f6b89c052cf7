// Package settle projects the day a finisher's funds post to the bank.
package settle

import (
	"time"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/holiday"
	"github.com/conciliador-dev/conciliador/internal/model"
)

const (
	debitDays  = 1
	creditDays = 30
)

// Offset returns the default number of days between sale and bank posting
// for a category. ok is false for categories that never post to the bank feed.
func Offset(c model.Category) (days int, ok bool) {
	switch {
	case c == model.CategoryCash, c == model.CategoryPix:
		return 0, true
	case c.IsDebit():
		return debitDays, true
	case c.IsCredit():
		return creditDays, true
	}
	return 0, false
}

// Calculator projects settlement dates over a business-day calendar.
type Calculator struct {
	cal holiday.Calendar
}

// NewCalculator creates a Calculator.
func NewCalculator(cal holiday.Calendar) *Calculator {
	return &Calculator{cal: cal}
}

// Settle returns the settlement date of a finisher of category c sold on
// eventDate during shift. ok is false when the category never settles.
func (c *Calculator) Settle(cat model.Category, eventDate time.Time, shift int) (time.Time, bool) {
	days, ok := Offset(cat)
	if !ok {
		return time.Time{}, false
	}
	return c.SettleAfter(cat, eventDate, shift, days), true
}

// SettleAfter is Settle with an explicit offset, for rules that override the
// category default (prepaid credit).
func (c *Calculator) SettleAfter(cat model.Category, eventDate time.Time, shift, days int) time.Time {
	// Cash collected after the first shift misses the bank's same-day cut-off.
	if cat == model.CategoryCash && shift > 0 {
		days++
	}
	return holiday.OnOrAfter(c.cal, dates.AddDays(eventDate, days))
}
