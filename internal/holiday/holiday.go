// Package holiday decides which calendar days the bank posts on.
package holiday

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/br"

	"github.com/conciliador-dev/conciliador/internal/dates"
)

// Calendar reports whether a day is a business day.
type Calendar interface {
	IsBusinessDay(day time.Time) bool
}

// Black Consciousness day is a national holiday from 2024 on.
var conscienciaNegra = &cal.Holiday{
	Name:      "Dia Nacional de Zumbi e da Consciência Negra",
	Type:      cal.ObservancePublic,
	Month:     time.November,
	Day:       20,
	StartYear: 2024,
	Func:      cal.CalcDayOfMonth,
}

// Brazil is the Brazilian banking calendar: weekends, the national holidays
// of rickar/cal's br package, and any extra days configured by the user
// (municipal holidays, bank closures).
type Brazil struct {
	bc *cal.BusinessCalendar
}

// NewBrazil returns the Brazilian calendar with extra non-business days.
func NewBrazil(extra ...time.Time) *Brazil {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(br.Holidays...)
	bc.AddHoliday(conscienciaNegra)
	for _, d := range extra {
		bc.AddHoliday(extraDay(d))
	}
	return &Brazil{bc: bc}
}

// extraDay is a one-off holiday on d's calendar date.
func extraDay(d time.Time) *cal.Holiday {
	d = dates.Day(d)
	return &cal.Holiday{
		Name:      "Extra " + d.Format(dates.ISOFormat),
		Type:      cal.ObservanceBank,
		Month:     d.Month(),
		Day:       d.Day(),
		StartYear: d.Year(),
		EndYear:   d.Year(),
		Func:      cal.CalcDayOfMonth,
	}
}

// IsBusinessDay reports whether day is neither a weekend, a holiday nor a
// configured extra day.
func (b *Brazil) IsBusinessDay(day time.Time) bool {
	return b.bc.IsWorkday(dates.Day(day))
}

// OnOrAfter returns the first business day on or after day.
func OnOrAfter(c Calendar, day time.Time) time.Time {
	day = dates.Day(day)
	for !c.IsBusinessDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
