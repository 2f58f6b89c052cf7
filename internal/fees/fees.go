// Package fees computes the amount that reaches the bank after the
// counterparty withholds its fee.
package fees

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/conciliador-dev/conciliador/internal/model"
)

var ErrRateOutOfRange = errors.New("fee rate must be in [0, 1)")

// ValidateRate checks that r is a fraction in [0, 1).
func ValidateRate(r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s: %w", r.String(), ErrRateOutOfRange)
	}
	return nil
}

// ParseRate parses a fraction ("0.033") or a percentage ("3.3%").
func ParseRate(s string) (decimal.Decimal, error) {
	pct := len(s) > 0 && s[len(s)-1] == '%'
	if pct {
		s = s[:len(s)-1]
	}
	r, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing rate %q: %w", s, err)
	}
	if pct {
		r = r.Div(decimal.NewFromInt(100))
	}
	if err := ValidateRate(r); err != nil {
		return decimal.Zero, err
	}
	return r, nil
}

// Net returns value × (1 − rate) truncated toward zero.
func Net(value int64, rate decimal.Decimal) int64 {
	keep := decimal.NewFromInt(1).Sub(rate)
	return decimal.NewFromInt(value).Mul(keep).Truncate(0).IntPart()
}

// Table is an in-memory, time-versioned rate lookup.
type Table struct {
	byCategory map[model.Category][]model.FeeRate
}

// NewTable indexes rates by category, newest effective date last.
func NewTable(rates []model.FeeRate) *Table {
	t := &Table{byCategory: make(map[model.Category][]model.FeeRate)}
	for _, r := range rates {
		t.byCategory[r.Category] = append(t.byCategory[r.Category], r)
	}
	for _, rs := range t.byCategory {
		sort.Slice(rs, func(i, j int) bool {
			return rs[i].EffectiveFrom.Before(rs[j].EffectiveFrom)
		})
	}
	return t
}

// Rate returns the rate with the greatest EffectiveFrom not after at, or
// zero when the category has no such rate.
func (t *Table) Rate(c model.Category, at time.Time) decimal.Decimal {
	rs := t.byCategory[c]
	// First index whose EffectiveFrom is after at.
	i := sort.Search(len(rs), func(i int) bool { return rs[i].EffectiveFrom.After(at) })
	if i == 0 {
		return decimal.Zero
	}
	return rs[i-1].Rate
}

// NetAmount is Net with the rate in force for c at the given time.
func (t *Table) NetAmount(c model.Category, value int64, at time.Time) int64 {
	return Net(value, t.Rate(c, at))
}
