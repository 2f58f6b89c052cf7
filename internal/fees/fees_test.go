package fees

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciliador-dev/conciliador/internal/model"
)

func TestNet(t *testing.T) {
	tests := []struct {
		value int64
		rate  string
		want  int64
	}{
		{100000, "0.05", 95000},
		{100001, "0.033", 96700},
		{100000, "0", 100000},
		{1, "0.5", 0},
		{-100001, "0.033", -96700},
		{0, "0.02", 0},
	}
	for _, tt := range tests {
		got := Net(tt.value, decimal.RequireFromString(tt.rate))
		assert.Equal(t, tt.want, got, "net(%d, %s)", tt.value, tt.rate)
	}
}

func TestTable_Rate(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	table := NewTable([]model.FeeRate{
		{Category: model.CategoryCreditVisa, Rate: decimal.RequireFromString("0.04"), EffectiveFrom: mar},
		{Category: model.CategoryCreditVisa, Rate: decimal.RequireFromString("0.03"), EffectiveFrom: jan},
		{Category: model.CategoryDebitVisa, Rate: decimal.RequireFromString("0.01"), EffectiveFrom: jan},
	})

	tests := []struct {
		name string
		cat  model.Category
		at   time.Time
		want string
	}{
		{"before any rate", model.CategoryCreditVisa, jan.AddDate(0, 0, -1), "0"},
		{"on effective date", model.CategoryCreditVisa, jan, "0.03"},
		{"between", model.CategoryCreditVisa, mar.Add(-time.Second), "0.03"},
		{"superseded", model.CategoryCreditVisa, mar.AddDate(0, 1, 0), "0.04"},
		{"other category", model.CategoryDebitVisa, mar, "0.01"},
		{"no rates", model.CategoryPix, mar, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Rate(tt.cat, tt.at)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestTable_NetAmount(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	table := NewTable([]model.FeeRate{
		{Category: model.CategoryCreditElo, Rate: decimal.RequireFromString("0.033"), EffectiveFrom: jan},
	})

	assert.Equal(t, int64(96700), table.NetAmount(model.CategoryCreditElo, 100001, jan.AddDate(0, 0, 5)))
	assert.Equal(t, int64(100001), table.NetAmount(model.CategoryCash, 100001, jan.AddDate(0, 0, 5)))
}

func TestParseRate(t *testing.T) {
	r, err := ParseRate("0.033")
	require.NoError(t, err)
	assert.Equal(t, "0.033", r.String())

	r, err = ParseRate("3.3%")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.033").Equal(r))

	_, err = ParseRate("abc")
	assert.Error(t, err)

	_, err = ParseRate("1")
	assert.ErrorIs(t, err, ErrRateOutOfRange)

	_, err = ParseRate("-0.01")
	assert.ErrorIs(t, err, ErrRateOutOfRange)
}
