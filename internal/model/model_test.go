package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryKnown(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Known(), "%s should be known", c)
	}
	assert.True(t, CategoryUncategorized.Known())
	assert.False(t, Category("card.credit.diners").Known())
}

func TestCategoriesExcludeUncategorized(t *testing.T) {
	assert.NotContains(t, Categories(), CategoryUncategorized)
}

func TestCardKinds(t *testing.T) {
	assert.True(t, CategoryCreditElo.IsCredit())
	assert.False(t, CategoryCreditElo.IsDebit())
	assert.True(t, CategoryDebitMaster.IsDebit())
	assert.False(t, CategoryPix.IsCredit())
	assert.False(t, CategoryPix.IsDebit())
}

func TestEventDate(t *testing.T) {
	r := ShiftReport{StartTime: time.Date(2025, 2, 19, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2025, 2, 19, 0, 0, 0, 0, time.UTC), r.EventDate())
}

func TestVerificationDifference(t *testing.T) {
	v := Verification{FinisherTotal: 95000, StatementTotal: 94990}
	assert.False(t, v.Matched())
	assert.Equal(t, int64(-10), v.Difference())

	v.StatementTotal = 95000
	assert.True(t, v.Matched())
}
