package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/money"
)

var verifiedOn = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func testRows() []model.Verification {
	return []model.Verification{
		{
			Category: model.CategoryPix, Date: time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC),
			VerifiedOn: verifiedOn, FinisherTotal: 123456, StatementTotal: 123456,
		},
		{
			Category: model.CategoryDebitVisa, Date: time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC),
			VerifiedOn: verifiedOn, FinisherTotal: 100000, StatementTotal: 98000,
		},
	}
}

func TestMarshalVerification(t *testing.T) {
	row := MarshalVerification(testRows()[1], money.Real)
	assert.Equal(t, []string{
		"2025-04-25", "card.debit.visa", "R$ 1.000,00", "R$ 980,00", "R$ -20,00",
		"false", "false", "2025-05-01T09:30:00Z",
	}, row)
}

func TestWriteVerifications(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteVerifications(&buf, testRows(), Options{Currency: money.Real})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "date", records[0][colDate])
	assert.Equal(t, "R$ 1.234,56", records[1][colFinishers])
	assert.Equal(t, "true", records[1][colMatched])
}

func TestWriteVerifications_OnlyMismatched(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteVerifications(&buf, testRows(), Options{Currency: money.Real, OnlyMismatched: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "card.debit.visa")
	assert.NotContains(t, buf.String(), ",pix,")
}

func TestWriteVerifications_CustomCurrency(t *testing.T) {
	var buf bytes.Buffer
	cur := money.Currency{Symbol: "$", Format: money.Format{Thousands: ",", Decimals: "."}}
	_, err := WriteVerifications(&buf, testRows()[:1], Options{Currency: cur})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"$ 1,234.56"`)
}

func TestSummarize(t *testing.T) {
	rows := append(testRows(), model.Verification{
		Category: model.CategoryPix, FinisherTotal: 10, StatementTotal: 0,
	})
	got := Summarize(rows)
	require.Len(t, got, 2)
	assert.Equal(t, Summary{
		Category: model.CategoryPix, Buckets: 2, Mismatched: 1,
		FinisherTotal: 123466, StatementTotal: 123456,
	}, got[0])
	assert.Equal(t, 1, got[1].Mismatched)
}
