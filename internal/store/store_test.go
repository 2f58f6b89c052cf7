package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciliador-dev/conciliador/internal/annotate"
	"github.com/conciliador-dev/conciliador/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Memory, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertSameInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func sampleReport() model.ShiftReport {
	return model.ShiftReport{
		Shift:     0,
		Employee:  "MARIA",
		StartTime: time.Date(2025, 4, 24, 6, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 4, 24, 14, 0, 0, 0, time.UTC),
		Finishers: []model.Finisher{
			{Name: "VISA DÉBITO", Value: 100000},
			{Name: "RECEBIMENTO DINHEIRO", Value: 25050},
			{Name: "TICKET", Value: 1200},
		},
	}
}

func TestInsertReports_Annotates(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	res, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)
	assert.Equal(t, ReportResult{Reports: 1, Finishers: 3}, res)

	debit, err := s.FinishersSettledOn(ctx, model.CategoryDebitVisa, day(2025, 4, 25))
	require.NoError(t, err)
	require.Len(t, debit, 1)
	assert.Equal(t, int64(100000), debit[0].Value)
	assert.Equal(t, int64(100000), debit[0].NetValue)

	cash, err := s.FinishersSettledOn(ctx, model.CategoryCash, day(2025, 4, 24))
	require.NoError(t, err)
	require.Len(t, cash, 1)
	assert.Equal(t, int64(25050), cash[0].Value)
}

func TestInsertReports_SkipsDuplicates(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)
	res, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)
	assert.Equal(t, ReportResult{Skipped: 1}, res)

	reports, err := Read(ctx, s, EntityShiftReport, Filter{})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestRead_UncategorizedPresentInRawReads(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)

	all, err := Read(ctx, s, EntityFinisher, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	unc, err := Read(ctx, s, EntityFinisher, Filter{Category: model.CategoryUncategorized})
	require.NoError(t, err)
	require.Len(t, unc, 1)
	assert.Equal(t, "TICKET", unc[0].Name)
	assert.Nil(t, unc[0].SettlementDate)
}

func TestRead_DateFilter(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)

	got, err := Read(ctx, s, EntityFinisher, Filter{From: day(2025, 4, 25), To: day(2025, 4, 25)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.CategoryDebitVisa, got[0].Category)

	reports, err := Read(ctx, s, EntityShiftReport, Filter{From: day(2025, 4, 25)})
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestRead_UnsupportedFilter(t *testing.T) {
	s := openTest(t)
	_, err := Read(context.Background(), s, EntityShiftReport, Filter{Category: model.CategoryCash})
	assert.ErrorIs(t, err, ErrUnsupportedFilter)
}

func TestInsertStatements_ReplacesDay(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	st := model.Statement{
		Date: day(2025, 4, 25),
		Entries: []model.StatementEntry{
			{Name: "VENDAS CARTAO TIPO DEBITO CIELO-VISA", Value: 98000},
			{Name: "TARIFA", Value: -1590},
		},
	}
	res, err := s.InsertStatements(ctx, []model.Statement{st})
	require.NoError(t, err)
	assert.Equal(t, StatementResult{Statements: 1, Entries: 2}, res)

	res, err = s.InsertStatements(ctx, []model.Statement{st})
	require.NoError(t, err)
	assert.Equal(t, StatementResult{Statements: 1, Entries: 2, Replaced: 1}, res)

	entries, err := Read(ctx, s, EntityStatementEntry, Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	debit, err := s.StatementEntriesOn(ctx, model.CategoryDebitVisa, day(2025, 4, 25))
	require.NoError(t, err)
	require.Len(t, debit, 1)
	assert.Equal(t, int64(98000), debit[0].Value)

	outcome, err := Read(ctx, s, EntityStatementEntry, Filter{Category: model.CategoryOutcome, From: day(2025, 4, 25), To: day(2025, 4, 25)})
	require.NoError(t, err)
	assert.Len(t, outcome, 1)

	none, err := s.StatementEntriesOn(ctx, model.CategoryDebitVisa, day(2025, 4, 26))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetFeeRate_RecomputesNetValues(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)

	n, err := s.SetFeeRate(ctx, model.FeeRate{
		Category:      model.CategoryDebitVisa,
		Rate:          decimal.RequireFromString("0.05"),
		EffectiveFrom: day(2025, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	debit, err := s.FinishersSettledOn(ctx, model.CategoryDebitVisa, day(2025, 4, 25))
	require.NoError(t, err)
	require.Len(t, debit, 1)
	assert.Equal(t, int64(95000), debit[0].NetValue)

	cash, err := s.FinishersSettledOn(ctx, model.CategoryCash, day(2025, 4, 24))
	require.NoError(t, err)
	assert.Equal(t, int64(25050), cash[0].NetValue)

	// A rate effective after the sale does not apply.
	n, err = s.SetFeeRate(ctx, model.FeeRate{
		Category:      model.CategoryDebitVisa,
		Rate:          decimal.RequireFromString("0.10"),
		EffectiveFrom: day(2025, 5, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSetFeeRate_AppliesToLaterInserts(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, err := s.SetFeeRate(ctx, model.FeeRate{
		Category:      model.CategoryDebitVisa,
		Rate:          decimal.RequireFromString("0.033"),
		EffectiveFrom: day(2025, 1, 1),
	})
	require.NoError(t, err)

	r := sampleReport()
	r.Finishers = []model.Finisher{{Name: "VISA DEBITO", Value: 100001}}
	_, err = s.InsertReports(ctx, []model.ShiftReport{r})
	require.NoError(t, err)

	got, err := Read(ctx, s, EntityFinisher, Filter{Category: model.CategoryDebitVisa})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(96700), got[0].NetValue)
}

func TestSetFeeRate_Replace(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	rate := model.FeeRate{
		Category:      model.CategoryCreditElo,
		Rate:          decimal.RequireFromString("0.03"),
		EffectiveFrom: day(2025, 1, 1),
	}
	_, err := s.SetFeeRate(ctx, rate)
	require.NoError(t, err)
	rate.Rate = decimal.RequireFromString("0.035")
	_, err = s.SetFeeRate(ctx, rate)
	require.NoError(t, err)
	_, err = s.SetFeeRate(ctx, model.FeeRate{
		Category:      model.CategoryCreditElo,
		Rate:          decimal.RequireFromString("0.04"),
		EffectiveFrom: day(2025, 6, 1),
	})
	require.NoError(t, err)

	rates, err := s.FeeRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.True(t, decimal.RequireFromString("0.035").Equal(rates[0].Rate))
	assertSameInstant(t, day(2025, 6, 1), rates[1].EffectiveFrom)
}

func TestSetFeeRate_Invalid(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.SetFeeRate(ctx, model.FeeRate{Category: model.CategoryPix, Rate: decimal.NewFromInt(1)})
	assert.Error(t, err)

	_, err = s.SetFeeRate(ctx, model.FeeRate{Category: "card.credit.diners", Rate: decimal.Zero})
	assert.Error(t, err)
}

func TestSaveFinisher_Rederives(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, err := s.InsertReports(ctx, []model.ShiftReport{sampleReport()})
	require.NoError(t, err)

	unc, err := Read(ctx, s, EntityFinisher, Filter{Category: model.CategoryUncategorized})
	require.NoError(t, err)
	require.Len(t, unc, 1)

	f := unc[0]
	f.Name = "PIX"
	require.NoError(t, s.SaveFinisher(ctx, &f))
	assert.Equal(t, model.CategoryPix, f.Category)
	require.NotNil(t, f.SettlementDate)
	assertSameInstant(t, day(2025, 4, 24), *f.SettlementDate)

	pix, err := s.FinishersSettledOn(ctx, model.CategoryPix, day(2025, 4, 24))
	require.NoError(t, err)
	assert.Len(t, pix, 1)
}

func TestSaveFinisher_MissingReport(t *testing.T) {
	s := openTest(t)
	f := model.Finisher{ReportID: 42, Name: "PIX", Value: 10}
	err := s.SaveFinisher(context.Background(), &f)

	var derr *annotate.DerivationError
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, annotate.ErrMissingReport)
}

func TestReplaceVerification_Upserts(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	v := model.Verification{
		Category:       model.CategoryPix,
		Date:           day(2025, 4, 24),
		VerifiedOn:     now,
		FinisherTotal:  1000,
		StatementTotal: 900,
	}
	require.NoError(t, s.ReplaceVerification(ctx, v))

	v.StatementTotal = 1000
	v.VerifiedOn = now.Add(time.Hour)
	require.NoError(t, s.ReplaceVerification(ctx, v))

	got, err := s.Verifications(ctx, day(2025, 4, 24), day(2025, 4, 24))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.CategoryPix, got[0].Category)
	assert.Equal(t, int64(1000), got[0].StatementTotal)
	assert.True(t, got[0].Matched())
	assert.False(t, got[0].IsVerified)
	assertSameInstant(t, now.Add(time.Hour), got[0].VerifiedOn)
}

func TestVerifications_Range(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	for _, d := range []time.Time{day(2025, 4, 23), day(2025, 4, 24), day(2025, 4, 25)} {
		require.NoError(t, s.ReplaceVerification(ctx, model.Verification{Category: model.CategoryCash, Date: d}))
	}

	got, err := s.Verifications(ctx, day(2025, 4, 24), day(2025, 4, 25))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertSameInstant(t, day(2025, 4, 24), got[0].Date)
	assertSameInstant(t, day(2025, 4, 25), got[1].Date)
}
