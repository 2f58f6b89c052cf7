package annotate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/fees"
	"github.com/conciliador-dev/conciliador/internal/holiday"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/settle"
)

func testContext(rates ...model.FeeRate) Context {
	return Context{
		Rules:  classify.DefaultSet(),
		Settle: settle.NewCalculator(holiday.NewBrazil()),
		Fees:   fees.NewTable(rates),
	}
}

func report(shift int) *model.ShiftReport {
	return &model.ShiftReport{
		ID:        7,
		Shift:     shift,
		StartTime: time.Date(2025, 4, 24, 6, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 4, 24, 14, 0, 0, 0, time.UTC),
	}
}

func TestFinisher_Debit(t *testing.T) {
	ctx := testContext(model.FeeRate{
		Category:      model.CategoryDebitVisa,
		Rate:          decimal.RequireFromString("0.05"),
		EffectiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	f, err := ctx.Finisher(model.Finisher{ReportID: 7, Name: "VISA DÉBITO", Value: 100000}, report(0))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDebitVisa, f.Category)
	require.NotNil(t, f.SettlementDate)
	assert.Equal(t, time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC), *f.SettlementDate)
	assert.Equal(t, int64(95000), f.NetValue)
}

func TestFinisher_CashSecondShift(t *testing.T) {
	f, err := testContext().Finisher(model.Finisher{ReportID: 7, Name: "RECEBIMENTO DINHEIRO", Value: 5000}, report(1))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCash, f.Category)
	require.NotNil(t, f.SettlementDate)
	assert.Equal(t, time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC), *f.SettlementDate)
	assert.Equal(t, int64(5000), f.NetValue)
}

func TestFinisher_PrepaidOverride(t *testing.T) {
	f, err := testContext().Finisher(model.Finisher{ReportID: 7, Name: "PRE-PAGO VISA CREDITO", Value: 100}, report(0))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCreditVisa, f.Category)
	require.NotNil(t, f.SettlementDate)
	assert.Equal(t, time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC), *f.SettlementDate)
}

func TestFinisher_NeverSettles(t *testing.T) {
	f, err := testContext().Finisher(model.Finisher{ReportID: 7, Name: "TICKET", Value: 100}, report(0))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryUncategorized, f.Category)
	assert.Nil(t, f.SettlementDate)
	assert.Equal(t, int64(100), f.NetValue)
}

func TestFinisher_Reannotate(t *testing.T) {
	ctx := testContext()
	f, err := ctx.Finisher(model.Finisher{ReportID: 7, Name: "PIX", Value: 100}, report(0))
	require.NoError(t, err)
	require.NotNil(t, f.SettlementDate)

	f.Name = "PRAZO"
	f, err = ctx.Finisher(f, report(0))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryInstallment, f.Category)
	assert.Nil(t, f.SettlementDate)
}

func TestFinisher_MissingReport(t *testing.T) {
	_, err := testContext().Finisher(model.Finisher{ReportID: 9, Name: "PIX"}, nil)
	var derr *DerivationError
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, ErrMissingReport)
	assert.Contains(t, derr.Record, "PIX")

	_, err = testContext().Finisher(model.Finisher{ReportID: 9, Name: "PIX"}, report(0))
	assert.ErrorIs(t, err, ErrMissingReport)
}

func TestFinisher_MissingRates(t *testing.T) {
	ctx := testContext()
	ctx.Fees = nil
	_, err := ctx.Finisher(model.Finisher{ReportID: 7, Name: "PIX"}, report(0))
	assert.ErrorIs(t, err, ErrMissingRates)
}

func TestStatementEntry(t *testing.T) {
	ctx := testContext()
	e := ctx.StatementEntry(model.StatementEntry{Name: "VENDAS CARTAO TIPO DEBITO CIELO-ELO", Value: 9500})
	assert.Equal(t, model.CategoryDebitElo, e.Category)

	e = ctx.StatementEntry(model.StatementEntry{Name: "TARIFA", Value: -10})
	assert.Equal(t, model.CategoryOutcome, e.Category)
}
