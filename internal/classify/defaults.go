package classify

import "github.com/conciliador-dev/conciliador/internal/model"

// Patterns are matched against folded names; see Fold.

func days(n int) *int { return &n }

// DefaultFinisherRules is the payment-method table of the shift reports.
// Prepaid variants come before the plain card names they would otherwise
// shadow, and settle in 2 days instead of the credit default.
func DefaultFinisherRules() []Rule {
	return []Rule{
		{Name: `^.*RECEITAS$`, Category: model.CategoryRevenue},
		{Name: `^RECEBIMENTO DINHEIRO$`, Category: model.CategoryCash},
		{Name: `^USO E CONSUMO$`, Category: model.CategoryUsageAndConsumption},
		{Name: `^PRAZO$`, Category: model.CategoryInstallment},
		{Name: `^PIX`, Category: model.CategoryPix},

		{Name: `^PRE[ -]?PAGO VISA CREDITO$`, Category: model.CategoryCreditVisa, SettlementDays: days(2)},
		{Name: `^PRE[ -]?PAGO MASTER(CARD)? CREDITO$`, Category: model.CategoryCreditMaster, SettlementDays: days(2)},
		{Name: `^PRE[ -]?PAGO ELO CREDITO$`, Category: model.CategoryCreditElo, SettlementDays: days(2)},
		{Name: `^PRE[ -]?PAGO VISA DEBITO$`, Category: model.CategoryDebitVisa},
		{Name: `^PRE[ -]?PAGO MASTER(CARD)? DEBITO$`, Category: model.CategoryDebitMaster},
		{Name: `^PRE[ -]?PAGO ELO DEBITO$`, Category: model.CategoryDebitElo},

		{Name: `^VISA CREDITO$`, Category: model.CategoryCreditVisa},
		{Name: `^MASTER(CARD)? CREDITO$`, Category: model.CategoryCreditMaster},
		{Name: `^ELO CREDITO$`, Category: model.CategoryCreditElo},
		{Name: `^HIPER(CARD)?( CREDITO)?$`, Category: model.CategoryCreditHipercard},
		{Name: `^.*AMEX$`, Category: model.CategoryCreditAmex},

		{Name: `^VISA DEBITO$`, Category: model.CategoryDebitVisa},
		{Name: `^(MASTER(CARD)?|MAESTRO) DEBITO$`, Category: model.CategoryDebitMaster},
		{Name: `^ELO DEBITO$`, Category: model.CategoryDebitElo},
	}
}

// DefaultStatementRules is the bank-ledger table. The last two rules are the
// sign-keyed catch-alls, so statement entries are never uncategorized with it.
func DefaultStatementRules() []Rule {
	return []Rule{
		{Name: `^PIX CREDITO`, Except: `TRR IVAI COMERCIO DE COMBUST`, Category: model.CategoryPix},
		{Name: `^TRANSFERENCIA`, Value: `^\d+$`, Category: model.CategoryPix},
		{Name: `^DEPOSITO`, Category: model.CategoryDeposit},

		{Name: `^VENDAS CARTAO TIPO CREDITO.*CIELO-VISA`, Category: model.CategoryCreditVisa},
		{Name: `^VENDAS CARTAO TIPO CREDITO.*CIELO-MASTER`, Category: model.CategoryCreditMaster},
		{Name: `^VENDAS CARTAO TIPO CREDITO.*CIELO-ELO`, Category: model.CategoryCreditElo},
		{Name: `^VENDAS CARTAO TIPO CREDITO.*CIELO-HIPERCA`, Category: model.CategoryCreditHipercard},
		{Name: `^VENDAS CARTAO TIPO CREDITO.*CIELO-AMERICA`, Category: model.CategoryCreditAmex},

		{Name: `^VENDAS CARTAO TIPO DEBITO.*CIELO-VISA`, Category: model.CategoryDebitVisa},
		{Name: `^VENDAS CARTAO TIPO DEBITO.*CIELO-MAESTRO`, Category: model.CategoryDebitMaster},
		{Name: `^VENDAS CARTAO TIPO DEBITO.*CIELO-ELO`, Category: model.CategoryDebitElo},

		{Value: `^\d+$`, Category: model.CategoryIncome},
		{Value: `^-\d+$`, Category: model.CategoryOutcome},
	}
}
