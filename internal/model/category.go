package model

import "strings"

// Category classifies a finisher or statement entry into a reconciliation bucket.
type Category string

const (
	CategoryUncategorized       Category = "uncategorized"
	CategoryCash                Category = "cash"
	CategoryPix                 Category = "pix"
	CategoryDeposit             Category = "deposit"
	CategoryRevenue             Category = "revenue"
	CategoryUsageAndConsumption Category = "usage_and_consumption"
	CategoryInstallment         Category = "installment"
	CategoryIncome              Category = "income"
	CategoryOutcome             Category = "outcome"

	CategoryCreditVisa      Category = "card.credit.visa"
	CategoryCreditMaster    Category = "card.credit.master"
	CategoryCreditElo       Category = "card.credit.elo"
	CategoryCreditHipercard Category = "card.credit.hipercard"
	CategoryCreditAmex      Category = "card.credit.amex"
	CategoryDebitVisa       Category = "card.debit.visa"
	CategoryDebitMaster     Category = "card.debit.master"
	CategoryDebitElo        Category = "card.debit.elo"
	CategoryDebitHipercard  Category = "card.debit.hipercard"
	CategoryDebitAmex       Category = "card.debit.amex"
)

// Categories returns every known category except uncategorized, in a stable order.
func Categories() []Category {
	return []Category{
		CategoryCash,
		CategoryPix,
		CategoryDeposit,
		CategoryRevenue,
		CategoryUsageAndConsumption,
		CategoryInstallment,
		CategoryIncome,
		CategoryOutcome,
		CategoryCreditVisa,
		CategoryCreditMaster,
		CategoryCreditElo,
		CategoryCreditHipercard,
		CategoryCreditAmex,
		CategoryDebitVisa,
		CategoryDebitMaster,
		CategoryDebitElo,
		CategoryDebitHipercard,
		CategoryDebitAmex,
	}
}

// Known reports whether c is part of the taxonomy. Uncategorized is known.
func (c Category) Known() bool {
	if c == CategoryUncategorized {
		return true
	}
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// IsCredit reports whether c is a credit card category.
func (c Category) IsCredit() bool {
	return strings.HasPrefix(string(c), "card.credit.")
}

// IsDebit reports whether c is a debit card category.
func (c Category) IsDebit() bool {
	return strings.HasPrefix(string(c), "card.debit.")
}
