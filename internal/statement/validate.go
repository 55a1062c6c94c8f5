package statement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/currencyutils"
	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/moneyutils"
	"fjacquet/hkstmt/internal/parsererror"
)

// conversionTolerance bounds |currency_amount × exchange_rate − amount| for
// foreign-currency transactions: the statement rounds the conversion, so an
// exact match cannot be required.
var conversionTolerance = decimal.RequireFromString("0.05")

// accountTotals sums credit and debit magnitudes over the reconstructed
// transaction list.
func accountTotals(account *models.SubAccount) (credits, debits decimal.Decimal) {
	credits, debits = decimal.Zero, decimal.Zero
	for _, tx := range account.Transactions {
		if tx.IsCredit {
			credits = credits.Add(tx.Amount)
		} else {
			debits = debits.Add(tx.Amount)
		}
	}
	return credits, debits
}

// validateAccount cross-checks the reconstructed ledger against every total
// the statement declares. Any discrepancy is fatal; financial totals are
// never reported speculatively.
func validateAccount(account *models.SubAccount) error {
	if account.PreviousBalance == nil {
		return &parsererror.MissingContextError{
			What:    "previous balance",
			Context: "account " + account.AccountNumber,
		}
	}
	if account.AmountCurrency == "" {
		return &parsererror.MissingContextError{
			What:    "amount currency",
			Context: "account " + account.AccountNumber,
		}
	}
	baseCurrency := currencyutils.CanonicalBase(account.AmountCurrency)

	credits, debits := accountTotals(account)
	net := moneyutils.Quantize(account.PreviousBalance.Add(debits).Sub(credits))

	for _, tx := range account.Transactions {
		if err := validateConversion(account, tx, baseCurrency); err != nil {
			return err
		}
	}

	if account.SummaryCreditPayment != nil && !credits.Equal(*account.SummaryCreditPayment) {
		return reconcileErr(account, "credit summary mismatch: transactions=%s summary=%s",
			moneyutils.Format(credits), moneyutils.Format(*account.SummaryCreditPayment))
	}
	if account.SummaryCreditPayment == nil && !credits.IsZero() {
		return reconcileErr(account, "credit transactions total %s but no CREDIT/PAYMENT summary declared",
			moneyutils.Format(credits))
	}

	if account.SummaryPurchases != nil && !debits.Equal(*account.SummaryPurchases) {
		return reconcileErr(account, "purchases summary mismatch: transactions=%s summary=%s",
			moneyutils.Format(debits), moneyutils.Format(*account.SummaryPurchases))
	}
	if account.SummaryPurchases == nil && !debits.IsZero() {
		return reconcileErr(account, "debit transactions total %s but no PURCHASES AND INSTALMENTS summary declared",
			moneyutils.Format(debits))
	}

	if account.StatementBalanceSummary == nil && account.SummaryTotal == nil &&
		account.StatementBalanceHeader == nil {
		return reconcileErr(account, "no statement balance anchor declared")
	}

	if account.StatementBalanceSummary != nil && !net.Equal(*account.StatementBalanceSummary) {
		return reconcileErr(account, "statement balance mismatch: previous+tx=%s statement=%s",
			moneyutils.Format(net), moneyutils.Format(*account.StatementBalanceSummary))
	}
	if account.SummaryTotal != nil && !net.Equal(*account.SummaryTotal) {
		return reconcileErr(account, "total account balance mismatch: previous+tx=%s total=%s",
			moneyutils.Format(net), moneyutils.Format(*account.SummaryTotal))
	}
	if account.StatementBalanceSummary != nil && account.SummaryTotal != nil &&
		!account.StatementBalanceSummary.Equal(*account.SummaryTotal) {
		return reconcileErr(account, "statement balance vs total mismatch: statement=%s total=%s",
			moneyutils.Format(*account.StatementBalanceSummary), moneyutils.Format(*account.SummaryTotal))
	}
	if account.StatementBalanceHeader != nil && !net.Equal(*account.StatementBalanceHeader) {
		return reconcileErr(account, "header vs reconstructed balance mismatch: header=%s previous+tx=%s",
			moneyutils.Format(*account.StatementBalanceHeader), moneyutils.Format(net))
	}
	return nil
}

// validateConversion enforces the foreign-currency rules: a transaction in a
// foreign currency must disclose a rate that reconciles with the posted
// amount; a base-currency transaction must not carry a rate at all.
func validateConversion(account *models.SubAccount, tx *models.Transaction, baseCurrency string) error {
	if tx.Currency == "" {
		return reconcileErr(account, "incomplete currency details in transaction %s %q",
			tx.PostDate, tx.Description)
	}
	if tx.Currency != baseCurrency {
		if tx.ExchangeRate == nil {
			return reconcileErr(account, "missing exchange rate for foreign transaction %s %q",
				tx.PostDate, tx.Description)
		}
		converted := moneyutils.Quantize(tx.CurrencyAmount.Mul(*tx.ExchangeRate))
		if converted.Sub(tx.Amount).Abs().GreaterThan(conversionTolerance) {
			return reconcileErr(account,
				"foreign conversion mismatch for transaction %s %q: foreign=%s %s rate=%s converted=%s posted=%s",
				tx.PostDate, tx.Description,
				tx.Currency, moneyutils.Format(tx.CurrencyAmount),
				moneyutils.FormatExact(*tx.ExchangeRate),
				moneyutils.Format(converted), moneyutils.Format(tx.Amount))
		}
		return nil
	}
	if tx.ExchangeRate != nil {
		return reconcileErr(account, "exchange rate present without foreign currency in transaction %s %q",
			tx.PostDate, tx.Description)
	}
	return nil
}

func reconcileErr(account *models.SubAccount, format string, args ...interface{}) error {
	return &parsererror.ReconciliationError{
		AccountNumber: account.AccountNumber,
		Reason:        fmt.Sprintf(format, args...),
	}
}
