package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/parsererror"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func validAccount() *models.SubAccount {
	acct := models.NewSubAccount("1234567890123456")
	acct.SubAccountCurrency = "HKD"
	acct.AmountCurrency = "HKD"
	acct.Cards["1234567890123456"] = "CHAN TAI MAN"
	acct.PreviousBalance = decPtr("1000.00")
	acct.StatementBalanceSummary = decPtr("900.00")
	acct.SummaryCreditPayment = decPtr("1000.00")
	acct.SummaryPurchases = decPtr("900.00")
	acct.Transactions = []*models.Transaction{
		{
			PostDate: "2026-01-04", TransactionDate: "2026-01-03",
			Description: "PAYMENT PAID BY AUTOPAY",
			Amount:      dec("1000.00"), SignedAmount: dec("-1000.00"),
			IsCredit: true, Kind: models.KindPayment,
			CardNumber: "1234567890123456", CardholderName: "CHAN TAI MAN",
			Currency: "HKD", CurrencyAmount: dec("1000.00"),
		},
		{
			PostDate: "2026-01-05", TransactionDate: "2026-01-04",
			Description: "STARBUCKS",
			Amount:      dec("900.00"), SignedAmount: dec("900.00"),
			Kind:       models.KindPurchase,
			CardNumber: "1234567890123456", CardholderName: "CHAN TAI MAN",
			Currency: "HKD", CurrencyAmount: dec("900.00"),
		},
	}
	return acct
}

func TestValidateAccountHappyPath(t *testing.T) {
	assert.NoError(t, validateAccount(validAccount()))
}

func TestValidateAccountRequiresPreviousBalance(t *testing.T) {
	acct := validAccount()
	acct.PreviousBalance = nil
	var missing *parsererror.MissingContextError
	require.ErrorAs(t, validateAccount(acct), &missing)
	assert.Equal(t, "previous balance", missing.What)
}

func TestValidateAccountSummaryMismatches(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SubAccount)
	}{
		{"credit summary disagrees", func(a *models.SubAccount) {
			a.SummaryCreditPayment = decPtr("999.00")
		}},
		{"credit summary missing with credits present", func(a *models.SubAccount) {
			a.SummaryCreditPayment = nil
		}},
		{"purchases summary disagrees", func(a *models.SubAccount) {
			a.SummaryPurchases = decPtr("901.00")
		}},
		{"purchases summary missing with debits present", func(a *models.SubAccount) {
			a.SummaryPurchases = nil
		}},
		{"statement balance disagrees with net", func(a *models.SubAccount) {
			a.StatementBalanceSummary = decPtr("950.00")
		}},
		{"total disagrees with net", func(a *models.SubAccount) {
			a.SummaryTotal = decPtr("950.00")
		}},
		{"header disagrees with net", func(a *models.SubAccount) {
			a.StatementBalanceHeader = decPtr("950.00")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := validAccount()
			tt.mutate(acct)
			var recon *parsererror.ReconciliationError
			require.ErrorAs(t, validateAccount(acct), &recon)
			assert.Equal(t, "1234567890123456", recon.AccountNumber)
		})
	}
}

func TestValidateAccountNeedsBalanceAnchor(t *testing.T) {
	acct := validAccount()
	acct.StatementBalanceSummary = nil
	var recon *parsererror.ReconciliationError
	require.ErrorAs(t, validateAccount(acct), &recon)
	assert.Contains(t, recon.Reason, "anchor")
}

func TestValidateAccountAnyAnchorSuffices(t *testing.T) {
	acct := validAccount()
	acct.StatementBalanceSummary = nil
	acct.StatementBalanceHeader = decPtr("900.00")
	assert.NoError(t, validateAccount(acct))

	acct = validAccount()
	acct.StatementBalanceSummary = nil
	acct.SummaryTotal = decPtr("900.00")
	assert.NoError(t, validateAccount(acct))
}

func TestValidateConversionForeignCurrency(t *testing.T) {
	foreign := func(rate *decimal.Decimal) *models.SubAccount {
		acct := validAccount()
		acct.SummaryPurchases = decPtr("1160.00")
		acct.StatementBalanceSummary = decPtr("1160.00")
		acct.Transactions = append(acct.Transactions, &models.Transaction{
			PostDate: "2026-01-06", TransactionDate: "2026-01-05",
			Description: "AMAZON.CO.JP TOKYO",
			Amount:      dec("260.00"), SignedAmount: dec("260.00"),
			Kind:       models.KindPurchase,
			CardNumber: "1234567890123456", CardholderName: "CHAN TAI MAN",
			Currency: "JPY", CurrencyAmount: dec("5000.00"),
			ExchangeRate: rate,
		})
		return acct
	}

	t.Run("within tolerance", func(t *testing.T) {
		assert.NoError(t, validateAccount(foreign(decPtr("0.052"))))
	})

	t.Run("missing rate", func(t *testing.T) {
		var recon *parsererror.ReconciliationError
		require.ErrorAs(t, validateAccount(foreign(nil)), &recon)
		assert.Contains(t, recon.Reason, "missing exchange rate")
	})

	t.Run("rate outside tolerance", func(t *testing.T) {
		var recon *parsererror.ReconciliationError
		require.ErrorAs(t, validateAccount(foreign(decPtr("0.06"))), &recon)
		assert.Contains(t, recon.Reason, "conversion mismatch")
	})
}

func TestValidateConversionRateWithoutForeignCurrency(t *testing.T) {
	acct := validAccount()
	acct.Transactions[1].ExchangeRate = decPtr("1.0")
	var recon *parsererror.ReconciliationError
	require.ErrorAs(t, validateAccount(acct), &recon)
	assert.Contains(t, recon.Reason, "exchange rate present")
}

func TestValidateConversionRMBAndCNYShareABase(t *testing.T) {
	acct := models.NewSubAccount("9999888877776666")
	acct.SubAccountCurrency = "RMB"
	acct.AmountCurrency = "CNY"
	acct.Cards["9999888877776666"] = "CHAN TAI MAN"
	acct.PreviousBalance = decPtr("0.00")
	acct.SummaryPurchases = decPtr("35.00")
	acct.StatementBalanceSummary = decPtr("35.00")
	acct.Transactions = []*models.Transaction{{
		PostDate: "2026-01-05", TransactionDate: "2026-01-04",
		Description: "SHENZHEN RAIL",
		Amount:      dec("35.00"), SignedAmount: dec("35.00"),
		Kind:       models.KindPurchase,
		CardNumber: "9999888877776666", CardholderName: "CHAN TAI MAN",
		// RMB-labelled transaction on a CNY amount column is domestic.
		Currency: "CNY", CurrencyAmount: dec("35.00"),
	}}
	assert.NoError(t, validateAccount(acct))
}
