package statement

import (
	"sort"

	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/dateutils"
	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/moneyutils"
)

// Assemble serializes a validated statement into the canonical record:
// accounts sorted by account number, cards sorted by card number,
// transactions in encounter order within each card.
func Assemble(st *models.Statement) *models.Record {
	record := &models.Record{
		StatementProduct: st.Product,
		StatementDate:    dateutils.ToISO(st.Date),
		SubAccounts:      make([]models.AccountRecord, 0, len(st.SubAccounts)),
	}
	for _, account := range st.SubAccounts {
		record.SubAccounts = append(record.SubAccounts, assembleAccount(account))
	}
	return record
}

func assembleAccount(account *models.SubAccount) models.AccountRecord {
	credits, debits := accountTotals(account)
	previous := decimal.Zero
	if account.PreviousBalance != nil {
		previous = *account.PreviousBalance
	}
	computed := moneyutils.Quantize(previous.Add(debits).Sub(credits))

	// Effective balance for output: first present of summary, total, header,
	// computed net.
	effective := computed
	switch {
	case account.StatementBalanceSummary != nil:
		effective = *account.StatementBalanceSummary
	case account.SummaryTotal != nil:
		effective = *account.SummaryTotal
	case account.StatementBalanceHeader != nil:
		effective = *account.StatementBalanceHeader
	}

	byCard := make(map[string][]models.TransactionRecord, len(account.Cards))
	for cardNumber := range account.Cards {
		byCard[cardNumber] = []models.TransactionRecord{}
	}
	for _, tx := range account.Transactions {
		byCard[tx.CardNumber] = append(byCard[tx.CardNumber], assembleTransaction(tx))
	}

	cardNumbers := make([]string, 0, len(account.Cards))
	for cardNumber := range account.Cards {
		cardNumbers = append(cardNumbers, cardNumber)
	}
	sort.Strings(cardNumbers)

	cards := make([]models.CardRecord, 0, len(cardNumbers))
	for _, cardNumber := range cardNumbers {
		cards = append(cards, models.CardRecord{
			CardNumber:     cardNumber,
			CardholderName: account.Cards[cardNumber],
			Transactions:   byCard[cardNumber],
		})
	}

	return models.AccountRecord{
		AccountNumber:      account.AccountNumber,
		SubAccountCurrency: account.SubAccountCurrency,
		AmountCurrency:     account.AmountCurrency,
		StatementBalance:   moneyutils.Format(effective),
		PreviousBalance:    moneyutils.Format(previous),
		Summary: models.SummaryRecord{
			CreditPayment:           moneyPtr(account.SummaryCreditPayment),
			PurchasesAndInstalments: moneyPtr(account.SummaryPurchases),
			TotalAccountBalance:     moneyPtr(account.SummaryTotal),
		},
		Cards: cards,
	}
}

func assembleTransaction(tx *models.Transaction) models.TransactionRecord {
	currencyAmount := moneyutils.Format(tx.CurrencyAmount)
	notes := tx.Notes
	if notes == nil {
		notes = []string{}
	}
	rec := models.TransactionRecord{
		PostDate:        tx.PostDate,
		TransactionDate: tx.TransactionDate,
		Description:     tx.Description,
		Amount:          moneyutils.Format(tx.Amount),
		SignedAmount:    moneyutils.Format(tx.SignedAmount),
		IsCredit:        tx.IsCredit,
		Kind:            tx.Kind,
		PaymentMethod:   tx.PaymentMethod,
		RegionCode:      tx.RegionCode,
		Currency:        tx.Currency,
		CurrencyAmount:  &currencyAmount,
		Notes:           notes,
	}
	if tx.ExchangeRate != nil {
		rate := moneyutils.FormatExact(*tx.ExchangeRate)
		rec.ExchangeRate = &rate
	}
	return rec
}

func moneyPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := moneyutils.Format(*d)
	return &s
}
