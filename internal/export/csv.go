// Package export flattens a canonical statement record into CSV rows, one
// per transaction.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"fjacquet/hkstmt/internal/fileutils"
	"fjacquet/hkstmt/internal/models"
)

// Row is one flattened transaction. Optional fields render as empty cells.
type Row struct {
	StatementDate    string `csv:"statement_date"`
	StatementProduct string `csv:"statement_product"`
	AccountNumber    string `csv:"account_number"`
	AmountCurrency   string `csv:"amount_currency"`
	CardNumber       string `csv:"card_number"`
	CardholderName   string `csv:"cardholder_name"`
	PostDate         string `csv:"post_date"`
	TransactionDate  string `csv:"transaction_date"`
	Description      string `csv:"description"`
	Amount           string `csv:"amount"`
	SignedAmount     string `csv:"signed_amount"`
	IsCredit         bool   `csv:"is_credit"`
	Kind             string `csv:"kind"`
	PaymentMethod    string `csv:"payment_method"`
	RegionCode       string `csv:"region_code_alpha2"`
	Currency         string `csv:"currency"`
	CurrencyAmount   string `csv:"currency_amount"`
	ExchangeRate     string `csv:"exchange_rate"`
	Notes            string `csv:"notes"`
}

// Rows flattens a record in its canonical order: accounts by account number,
// cards by card number, transactions as encountered.
func Rows(record *models.Record) []Row {
	rows := []Row{}
	for _, account := range record.SubAccounts {
		for _, card := range account.Cards {
			for _, tx := range card.Transactions {
				rows = append(rows, Row{
					StatementDate:    record.StatementDate,
					StatementProduct: record.StatementProduct,
					AccountNumber:    account.AccountNumber,
					AmountCurrency:   account.AmountCurrency,
					CardNumber:       card.CardNumber,
					CardholderName:   card.CardholderName,
					PostDate:         tx.PostDate,
					TransactionDate:  tx.TransactionDate,
					Description:      tx.Description,
					Amount:           tx.Amount,
					SignedAmount:     tx.SignedAmount,
					IsCredit:         tx.IsCredit,
					Kind:             tx.Kind,
					PaymentMethod:    deref(tx.PaymentMethod),
					RegionCode:       deref(tx.RegionCode),
					Currency:         tx.Currency,
					CurrencyAmount:   deref(tx.CurrencyAmount),
					ExchangeRate:     deref(tx.ExchangeRate),
					Notes:            strings.Join(tx.Notes, "; "),
				})
			}
		}
	}
	return rows
}

// Write renders the record as CSV.
func Write(record *models.Record, w io.Writer) error {
	if err := gocsv.Marshal(Rows(record), w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteFile renders the record as CSV into a file, creating parent
// directories as needed.
func WriteFile(record *models.Record, path string) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Write(record, f)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
