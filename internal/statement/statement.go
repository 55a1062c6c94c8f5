// Package statement implements the reconstruction engine: it turns per-page
// extracted text into a validated statement whose totals are internally
// consistent. The engine is a synchronous, fail-fast pipeline; the first
// violated invariant aborts the whole parse.
package statement

import (
	"sort"

	"fjacquet/hkstmt/internal/currencyutils"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/parsererror"
	"fjacquet/hkstmt/internal/pdfextract"
)

// Engine reconstructs statements from extracted page text. It holds no
// per-document state; one Engine may parse any number of documents.
type Engine struct {
	log logging.Logger
}

// New creates an Engine logging through the given logger.
func New(log logging.Logger) *Engine {
	return &Engine{log: log}
}

// ParseFile extracts a document's pages and parses them into the canonical
// record.
func (e *Engine) ParseFile(path string, extractor pdfextract.Extractor) (*models.Record, error) {
	pages, err := extractor.ExtractPages(path)
	if err != nil {
		return nil, err
	}
	e.log.Info("extracted document pages",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(pages)})
	return e.Parse(pages)
}

// Parse reconstructs, validates and assembles the canonical record.
func (e *Engine) Parse(pages []pdfextract.PageText) (*models.Record, error) {
	st, err := e.Reconstruct(pages)
	if err != nil {
		return nil, err
	}
	return Assemble(st), nil
}

// Reconstruct runs the full pipeline short of serialization: metadata
// extraction, page classification, per-account transaction reconstruction
// and reconciliation.
func (e *Engine) Reconstruct(pages []pdfextract.PageText) (*models.Statement, error) {
	if len(pages) == 0 {
		return nil, &parsererror.MissingContextError{What: "pages", Context: "document"}
	}

	product, err := inferProduct(pages)
	if err != nil {
		return nil, err
	}

	doc := &document{
		accounts: make(map[string]*models.SubAccount),
		log:      e.log,
	}
	for i, pg := range pages {
		page := newPageView(i+1, pg)
		if err := doc.observeStatementDate(page); err != nil {
			return nil, err
		}
		if err := doc.classifyPage(page); err != nil {
			return nil, err
		}
	}

	if doc.statementDate == nil {
		return nil, &parsererror.MissingContextError{What: "statement date", Context: "document"}
	}
	if len(doc.accounts) == 0 {
		return nil, &parsererror.MissingContextError{What: "account pages", Context: "document"}
	}

	accounts := make([]*models.SubAccount, 0, len(doc.accounts))
	for _, acct := range doc.accounts {
		accounts = append(accounts, acct)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})

	stmtDate := *doc.statementDate
	for _, account := range accounts {
		if err := resolveCurrencies(account); err != nil {
			return nil, err
		}
		if err := reconstructAccount(account, stmtDate.Year(), stmtDate.Month()); err != nil {
			return nil, err
		}
		if err := validateAccount(account); err != nil {
			return nil, err
		}
		e.log.Info("reconciled sub-account",
			logging.Field{Key: logging.FieldAccount, Value: account.AccountNumber},
			logging.Field{Key: logging.FieldCount, Value: len(account.Transactions)})
	}

	return &models.Statement{
		Product:     product,
		Date:        stmtDate,
		SubAccounts: accounts,
	}, nil
}

// resolveCurrencies fills whichever of the two currency fields a header never
// declared from the other; knowing neither is fatal.
func resolveCurrencies(account *models.SubAccount) error {
	if account.AmountCurrency == "" && account.SubAccountCurrency == "" {
		return &parsererror.MissingContextError{
			What:    "currency",
			Context: "account " + account.AccountNumber,
		}
	}
	if account.AmountCurrency == "" {
		account.AmountCurrency = currencyutils.AmountCurrencyFor(account.SubAccountCurrency)
	}
	if account.SubAccountCurrency == "" {
		account.SubAccountCurrency = currencyutils.SubCurrencyFor(account.AmountCurrency)
	}
	return nil
}
