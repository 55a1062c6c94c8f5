// Package models defines the working model the engine builds while walking
// statement pages, and the canonical record it serializes once validated.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/parsererror"
	"fjacquet/hkstmt/internal/textutils"
)

// Transaction kinds.
const (
	KindPurchase = "purchase_or_charge"
	KindRefund   = "refund_or_credit"
	KindPayment  = "payment"
)

// Payment method tags recognized on continuation lines.
const (
	MethodApplePay   = "APPLE_PAY"
	MethodUnionPayQR = "UNIONPAY_QR"
)

// PageBlock is one physical page's normalized lines, owned by exactly one
// sub-account once assigned.
type PageBlock struct {
	PageNumber int
	Lines      []string
}

// Transaction is a processed purchase, refund or payment line. It is created
// when a transaction-shaped line matches and may only be amended by the
// continuation lines immediately following it.
type Transaction struct {
	PostDate        string
	TransactionDate string
	Description     string
	Amount          decimal.Decimal
	SignedAmount    decimal.Decimal
	IsCredit        bool
	Kind            string
	CardNumber      string
	CardholderName  string
	PaymentMethod   *string
	RegionCode      *string
	Currency        string
	CurrencyAmount  decimal.Decimal
	ExchangeRate    *decimal.Decimal
	Notes           []string
}

// SubAccount is one currency-denominated account within the statement, keyed
// by its 16-digit account number.
type SubAccount struct {
	AccountNumber          string
	SubAccountCurrency     string
	AmountCurrency         string
	StatementBalanceHeader *decimal.Decimal
	Pages                  []PageBlock

	Cards                   map[string]string
	PreviousBalance         *decimal.Decimal
	StatementBalanceSummary *decimal.Decimal
	SummaryCreditPayment    *decimal.Decimal
	SummaryPurchases        *decimal.Decimal
	SummaryTotal            *decimal.Decimal
	Transactions            []*Transaction
}

// NewSubAccount creates a sub-account for the given number with empty card
// and transaction lists.
func NewSubAccount(accountNumber string) *SubAccount {
	return &SubAccount{
		AccountNumber: accountNumber,
		Cards:         make(map[string]string),
	}
}

// Statement is the fully reconstructed document: one product, one date shared
// by all pages, and at least one validated sub-account.
type Statement struct {
	Product     string
	Date        time.Time
	SubAccounts []*SubAccount
}

// ParseCardNumber strips all non-digits and requires exactly 16 digits.
func ParseCardNumber(raw, context string) (string, error) {
	digits := textutils.Digits(raw)
	if len(digits) != 16 {
		return "", &parsererror.TokenError{Kind: "account number", Value: raw, Context: context}
	}
	return digits, nil
}
