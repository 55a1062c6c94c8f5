package models

// Record is the canonical output of a validated parse. Field names and
// nesting are the contract consumed by the storage and serving layer.
type Record struct {
	StatementProduct string          `json:"statement_product"`
	StatementDate    string          `json:"statement_date"`
	SubAccounts      []AccountRecord `json:"sub_accounts"`
}

// AccountRecord is one serialized sub-account. Monetary fields are
// fixed-point strings with exactly two fractional digits.
type AccountRecord struct {
	AccountNumber      string        `json:"account_number"`
	SubAccountCurrency string        `json:"sub_account_currency"`
	AmountCurrency     string        `json:"amount_currency"`
	StatementBalance   string        `json:"statement_balance"`
	PreviousBalance    string        `json:"previous_balance"`
	Summary            SummaryRecord `json:"summary"`
	Cards              []CardRecord  `json:"cards"`
}

// SummaryRecord carries the three independently declared totals; absent
// totals serialize as null.
type SummaryRecord struct {
	CreditPayment           *string `json:"credit_payment"`
	PurchasesAndInstalments *string `json:"purchases_and_instalments"`
	TotalAccountBalance     *string `json:"total_account_balance"`
}

// CardRecord groups a card's transactions in encounter order.
type CardRecord struct {
	CardNumber     string              `json:"card_number"`
	CardholderName string              `json:"cardholder_name"`
	Transactions   []TransactionRecord `json:"transactions"`
}

// TransactionRecord is one serialized transaction. Exchange rates keep the
// precision the statement disclosed; everything else monetary is quantized.
type TransactionRecord struct {
	PostDate        string   `json:"post_date"`
	TransactionDate string   `json:"transaction_date"`
	Description     string   `json:"description"`
	Amount          string   `json:"amount"`
	SignedAmount    string   `json:"signed_amount"`
	IsCredit        bool     `json:"is_credit"`
	Kind            string   `json:"kind"`
	PaymentMethod   *string  `json:"payment_method"`
	RegionCode      *string  `json:"region_code_alpha2"`
	Currency        string   `json:"currency"`
	CurrencyAmount  *string  `json:"currency_amount"`
	ExchangeRate    *string  `json:"exchange_rate"`
	Notes           []string `json:"notes"`
}
