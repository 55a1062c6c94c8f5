package statement

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/currencyutils"
	"fjacquet/hkstmt/internal/dateutils"
	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/moneyutils"
	"fjacquet/hkstmt/internal/parsererror"
	"fjacquet/hkstmt/internal/textutils"
)

// reconstructor is the accumulator threaded through the line-by-line walk
// over one sub-account's pages. Cardholder context survives page breaks; the
// last-transaction context does not.
type reconstructor struct {
	account      *models.SubAccount
	baseCurrency string
	stmtYear     int
	stmtMonth    time.Month

	currentCard string
	lastTx      *models.Transaction
}

// reconstructAccount walks every page of the account in page order, line
// order, classifying each normalized line and emitting transactions and
// summary totals onto the account.
func reconstructAccount(account *models.SubAccount, stmtYear int, stmtMonth time.Month) error {
	if account.AmountCurrency == "" {
		return &parsererror.MissingContextError{
			What:    "amount currency",
			Context: "account " + account.AccountNumber,
		}
	}
	r := &reconstructor{
		account:      account,
		baseCurrency: currencyutils.CanonicalBase(account.AmountCurrency),
		stmtYear:     stmtYear,
		stmtMonth:    stmtMonth,
	}
	for _, page := range account.Pages {
		r.lastTx = nil
		for i, raw := range page.Lines {
			line := textutils.Squeeze(raw)
			if line == "" {
				continue
			}
			context := fmt.Sprintf("page %d line %d", page.PageNumber, i+1)
			if err := r.step(line, context); err != nil {
				return err
			}
		}
	}
	return nil
}

// step classifies one normalized line and applies its effect. Every branch
// either fully consumes the line or fails; a line matching a known prefix but
// not its strict shape is a hard error.
func (r *reconstructor) step(line, context string) error {
	if handled, err := r.trySummary(line, context); handled || err != nil {
		return err
	}
	if handled, err := r.tryCardholder(line, context); handled || err != nil {
		return err
	}
	if transactionPrefixRe.MatchString(line) {
		return r.takeTransaction(line, context)
	}
	if r.lastTx != nil && continuationRe.MatchString(line) {
		return r.takeContinuation(line, context)
	}

	// Malformed variants of known summary prefixes are never skipped.
	for _, prefix := range []string{
		"PREVIOUS BALANCE",
		"STATEMENT BALANCE",
		"CREDIT/PAYMENT",
		"PURCHASES AND INSTALMENTS",
		"TOTAL ACCOUNT BALANCE",
	} {
		if strings.HasPrefix(line, prefix) {
			return &parsererror.LineShapeError{
				Line:    line,
				Reason:  "malformed " + prefix + " line",
				Context: context,
			}
		}
	}
	return nil
}

// summary sign rules
const (
	mustNotBeCredit = iota
	mustBeCreditUnlessZero
)

type summarySpec struct {
	re    *regexp.Regexp
	label string
	rule  int
	slot  func(*models.SubAccount) **decimal.Decimal
}

var summarySpecs = []summarySpec{
	{previousBalanceRe, "previous balance", mustNotBeCredit,
		func(a *models.SubAccount) **decimal.Decimal { return &a.PreviousBalance }},
	{statementBalanceRe, "statement balance", mustNotBeCredit,
		func(a *models.SubAccount) **decimal.Decimal { return &a.StatementBalanceSummary }},
	{summaryCreditRe, "CREDIT/PAYMENT summary", mustBeCreditUnlessZero,
		func(a *models.SubAccount) **decimal.Decimal { return &a.SummaryCreditPayment }},
	{summaryPurchaseRe, "PURCHASES AND INSTALMENTS summary", mustNotBeCredit,
		func(a *models.SubAccount) **decimal.Decimal { return &a.SummaryPurchases }},
	{summaryTotalRe, "TOTAL ACCOUNT BALANCE summary", mustNotBeCredit,
		func(a *models.SubAccount) **decimal.Decimal { return &a.SummaryTotal }},
}

// trySummary matches the five summary-line shapes. Each field is single-write
// with enforced sign expectations; any summary line resets the continuation
// context.
func (r *reconstructor) trySummary(line, context string) (bool, error) {
	for _, spec := range summarySpecs {
		m := spec.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount, _, isCredit, err := moneyutils.ParseMoney(m[1], context)
		if err != nil {
			return true, err
		}
		switch spec.rule {
		case mustNotBeCredit:
			if isCredit {
				return true, &parsererror.LineShapeError{
					Line: line, Reason: spec.label + " cannot be credit-signed", Context: context,
				}
			}
		case mustBeCreditUnlessZero:
			if !amount.IsZero() && !isCredit {
				return true, &parsererror.LineShapeError{
					Line: line, Reason: spec.label + " must be credit-signed", Context: context,
				}
			}
		}
		slot := spec.slot(r.account)
		if *slot, err = claimDecimal(*slot, amount, spec.label, context); err != nil {
			return true, err
		}
		r.lastTx = nil
		return true, nil
	}
	return false, nil
}

// tryCardholder matches a 16-digit number followed by a name-shaped string
// and, if the name is plausible, sets the cardholder context. A card's name
// must stay consistent across all its appearances.
func (r *reconstructor) tryCardholder(line, context string) (bool, error) {
	m := cardHolderRe.FindStringSubmatch(line)
	if m == nil || !isProbableCardholder(m[2]) {
		return false, nil
	}
	cardNumber, err := models.ParseCardNumber(m[1], context)
	if err != nil {
		return true, err
	}
	name := textutils.Squeeze(m[2])
	if existing, ok := r.account.Cards[cardNumber]; ok {
		if existing != name {
			return true, &parsererror.ConflictError{
				Label:    "cardholder name for " + cardNumber,
				Existing: existing,
				New:      name,
				Context:  context,
			}
		}
	} else {
		r.account.Cards[cardNumber] = name
	}
	r.currentCard = cardNumber
	r.lastTx = nil
	return true, nil
}

// cardholderBlocklist holds header fragments that must never be taken for a
// person's name.
var cardholderBlocklist = []string{
	"PULSE",
	"DUALCURRENCY",
	"CARDTYPE",
	"STATEMENTDATE",
	"CREDITLIMIT",
	"ACCOUNTNUMBER",
}

// isProbableCardholder applies the plausibility rules for a cardholder name:
// 1 to 6 words, no digits, no known header fragments.
func isProbableCardholder(name string) bool {
	candidate := textutils.Compact(name)
	if textutils.ContainsDigit(candidate) {
		return false
	}
	for _, blocked := range cardholderBlocklist {
		if strings.Contains(candidate, blocked) {
			return false
		}
	}
	words := strings.Fields(strings.ToUpper(textutils.Squeeze(name)))
	return len(words) >= 1 && len(words) <= 6
}

// takeTransaction parses a line whose prefix looked transaction-shaped. The
// strict pattern must match and a cardholder context must exist; neither
// failure is recoverable.
func (r *reconstructor) takeTransaction(line, context string) error {
	m := transactionRe.FindStringSubmatch(line)
	if m == nil {
		return &parsererror.LineShapeError{
			Line:    line,
			Reason:  "transaction-like line could not be parsed",
			Context: context,
		}
	}
	if r.currentCard == "" {
		return &parsererror.MissingContextError{
			What:    "cardholder header before transaction",
			Context: context,
		}
	}
	postToken, transToken, descriptionRaw, amountRaw := m[1], m[2], m[3], m[4]

	amount, signed, isCredit, err := moneyutils.ParseMoney(amountRaw, context)
	if err != nil {
		return err
	}
	postDate, err := dateutils.ParseDDMON(postToken, r.stmtYear, r.stmtMonth, context)
	if err != nil {
		return err
	}
	transDate, err := dateutils.ParseDDMON(transToken, r.stmtYear, r.stmtMonth, context)
	if err != nil {
		return err
	}
	description, regionCode, txCurrency, txCurrencyAmount, err := splitDescriptionDetails(descriptionRaw, context)
	if err != nil {
		return err
	}
	if txCurrency == "" {
		txCurrency = r.baseCurrency
	}
	if txCurrencyAmount == nil {
		txCurrencyAmount = &amount
	}

	cardholderName, ok := r.account.Cards[r.currentCard]
	if !ok || cardholderName == "" {
		return &parsererror.MissingContextError{
			What:    "cardholder name for " + r.currentCard,
			Context: context,
		}
	}

	kind := models.KindPurchase
	if isCredit && strings.Contains(strings.ToUpper(description), "PAID BY AUTOPAY") {
		kind = models.KindPayment
	} else if isCredit {
		kind = models.KindRefund
	}

	tx := &models.Transaction{
		PostDate:        postDate,
		TransactionDate: transDate,
		Description:     description,
		Amount:          amount,
		SignedAmount:    signed,
		IsCredit:        isCredit,
		Kind:            kind,
		CardNumber:      r.currentCard,
		CardholderName:  cardholderName,
		RegionCode:      regionCode,
		Currency:        txCurrency,
		CurrencyAmount:  *txCurrencyAmount,
	}
	r.account.Transactions = append(r.account.Transactions, tx)
	r.lastTx = tx
	return nil
}

// takeContinuation attaches a continuation line to the transaction
// immediately above it. Exchange rate and payment method are single-write;
// anything else continuation-shaped becomes a note.
func (r *reconstructor) takeContinuation(line, context string) error {
	if m := exchangeRateRe.FindStringSubmatch(line); m != nil {
		rate, err := decimal.NewFromString(m[1])
		if err != nil {
			return &parsererror.TokenError{Kind: "money", Value: m[1], Context: context}
		}
		if r.lastTx.ExchangeRate, err = claimRate(r.lastTx.ExchangeRate, rate,
			"exchange rate", context); err != nil {
			return err
		}
		return nil
	}
	if applePayRe.MatchString(line) {
		return r.claimPaymentMethod(models.MethodApplePay, context)
	}
	if unionPayQRRe.MatchString(line) {
		return r.claimPaymentMethod(models.MethodUnionPayQR, context)
	}
	r.lastTx.Notes = append(r.lastTx.Notes, line)
	return nil
}

func (r *reconstructor) claimPaymentMethod(method, context string) error {
	if r.lastTx.PaymentMethod == nil {
		r.lastTx.PaymentMethod = &method
		return nil
	}
	if *r.lastTx.PaymentMethod != method {
		return &parsererror.ConflictError{
			Label:    "payment method",
			Existing: *r.lastTx.PaymentMethod,
			New:      method,
			Context:  context,
		}
	}
	return nil
}

// splitDescriptionDetails peels an optional trailing "<CCY> <amount>"
// foreign-currency disclosure and then an optional trailing 2-letter region
// code off the description.
func splitDescriptionDetails(descriptionRaw, context string) (description string, regionCode *string, currency string, currencyAmount *decimal.Decimal, err error) {
	tokens := strings.Fields(textutils.Squeeze(descriptionRaw))
	if len(tokens) == 0 {
		return "", nil, "", nil, &parsererror.LineShapeError{
			Line: descriptionRaw, Reason: "empty transaction description", Context: context,
		}
	}

	if len(tokens) >= 3 && alpha3Re.MatchString(tokens[len(tokens)-2]) &&
		moneyutils.IsPlainAmount(tokens[len(tokens)-1]) {
		currency = tokens[len(tokens)-2]
		amount, perr := moneyutils.ParsePlainAmount(tokens[len(tokens)-1], context)
		if perr != nil {
			return "", nil, "", nil, perr
		}
		currencyAmount = &amount
		tokens = tokens[:len(tokens)-2]
	}

	if len(tokens) >= 2 && alpha2Re.MatchString(tokens[len(tokens)-1]) {
		region := tokens[len(tokens)-1]
		regionCode = &region
		tokens = tokens[:len(tokens)-1]
	}

	description = strings.Join(tokens, " ")
	if description == "" {
		return "", nil, "", nil, &parsererror.LineShapeError{
			Line: descriptionRaw, Reason: "description empty after detail parsing", Context: context,
		}
	}
	return description, regionCode, currency, currencyAmount, nil
}
