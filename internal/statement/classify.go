package statement

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/currencyutils"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/moneyutils"
	"fjacquet/hkstmt/internal/parsererror"
	"fjacquet/hkstmt/internal/pdfextract"
	"fjacquet/hkstmt/internal/textutils"
)

// pageView carries both renderings of one page plus the derived forms the
// classifiers operate on.
type pageView struct {
	number  int
	layout  string
	plain   string
	lines   []string
	context string

	compactLayout string
	compactPlain  string

	// currency declared by a page-level "Amount (<CCY>)" marker, or ""
	amountCurrency string

	cardNumbers []string
	scanned     bool
}

func newPageView(number int, pg pdfextract.PageText) *pageView {
	p := &pageView{
		number:        number,
		layout:        pg.Layout,
		plain:         pg.Plain,
		context:       fmt.Sprintf("page %d", number),
		compactLayout: textutils.Squeeze(pg.Layout),
		compactPlain:  textutils.Squeeze(pg.Plain),
	}
	// Layout extraction keeps transaction rows stable; fall back to plain
	// only when the layout rendering is empty.
	if pg.Layout != "" {
		p.lines = strings.Split(pg.Layout, "\n")
	} else {
		p.lines = strings.Split(pg.Plain, "\n")
	}
	return p
}

// accounts returns the distinct 16-digit numbers on the page, preferring the
// layout rendering.
func (p *pageView) accounts() []string {
	if !p.scanned {
		p.cardNumbers = findCardNumbers(p.layout)
		if len(p.cardNumbers) == 0 {
			p.cardNumbers = findCardNumbers(p.plain)
		}
		p.scanned = true
	}
	return p.cardNumbers
}

// searchBoth applies a page-level pattern to the plain rendering first
// (header regions extract more reliably without layout column interleaving),
// then to the layout rendering.
func (p *pageView) searchBoth(re *regexp.Regexp) []string {
	if m := re.FindStringSubmatch(p.compactPlain); m != nil {
		return m
	}
	return re.FindStringSubmatch(p.compactLayout)
}

// document accumulates sub-accounts and the shared statement date while pages
// are classified in order.
type document struct {
	accounts      map[string]*models.SubAccount
	statementDate *time.Time
	log           logging.Logger
}

// pageClassifier attempts to fully resolve one page. It reports whether it
// matched; an error is fatal.
type pageClassifier func(*pageView) (bool, error)

// classifyPage runs the priority-ordered classifier chain. A page matching no
// classifier contributes nothing, which is normal for pages before the first
// account header.
func (d *document) classifyPage(p *pageView) error {
	if m := p.searchBoth(amountHeaderRe); m != nil {
		ccy, err := currencyutils.Normalize(m[1], p.context)
		if err != nil {
			return err
		}
		p.amountCurrency = ccy
	}

	for _, classify := range []pageClassifier{
		d.classifyAccountHeader,
		d.classifySingleBalance,
		d.classifyUniqueAccount,
	} {
		matched, err := classify(p)
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
	}
	d.log.Debug("page matched no account classifier",
		logging.Field{Key: logging.FieldPage, Value: p.number})
	return nil
}

// classifyAccountHeader resolves the full "account number … sub-account …
// statement balance" header that dual-currency statements print per account.
func (d *document) classifyAccountHeader(p *pageView) (bool, error) {
	m := p.searchBoth(accountHeaderRe)
	if m == nil {
		return false, nil
	}
	accountNumber, err := models.ParseCardNumber(m[1], p.context)
	if err != nil {
		return true, err
	}
	subCcy, err := currencyutils.Normalize(m[2], p.context)
	if err != nil {
		return true, err
	}
	amountCcy, err := currencyutils.Normalize(m[3], p.context)
	if err != nil {
		return true, err
	}
	balance, err := moneyutils.ParsePlainAmount(m[4], p.context)
	if err != nil {
		return true, err
	}

	// The header's two currencies must form a coherent pair.
	if subCcy == currencyutils.HKD && amountCcy != currencyutils.HKD ||
		subCcy == currencyutils.RMB && amountCcy != currencyutils.CNY && amountCcy != currencyutils.RMB {
		return true, &parsererror.ConflictError{
			Label:    "currency pair for account " + accountNumber,
			Existing: subCcy,
			New:      amountCcy,
			Context:  p.context,
		}
	}

	acct, err := d.upsertHeader(accountNumber, subCcy, amountCcy, &balance, p.context)
	if err != nil {
		return true, err
	}
	acct.Pages = append(acct.Pages, models.PageBlock{PageNumber: p.number, Lines: p.lines})
	d.log.Debug("account header page",
		logging.Field{Key: logging.FieldPage, Value: p.number},
		logging.Field{Key: logging.FieldAccount, Value: accountNumber})
	return true, nil
}

// classifySingleBalance resolves the simpler "statement date + statement
// balance" header, attributing the page via the single distinct account
// number in its body.
func (d *document) classifySingleBalance(p *pageView) (bool, error) {
	m := p.searchBoth(singleBalanceRe)
	if m == nil {
		return false, nil
	}
	if err := d.recordStatementDate(m[1], m[2], m[3], p.context); err != nil {
		return true, err
	}
	amountCcy, err := currencyutils.Normalize(m[4], p.context)
	if err != nil {
		return true, err
	}
	balance, err := moneyutils.ParsePlainAmount(m[5], p.context)
	if err != nil {
		return true, err
	}
	accounts := p.accounts()
	if len(accounts) != 1 {
		return true, &parsererror.MissingContextError{
			What:    "unique account number for single-balance header",
			Context: p.context,
		}
	}
	acct, err := d.upsertHeader(accounts[0], currencyutils.SubCurrencyFor(amountCcy), amountCcy, &balance, p.context)
	if err != nil {
		return true, err
	}
	acct.Pages = append(acct.Pages, models.PageBlock{PageNumber: p.number, Lines: p.lines})
	return true, nil
}

// classifyUniqueAccount appends a headerless page to the account owning the
// only 16-digit number it mentions, inheriting currency from the page-level
// amount marker when present.
func (d *document) classifyUniqueAccount(p *pageView) (bool, error) {
	accounts := p.accounts()
	if len(accounts) != 1 {
		return false, nil
	}
	accountNumber := accounts[0]
	acct, ok := d.accounts[accountNumber]
	if !ok {
		acct = models.NewSubAccount(accountNumber)
		if p.amountCurrency != "" {
			acct.AmountCurrency = p.amountCurrency
			acct.SubAccountCurrency = currencyutils.SubCurrencyFor(p.amountCurrency)
		}
		d.accounts[accountNumber] = acct
	} else if p.amountCurrency != "" {
		var err error
		if acct.AmountCurrency, err = claimString(acct.AmountCurrency, p.amountCurrency,
			"amount currency for account "+accountNumber, p.context); err != nil {
			return true, err
		}
		if acct.SubAccountCurrency, err = claimString(acct.SubAccountCurrency,
			currencyutils.SubCurrencyFor(p.amountCurrency),
			"sub-account currency for account "+accountNumber, p.context); err != nil {
			return true, err
		}
	}
	acct.Pages = append(acct.Pages, models.PageBlock{PageNumber: p.number, Lines: p.lines})
	return true, nil
}

// upsertHeader creates or updates a sub-account from header data. Currency
// and balance fields are first-write-wins, must-match-after.
func (d *document) upsertHeader(accountNumber, subCcy, amountCcy string, balance *decimal.Decimal, context string) (*models.SubAccount, error) {
	acct, ok := d.accounts[accountNumber]
	if !ok {
		acct = models.NewSubAccount(accountNumber)
		d.accounts[accountNumber] = acct
	}
	var err error
	if acct.SubAccountCurrency, err = claimString(acct.SubAccountCurrency, subCcy,
		"sub-account currency for account "+accountNumber, context); err != nil {
		return nil, err
	}
	if acct.AmountCurrency, err = claimString(acct.AmountCurrency, amountCcy,
		"amount currency for account "+accountNumber, context); err != nil {
		return nil, err
	}
	if balance != nil {
		if acct.StatementBalanceHeader, err = claimDecimal(acct.StatementBalanceHeader, *balance,
			"header statement balance for account "+accountNumber, context); err != nil {
			return nil, err
		}
	}
	return acct, nil
}
