package statement

import "regexp"

// The statement has no grammar, only recognizable textual shapes. Every
// pattern below is anchored to the normalized (whitespace-squeezed) form of a
// line or of a whole page.
var (
	accountHeaderRe = regexp.MustCompile(
		`(?i)Account\s*number\s+((?:\d{4}\s*){4})\s*(HKD|RMB)\s*Sub-account\s+` +
			`Statement\s*balance\s+(HKD|CNY)\s*([0-9,]+\.\d{2})`)
	singleBalanceRe = regexp.MustCompile(
		`(?i)Statement\s*date\s+Statement\s*balance\s+(\d{2})\s+([A-Z]{3})\s+(\d{4})\s+` +
			`(HKD|CNY|RMB)\s*([0-9,]+\.\d{2})`)
	statementDateRe = regexp.MustCompile(
		`(?i)Statement\s*date\s+(\d{2})\s+([A-Z]{3})\s+(\d{4})`)
	amountHeaderRe = regexp.MustCompile(`(?i)Amount\s*\((HKD|CNY|RMB)\)`)

	// 16 digits in groups of four; digit-adjacency is checked separately since
	// RE2 has no lookbehind.
	cardNumberAnywhereRe = regexp.MustCompile(`\d{4}(?:\s+\d{4}){3}`)

	cardHolderRe = regexp.MustCompile(`^((?:\d{4}\s+){3}\d{4})\s+([A-Za-z][A-Za-z .,'()/-]{1,48})$`)

	previousBalanceRe  = regexp.MustCompile(`^PREVIOUS BALANCE\s+([0-9][0-9,]*\.\d{2})$`)
	statementBalanceRe = regexp.MustCompile(`^STATEMENT BALANCE\s+([0-9][0-9,]*\.\d{2})$`)
	summaryCreditRe    = regexp.MustCompile(`^CREDIT/PAYMENT\s*:\s*([0-9][0-9,]*\.\d{2}(?:CR)?)$`)
	summaryPurchaseRe  = regexp.MustCompile(`^PURCHASES AND INSTALMENTS\s*:\s*([0-9][0-9,]*\.\d{2})$`)
	summaryTotalRe     = regexp.MustCompile(`^TOTAL ACCOUNT BALANCE\s*:\s*([0-9][0-9,]*\.\d{2})$`)

	transactionPrefixRe = regexp.MustCompile(`^\d{2}[A-Z]{3}\b`)
	transactionRe       = regexp.MustCompile(
		`^(\d{2}[A-Z]{3})\s+(\d{2}[A-Z]{3})\s+(.+?)\s+([0-9][0-9,]*\.\d{2}(?:CR)?)$`)

	continuationRe = regexp.MustCompile(
		`(?i)^(?:APPLE\s*PAY-MOBILE:\d{4}|UNIONPAY\s*QR|\*EXCHANGE\s*RATE:\s*[0-9.]+)$`)
	applePayRe     = regexp.MustCompile(`(?i)^APPLE\s*PAY-MOBILE:(\d{4})$`)
	unionPayQRRe   = regexp.MustCompile(`(?i)^UNIONPAY\s*QR$`)
	exchangeRateRe = regexp.MustCompile(`(?i)^\*EXCHANGE\s*RATE:\s*([0-9]+(?:\.[0-9]+)?)$`)

	alpha2Re = regexp.MustCompile(`^[A-Z]{2}$`)
	alpha3Re = regexp.MustCompile(`^[A-Z]{3}$`)

	headerDateTokenRe = regexp.MustCompile(`(?i)(\d{2})\s*([A-Z]{3})\s*(\d{4})`)

	productAmountRe = regexp.MustCompile(`^([A-Z][A-Z0-9 &/-]{2,}?)\s*HKD[0-9,]+\.\d{2}\*?$`)
	productCodeRe   = regexp.MustCompile(`^(?:\d{8,}\s+)?([A-Z][A-Z0-9 &/-]{2,})$`)

	// Known product suffixes that plain extraction sometimes glues to the
	// preceding word.
	gluedDualCurrencyRe = regexp.MustCompile(`(^|\S)(DUALCURRENCY)\b`)
	gluedCreditCardRe   = regexp.MustCompile(`(^|\S)(CREDITCARD)\b`)
)

// findCardNumbers returns the distinct 16-digit numbers in text, enforcing
// that each match is not embedded in a longer digit run. A rejected span is
// re-scanned from its second character so a valid number overlapping it is
// still found.
func findCardNumbers(text string) []string {
	seen := make(map[string]bool)
	var numbers []string
	for start := 0; start < len(text); {
		loc := cardNumberAnywhereRe.FindStringIndex(text[start:])
		if loc == nil {
			break
		}
		begin, end := start+loc[0], start+loc[1]
		if begin > 0 && isDigit(text[begin-1]) || end < len(text) && isDigit(text[end]) {
			start = begin + 1
			continue
		}
		digits := digitsOnly(text[begin:end])
		if !seen[digits] {
			seen[digits] = true
			numbers = append(numbers, digits)
		}
		start = end
	}
	return numbers
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func digitsOnly(s string) string {
	out := make([]byte, 0, 16)
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			out = append(out, s[i])
		}
	}
	return string(out)
}
