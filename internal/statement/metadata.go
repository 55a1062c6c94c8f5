package statement

import (
	"strings"

	"fjacquet/hkstmt/internal/dateutils"
	"fjacquet/hkstmt/internal/parsererror"
	"fjacquet/hkstmt/internal/pdfextract"
	"fjacquet/hkstmt/internal/textutils"
)

// headerScanDepth limits title-region scans to the top of the page, keeping
// body dates from masquerading as the statement date.
const headerScanDepth = 80

// recordStatementDate parses a declared statement date and enforces that
// every page agrees on the same one.
func (d *document) recordStatementDate(dayRaw, monRaw, yearRaw, context string) error {
	parsed, err := dateutils.ParseStatementDate(dayRaw, strings.ToUpper(monRaw), yearRaw, context)
	if err != nil {
		return err
	}
	if d.statementDate == nil {
		d.statementDate = &parsed
		return nil
	}
	if !parsed.Equal(*d.statementDate) {
		return &parsererror.ConflictError{
			Label:    "statement date",
			Existing: dateutils.ToISO(*d.statementDate),
			New:      dateutils.ToISO(parsed),
			Context:  context,
		}
	}
	return nil
}

// observeStatementDate looks for a declared statement date on the page,
// preferring the plain rendering; if none is found and no date is known yet,
// it falls back to scanning the title region near a "Statement date" marker.
func (d *document) observeStatementDate(p *pageView) error {
	m := p.searchBoth(statementDateRe)
	if m != nil {
		return d.recordStatementDate(m[1], m[2], m[3], p.context)
	}
	if d.statementDate == nil {
		if day, mon, year, ok := headerStatementDate(p.layout, p.plain); ok {
			return d.recordStatementDate(day, mon, year, p.context)
		}
	}
	return nil
}

// headerStatementDate extracts a date near a "Statement date" marker in the
// title region, supporting both "12JAN2026" and "12 JAN 2026". Layout lines
// carry better header geometry, so they are tried first.
func headerStatementDate(layoutText, plainText string) (day, mon, year string, ok bool) {
	if day, mon, year, ok = headerDateFromLines(textutils.NonBlankLines(layoutText)); ok {
		return day, mon, year, true
	}
	return headerDateFromLines(textutils.NonBlankLines(plainText))
}

func headerDateFromLines(lines []string) (day, mon, year string, ok bool) {
	top := lines
	if len(top) > headerScanDepth {
		top = top[:headerScanDepth]
	}
	for idx, line := range top {
		if !strings.Contains(textutils.Compact(line), "STATEMENTDATE") {
			continue
		}
		end := idx + 4
		if end > len(top) {
			end = len(top)
		}
		for _, candidate := range top[idx:end] {
			if m := headerDateTokenRe.FindStringSubmatch(strings.ToUpper(candidate)); m != nil {
				return m[1], m[2], m[3], true
			}
		}
	}
	return "", "", "", false
}

// inferProduct scans the plain rendering of every page for a human-readable
// product name near a "Card type" marker, with a short lookahead window.
// Candidate lines that look like other header fields are rejected.
func inferProduct(pages []pdfextract.PageText) (string, error) {
	// Both spaced and glued variants: plain extraction sometimes glues the
	// marker words, sometimes not. Matching stays on the space-preserving
	// form so "PAGE" cannot match across a word boundary.
	blocked := []string{
		"STATEMENT DATE", "STATEMENTDATE",
		"ACCOUNT NUMBER", "ACCOUNTNUMBER",
		"CREDIT LIMIT", "CREDITLIMIT",
		"POST DATE", "POSTDATE",
		"PAGE",
	}

	for _, pg := range pages {
		lines := textutils.NonBlankLines(pg.Plain)
		for idx, line := range lines {
			if !strings.Contains(textutils.Compact(line), "CARDTYPE") {
				continue
			}
			end := idx + 8
			if end > len(lines) {
				end = len(lines)
			}
		candidates:
			for _, candidate := range lines[idx+1 : end] {
				upper := strings.ToUpper(candidate)
				for _, bad := range blocked {
					if strings.Contains(upper, bad) {
						continue candidates
					}
				}
				if m := productAmountRe.FindStringSubmatch(candidate); m != nil {
					return normalizeProduct(m[1]), nil
				}
				if m := productCodeRe.FindStringSubmatch(upper); m != nil {
					product := normalizeProduct(m[1])
					if product != "O" && product != "CHINA" &&
						!textutils.ContainsDigit(product) &&
						len(strings.Fields(product)) <= 5 {
						return product, nil
					}
				}
			}
		}
	}
	return "", &parsererror.MissingContextError{What: "statement product", Context: "document"}
}

// normalizeProduct upper-cases a product name and repairs known suffixes the
// plain extraction sometimes glues to the preceding word.
func normalizeProduct(raw string) string {
	product := strings.ToUpper(textutils.Squeeze(raw))
	product = gluedDualCurrencyRe.ReplaceAllString(product, "$1 $2")
	product = gluedCreditCardRe.ReplaceAllString(product, "$1 CREDIT CARD")
	return textutils.Squeeze(product)
}
