// Package dateutils provides the calendar parsing the statement needs:
// DDMON transaction dates with statement-relative year inference, and the
// full statement date itself.
package dateutils

import (
	"regexp"
	"strconv"
	"time"

	"fjacquet/hkstmt/internal/parsererror"
)

// DateLayoutISO is the canonical output layout for all dates.
const DateLayoutISO = "2006-01-02"

// Months maps the statement's three-letter month abbreviations.
var Months = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

var ddmonRe = regexp.MustCompile(`^\d{2}[A-Z]{3}$`)

// ParseDDMON parses a DDMON token (e.g. "05DEC") into an ISO date. The year
// is the statement year, or the statement year minus one if the token's month
// is numerically greater than the statement's month: a January statement can
// carry December transactions from the year before. The rule is deliberately
// limited to one year back.
func ParseDDMON(token string, statementYear int, statementMonth time.Month, context string) (string, error) {
	if !ddmonRe.MatchString(token) {
		return "", &parsererror.TokenError{Kind: "date", Value: token, Context: context}
	}
	day, _ := strconv.Atoi(token[:2])
	month, ok := Months[token[2:]]
	if !ok {
		return "", &parsererror.TokenError{Kind: "date", Value: token, Context: context}
	}
	year := statementYear
	if month > statementMonth {
		year = statementYear - 1
	}
	parsed, err := makeDate(year, month, day)
	if err != nil {
		return "", &parsererror.TokenError{Kind: "date", Value: token, Context: context}
	}
	return parsed.Format(DateLayoutISO), nil
}

// ParseStatementDate parses the day/month/year parts of a declared statement
// date ("12 JAN 2026").
func ParseStatementDate(dayRaw, monRaw, yearRaw, context string) (time.Time, error) {
	month, ok := Months[monRaw]
	if !ok {
		return time.Time{}, &parsererror.TokenError{Kind: "date", Value: monRaw, Context: context}
	}
	day, err := strconv.Atoi(dayRaw)
	if err != nil {
		return time.Time{}, &parsererror.TokenError{Kind: "date", Value: dayRaw, Context: context}
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		return time.Time{}, &parsererror.TokenError{Kind: "date", Value: yearRaw, Context: context}
	}
	parsed, err := makeDate(year, month, day)
	if err != nil {
		return time.Time{}, &parsererror.TokenError{
			Kind: "date", Value: dayRaw + " " + monRaw + " " + yearRaw, Context: context,
		}
	}
	return parsed, nil
}

// ToISO formats a date as YYYY-MM-DD.
func ToISO(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// makeDate builds a date and rejects values time.Date would silently
// normalize, such as 30 February.
func makeDate(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

var errInvalidDate = &parsererror.TokenError{Kind: "date", Value: "out of range", Context: "calendar"}
