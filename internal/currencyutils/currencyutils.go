// Package currencyutils normalizes the statement's currency labels. The
// statement prints RMB on sub-account headers and CNY on amount columns; both
// settle against the same base currency, so comparisons use a canonical form
// while display keeps the original label.
package currencyutils

import (
	"strings"

	"fjacquet/hkstmt/internal/parsererror"
)

// Supported currency labels.
const (
	HKD = "HKD"
	CNY = "CNY"
	RMB = "RMB"
)

// Normalize upper-cases a currency label and rejects anything outside the
// supported set.
func Normalize(raw, context string) (string, error) {
	ccy := strings.ToUpper(raw)
	switch ccy {
	case HKD, CNY, RMB:
		return ccy, nil
	default:
		return "", &parsererror.TokenError{Kind: "currency", Value: raw, Context: context}
	}
}

// CanonicalBase maps an amount currency to the base currency used for
// comparisons: CNY and RMB are the same base, everything else is itself.
func CanonicalBase(amountCurrency string) string {
	upper := strings.ToUpper(amountCurrency)
	if upper == CNY || upper == RMB {
		return CNY
	}
	return upper
}

// SubCurrencyFor maps an amount currency to the sub-account label the
// statement prints for it.
func SubCurrencyFor(amountCurrency string) string {
	if c := strings.ToUpper(amountCurrency); c == CNY || c == RMB {
		return RMB
	}
	return HKD
}

// AmountCurrencyFor maps a sub-account label to its amount-column currency.
func AmountCurrencyFor(subCurrency string) string {
	if strings.ToUpper(subCurrency) == RMB {
		return CNY
	}
	return HKD
}
