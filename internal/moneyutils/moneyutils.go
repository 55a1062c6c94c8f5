// Package moneyutils parses and formats the fixed-point monetary tokens the
// statement uses. All arithmetic is decimal; two fractional digits,
// round-half-up.
package moneyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/parsererror"
)

var (
	bareAmountRe  = regexp.MustCompile(`^\d+\.\d{2}$`)
	plainAmountRe = regexp.MustCompile(`^[0-9][0-9,]*\.\d{2}$`)
)

// Quantize rounds a value to two decimal places, half up.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseMoney parses an amount token with optional thousands separators and an
// optional trailing CR credit marker. It returns the magnitude, the signed
// value (negative for credits) and the credit flag.
func ParseMoney(raw, context string) (amount, signed decimal.Decimal, isCredit bool, err error) {
	token := strings.ReplaceAll(raw, " ", "")
	isCredit = strings.HasSuffix(token, "CR")
	if isCredit {
		token = strings.TrimSuffix(token, "CR")
	}
	token = strings.ReplaceAll(token, ",", "")
	if !bareAmountRe.MatchString(token) {
		return decimal.Zero, decimal.Zero, false,
			&parsererror.TokenError{Kind: "money", Value: raw, Context: context}
	}
	d, derr := decimal.NewFromString(token)
	if derr != nil {
		return decimal.Zero, decimal.Zero, false,
			&parsererror.TokenError{Kind: "money", Value: raw, Context: context}
	}
	amount = Quantize(d)
	signed = amount
	if isCredit {
		signed = amount.Neg()
	}
	return amount, signed, isCredit, nil
}

// ParsePlainAmount parses an amount token that may not carry a CR marker.
func ParsePlainAmount(raw, context string) (decimal.Decimal, error) {
	token := strings.ReplaceAll(raw, ",", "")
	if !bareAmountRe.MatchString(token) {
		return decimal.Zero, &parsererror.TokenError{Kind: "money", Value: raw, Context: context}
	}
	d, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, &parsererror.TokenError{Kind: "money", Value: raw, Context: context}
	}
	return Quantize(d), nil
}

// IsPlainAmount reports whether raw looks like a bare two-decimal amount with
// optional thousands separators and no sign marker.
func IsPlainAmount(raw string) bool {
	return plainAmountRe.MatchString(raw)
}

// Format renders a monetary value as a fixed-point string with exactly two
// fractional digits.
func Format(d decimal.Decimal) string {
	return Quantize(d).StringFixed(2)
}

// FormatExact renders a value at its own scale, keeping the precision the
// statement disclosed: a rate parsed from "0.0520" renders as "0.0520", not
// "0.052". Used for exchange rates, which are never quantized.
func FormatExact(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}
