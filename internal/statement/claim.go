package statement

import (
	"github.com/shopspring/decimal"

	"fjacquet/hkstmt/internal/moneyutils"
	"fjacquet/hkstmt/internal/parsererror"
)

// The statement restates many values (currencies, balances, card names,
// exchange rates) on several pages. Each such field is write-once: the first
// sighting claims it, and every later sighting must agree exactly.

// claimDecimal claims a monetary value.
func claimDecimal(current *decimal.Decimal, candidate decimal.Decimal, label, context string) (*decimal.Decimal, error) {
	if current == nil {
		c := candidate
		return &c, nil
	}
	if !current.Equal(candidate) {
		return nil, &parsererror.ConflictError{
			Label:    label,
			Existing: moneyutils.Format(*current),
			New:      moneyutils.Format(candidate),
			Context:  context,
		}
	}
	return current, nil
}

// claimRate claims an exchange rate; conflict messages keep full precision.
func claimRate(current *decimal.Decimal, candidate decimal.Decimal, label, context string) (*decimal.Decimal, error) {
	if current == nil {
		c := candidate
		return &c, nil
	}
	if !current.Equal(candidate) {
		return nil, &parsererror.ConflictError{
			Label:    label,
			Existing: moneyutils.FormatExact(*current),
			New:      moneyutils.FormatExact(candidate),
			Context:  context,
		}
	}
	return current, nil
}

// claimString claims a string value; empty means unset.
func claimString(current, candidate, label, context string) (string, error) {
	if current == "" {
		return candidate, nil
	}
	if current != candidate {
		return "", &parsererror.ConflictError{
			Label:    label,
			Existing: current,
			New:      candidate,
			Context:  context,
		}
	}
	return current, nil
}
