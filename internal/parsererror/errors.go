// Package parsererror defines the fatal error family raised by the statement
// engine. Every error aborts the parse; there is no partial-result mode.
package parsererror

import "fmt"

// TokenError reports a token that does not have the expected shape
// (money amount, DDMON date, card number, currency code).
type TokenError struct {
	Kind    string // "money", "date", "account number", "currency"
	Value   string
	Context string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid %s token %q at %s", e.Kind, e.Value, e.Context)
}

// ConflictError reports a repeated value that must be stated consistently
// (balances, currencies, cardholder names, exchange rates, payment methods).
type ConflictError struct {
	Label    string
	Existing string
	New      string
	Context  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting %s: existing %s vs %s at %s",
		e.Label, e.Existing, e.New, e.Context)
}

// MissingContextError reports required context that was absent when a line or
// account needed it (cardholder before transaction, currency, statement date).
type MissingContextError struct {
	What    string
	Context string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("missing %s at %s", e.What, e.Context)
}

// ReconciliationError reports a mismatch between reconstructed totals and the
// figures the statement declares, or a failed foreign-conversion check.
type ReconciliationError struct {
	AccountNumber string
	Reason        string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed for account %s: %s", e.AccountNumber, e.Reason)
}

// LineShapeError reports a line that resembled a known shape but could not be
// parsed, or content the engine refuses to skip silently.
type LineShapeError struct {
	Line    string
	Reason  string
	Context string
}

func (e *LineShapeError) Error() string {
	return fmt.Sprintf("%s at %s: %q", e.Reason, e.Context, e.Line)
}

// ExtractionError reports a failure to obtain page text from the input
// document.
type ExtractionError struct {
	FilePath string
	Msg      string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("text extraction failed for %s: %s: %v", e.FilePath, e.Msg, e.Err)
	}
	return fmt.Sprintf("text extraction failed for %s: %s", e.FilePath, e.Msg)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
