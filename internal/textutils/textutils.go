// Package textutils provides the text normalization helpers every classifier
// in the engine operates on.
package textutils

import (
	"regexp"
	"strings"
)

var wsRe = regexp.MustCompile(`\s+`)

// Squeeze collapses arbitrary whitespace runs to single spaces and trims.
func Squeeze(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// Compact removes all whitespace and upper-cases, for marker comparisons like
// "STATEMENTDATE" that must survive column interleaving.
func Compact(s string) string {
	return strings.ToUpper(wsRe.ReplaceAllString(s, ""))
}

// NonBlankLines splits text into lines, squeezing each and dropping blanks.
func NonBlankLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if squeezed := Squeeze(ln); squeezed != "" {
			out = append(out, squeezed)
		}
	}
	return out
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsDigit reports whether s contains any decimal digit.
func ContainsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
