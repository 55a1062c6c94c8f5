package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSqueeze(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses runs", "PREVIOUS   BALANCE\t\t1,000.00", "PREVIOUS BALANCE 1,000.00"},
		{"trims edges", "  STARBUCKS HK  ", "STARBUCKS HK"},
		{"newlines become spaces", "Statement\ndate", "Statement date"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Squeeze(tt.input))
		})
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes all whitespace and uppercases", "Statement  date", "STATEMENTDATE"},
		{"column interleaving survives", "Card \t type", "CARDTYPE"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compact(tt.input))
		})
	}
}

func TestNonBlankLines(t *testing.T) {
	lines := NonBlankLines("  first line \n\n   \nsecond   line\n")
	assert.Equal(t, []string{"first line", "second line"}, lines)

	assert.Nil(t, NonBlankLines(""))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "1234567890123456", Digits("1234 5678 9012 3456"))
	assert.Equal(t, "", Digits("CHAN TAI MAN"))
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, ContainsDigit("APT 4B"))
	assert.False(t, ContainsDigit("CHAN TAI MAN"))
}
