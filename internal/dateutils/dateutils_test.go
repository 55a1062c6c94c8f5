package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDDMON(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		stmtYear  int
		stmtMonth time.Month
		expected  string
		wantErr   bool
	}{
		{"same month", "05JAN", 2026, time.January, "2026-01-05", false},
		{"earlier month same year", "03MAR", 2026, time.June, "2026-03-03", false},
		{"later month rolls back a year", "30DEC", 2026, time.January, "2025-12-30", false},
		{"november on january statement", "28NOV", 2026, time.January, "2025-11-28", false},
		{"statement month boundary", "31JAN", 2026, time.January, "2026-01-31", false},
		{"invalid calendar date", "30FEB", 2026, time.March, "", true},
		{"unknown month", "05XXX", 2026, time.January, "", true},
		{"wrong shape", "5JAN", 2026, time.January, "", true},
		{"lowercase rejected", "05jan", 2026, time.January, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDDMON(tt.token, tt.stmtYear, tt.stmtMonth, "test")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseStatementDate(t *testing.T) {
	d, err := ParseStatementDate("12", "JAN", "2026", "test")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-12", ToISO(d))

	_, err = ParseStatementDate("31", "FEB", "2026", "test")
	assert.Error(t, err)

	_, err = ParseStatementDate("12", "JANUARY", "2026", "test")
	assert.Error(t, err)
}
