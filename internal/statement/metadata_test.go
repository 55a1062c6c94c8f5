package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/hkstmt/internal/parsererror"
	"fjacquet/hkstmt/internal/pdfextract"
)

func TestObserveStatementDateDeclared(t *testing.T) {
	d := newTestDocument()
	page := newPageView(1, pdfextract.PageText{
		Plain: "Statement date 12 JAN 2026",
	})

	require.NoError(t, d.observeStatementDate(page))
	require.NotNil(t, d.statementDate)
	assert.Equal(t, "2026-01-12", d.statementDate.Format("2006-01-02"))
}

func TestObserveStatementDateHeaderFallback(t *testing.T) {
	d := newTestDocument()
	// No "Statement date DD MON YYYY" run anywhere; the date sits on a line
	// near the marker, glued as 12JAN2026.
	page := newPageView(1, pdfextract.PageText{
		Layout: "Statement date          Credit limit\n" +
			"12JAN2026               HKD120,000.00\n",
	})

	require.NoError(t, d.observeStatementDate(page))
	require.NotNil(t, d.statementDate)
	assert.Equal(t, "2026-01-12", d.statementDate.Format("2006-01-02"))
}

func TestObserveStatementDatePagesMustAgree(t *testing.T) {
	d := newTestDocument()
	require.NoError(t, d.observeStatementDate(newPageView(1, pdfextract.PageText{
		Plain: "Statement date 12 JAN 2026",
	})))

	err := d.observeStatementDate(newPageView(2, pdfextract.PageText{
		Plain: "Statement date 12 FEB 2026",
	}))
	var conflict *parsererror.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "statement date", conflict.Label)
}

func TestInferProduct(t *testing.T) {
	tests := []struct {
		name     string
		plain    string
		expected string
		wantErr  bool
	}{
		{
			"product with credit limit amount",
			"Card type                    Credit limit\n" +
				"PULSE DUALCURRENCY DIAMOND HKD120,000.00\n",
			"PULSE DUALCURRENCY DIAMOND",
			false,
		},
		{
			"glued suffix repaired",
			"Card type\nPULSEDUALCURRENCY DIAMOND HKD120,000.00\n",
			"PULSE DUALCURRENCY DIAMOND",
			false,
		},
		{
			"blocklist words respect word boundaries",
			"Card type\nTOP AGENT CARD HKD120,000.00\n",
			"TOP AGENT CARD",
			false,
		},
		{
			"bare product code line",
			"Card type\nVISA SIGNATURE\nStatement date 12 JAN 2026\n",
			"VISA SIGNATURE",
			false,
		},
		{
			"header fields are not products",
			"Card type\nStatement date 12 JAN 2026\nCredit limit HKD120,000.00\n",
			"",
			true,
		},
		{
			"no marker",
			"nothing to see here\n",
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := inferProduct([]pdfextract.PageText{{Plain: tt.plain}})
			if tt.wantErr {
				var missing *parsererror.MissingContextError
				require.ErrorAs(t, err, &missing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, product)
		})
	}
}

func TestNormalizeProduct(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PULSE DUALCURRENCY DIAMOND", "PULSE DUALCURRENCY DIAMOND"},
		{"PULSEDUALCURRENCY DIAMOND", "PULSE DUALCURRENCY DIAMOND"},
		{"PREMIERCREDITCARD", "PREMIER CREDIT CARD"},
		{"visa gold", "VISA GOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeProduct(tt.input))
		})
	}
}
