package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	for _, raw := range []string{"HKD", "hkd", "CNY", "RMB", "rmb"} {
		got, err := Normalize(raw, "test")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	}

	_, err := Normalize("USD", "test")
	assert.Error(t, err)
	_, err = Normalize("", "test")
	assert.Error(t, err)
}

func TestCanonicalBase(t *testing.T) {
	assert.Equal(t, "CNY", CanonicalBase("RMB"))
	assert.Equal(t, "CNY", CanonicalBase("CNY"))
	assert.Equal(t, "HKD", CanonicalBase("HKD"))
}

func TestSubCurrencyFor(t *testing.T) {
	assert.Equal(t, "RMB", SubCurrencyFor("CNY"))
	assert.Equal(t, "RMB", SubCurrencyFor("RMB"))
	assert.Equal(t, "HKD", SubCurrencyFor("HKD"))
}

func TestAmountCurrencyFor(t *testing.T) {
	assert.Equal(t, "CNY", AmountCurrencyFor("RMB"))
	assert.Equal(t, "HKD", AmountCurrencyFor("HKD"))
}
