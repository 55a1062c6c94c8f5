package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/hkstmt/internal/fileutils"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/models"
)

func testRecord(date, account string) *models.Record {
	return &models.Record{
		StatementProduct: "PULSE DUALCURRENCY DIAMOND",
		StatementDate:    date,
		SubAccounts: []models.AccountRecord{{
			AccountNumber:      account,
			SubAccountCurrency: "HKD",
			AmountCurrency:     "HKD",
			StatementBalance:   "1210.00",
			PreviousBalance:    "1000.00",
			Cards: []models.CardRecord{{
				CardNumber:     account,
				CardholderName: "CHAN TAI MAN",
				Transactions:   []models.TransactionRecord{},
			}},
		}},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), &logging.MockLogger{})
	require.NoError(t, err)
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Save(testRecord("2026-01-12", "1234567890123456"), "jan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-12-1234567890123456", entry.ID)
	assert.Equal(t, "jan.pdf", entry.OriginalFilename)
	assert.Equal(t, []string{"1234567890123456"}, entry.AccountNumbers)
	assert.NotEmpty(t, entry.UploadedAt)

	record, err := s.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-12", record.StatementDate)
	assert.Equal(t, "PULSE DUALCURRENCY DIAMOND", record.StatementProduct)

	assert.True(t, fileutils.FileExists(filepath.Join(s.dir, entry.ID+".json")))
	assert.True(t, fileutils.FileExists(filepath.Join(s.dir, indexFile)))
}

func TestSaveRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(testRecord("2026-01-12", "1234567890123456"), "jan.pdf")
	require.NoError(t, err)

	_, err = s.Save(testRecord("2026-01-12", "1234567890123456"), "jan-again.pdf")
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same account, different month: fine.
	_, err = s.Save(testRecord("2026-02-12", "1234567890123456"), "feb.pdf")
	assert.NoError(t, err)

	// Same month, different account: fine.
	_, err = s.Save(testRecord("2026-01-12", "9999888877776666"), "other.pdf")
	assert.NoError(t, err)
}

func TestListOrdersByStatementDate(t *testing.T) {
	s := newTestStore(t)

	for _, date := range []string{"2026-01-12", "2026-03-12", "2026-02-12"} {
		_, err := s.Save(testRecord(date, "1234567890123456"), date+".pdf")
		require.NoError(t, err)
	}

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-03-12", entries[0].StatementDate)
	assert.Equal(t, "2026-02-12", entries[1].StatementDate)
	assert.Equal(t, "2026-01-12", entries[2].StatementDate)
}

func TestGetUnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("2026-01-12-0000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountsDistinctSorted(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(testRecord("2026-01-12", "9999888877776666"), "a.pdf")
	require.NoError(t, err)
	_, err = s.Save(testRecord("2026-02-12", "1234567890123456"), "b.pdf")
	require.NoError(t, err)
	_, err = s.Save(testRecord("2026-03-12", "1234567890123456"), "c.pdf")
	require.NoError(t, err)

	accounts, err := s.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890123456", "9999888877776666"}, accounts)
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, &logging.MockLogger{})
	require.NoError(t, err)
	entry, err := s.Save(testRecord("2026-01-12", "1234567890123456"), "jan.pdf")
	require.NoError(t, err)

	reopened, err := New(dir, &logging.MockLogger{})
	require.NoError(t, err)
	entries, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	_, err = reopened.Save(testRecord("2026-01-12", "1234567890123456"), "dup.pdf")
	assert.ErrorIs(t, err, ErrDuplicate)
}
