// Package store persists validated statement records on disk: one JSON
// payload per statement plus a YAML index carrying the queryable metadata.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"fjacquet/hkstmt/internal/fileutils"
	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/models"
)

// ErrDuplicate is returned when a statement with the same date and account
// set has already been stored.
var ErrDuplicate = errors.New("statement already stored")

// ErrNotFound is returned when no statement has the requested ID.
var ErrNotFound = errors.New("statement not found")

const indexFile = "index.yaml"

// Entry is one statement's index metadata.
type Entry struct {
	ID               string   `yaml:"id" json:"id"`
	OriginalFilename string   `yaml:"original_filename" json:"original_filename"`
	StatementDate    string   `yaml:"statement_date" json:"statement_date"`
	StatementProduct string   `yaml:"statement_product" json:"statement_product"`
	UploadedAt       string   `yaml:"uploaded_at" json:"uploaded_at"`
	AccountNumbers   []string `yaml:"account_numbers" json:"account_numbers"`
	CardNumbers      []string `yaml:"card_numbers" json:"card_numbers"`
}

// Store is a directory-backed statement store. Writes are serialized; one
// Store may be shared between handlers.
type Store struct {
	dir string
	mu  sync.Mutex
	log logging.Logger
	now func() time.Time
}

// New opens (creating if necessary) a store rooted at dir.
func New(dir string, log logging.Logger) (*Store, error) {
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}
	return &Store{dir: dir, log: log, now: time.Now}, nil
}

// Save persists a record and indexes it. A record whose statement date and
// account set match an existing entry is rejected with ErrDuplicate.
func (s *Store) Save(record *models.Record, originalFilename string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readIndex()
	if err != nil {
		return Entry{}, err
	}

	accounts := make([]string, 0, len(record.SubAccounts))
	var cards []string
	for _, acct := range record.SubAccounts {
		accounts = append(accounts, acct.AccountNumber)
		for _, card := range acct.Cards {
			cards = append(cards, card.CardNumber)
		}
	}
	sort.Strings(accounts)
	sort.Strings(cards)

	for _, existing := range entries {
		if existing.StatementDate == record.StatementDate &&
			strings.Join(existing.AccountNumbers, ",") == strings.Join(accounts, ",") {
			return Entry{}, ErrDuplicate
		}
	}

	entry := Entry{
		ID:               record.StatementDate + "-" + accounts[0],
		OriginalFilename: originalFilename,
		StatementDate:    record.StatementDate,
		StatementProduct: record.StatementProduct,
		UploadedAt:       s.now().UTC().Format(time.RFC3339),
		AccountNumbers:   accounts,
		CardNumbers:      cards,
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := fileutils.WriteFile(s.payloadPath(entry.ID), payload, 0600); err != nil {
		return Entry{}, err
	}

	entries = append(entries, entry)
	if err := s.writeIndex(entries); err != nil {
		return Entry{}, err
	}

	s.log.Info("stored statement",
		logging.Field{Key: logging.FieldStatement, Value: entry.ID},
		logging.Field{Key: logging.FieldCount, Value: len(accounts)})
	return entry, nil
}

// List returns all index entries, newest statement date first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StatementDate > entries[j].StatementDate
	})
	return entries, nil
}

// Get loads one statement's full record by ID.
func (s *Store) Get(id string) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	data, err := fileutils.ReadFile(s.payloadPath(id))
	if err != nil {
		return nil, err
	}
	var record models.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}
	return &record, nil
}

// Accounts returns the distinct account numbers across all stored
// statements, sorted.
func (s *Store) Accounts() ([]string, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	accounts := []string{}
	for _, e := range entries {
		for _, number := range e.AccountNumbers {
			if !seen[number] {
				seen[number] = true
				accounts = append(accounts, number)
			}
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

func (s *Store) payloadPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) readIndex() ([]Entry, error) {
	path := filepath.Join(s.dir, indexFile)
	if !fileutils.FileExists(path) {
		return []Entry{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	return entries, nil
}

func (s *Store) writeIndex(entries []Entry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	return fileutils.WriteFile(filepath.Join(s.dir, indexFile), data, 0600)
}
