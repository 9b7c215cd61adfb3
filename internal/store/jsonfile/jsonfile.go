// Package jsonfile is the default store backend: one JSON document per
// collection, replaced whole on every write. A single process-wide writer
// is assumed; each write is a read-modify-write of the full collection
// committed with an atomic rename.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"billtracker/internal/core"
	"billtracker/internal/store"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

// New opens (creating if needed) a JSON document directory.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "statements"), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) billsPath() string  { return filepath.Join(s.dir, "bills.json") }
func (s *Store) auditsPath() string { return filepath.Join(s.dir, "audits.json") }
func (s *Store) feesPath() string   { return filepath.Join(s.dir, "fees.json") }

func (s *Store) statementsPath(collection string) string {
	// Collection names come from user-chosen statement files; keep them
	// from escaping the directory.
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.':
			return '_'
		}
		return r
	}, collection)
	return filepath.Join(s.dir, "statements", name+".json")
}

// readDoc decodes a collection file into out. A missing file is an empty
// collection, not an error.
func readDoc(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeDoc replaces a collection file atomically: write to a temp file in
// the same directory, then rename over the target.
func writeDoc(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) LoadBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bills []core.Bill
	if err := readDoc(s.billsPath(), &bills); err != nil {
		return nil, err
	}
	for i := range bills {
		bills[i] = bills[i].Normalize()
	}
	return bills, nil
}

func (s *Store) UpsertBill(_ context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var bills []core.Bill
	if err := readDoc(s.billsPath(), &bills); err != nil {
		return err
	}
	replaced := false
	for i, existing := range bills {
		if existing.Kind == b.Kind && existing.Identity() == b.Identity() {
			bills[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		bills = append(bills, b)
	}
	return writeDoc(s.billsPath(), bills)
}

func (s *Store) DeleteBill(_ context.Context, kind core.BillKind, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bills []core.Bill
	if err := readDoc(s.billsPath(), &bills); err != nil {
		return err
	}
	for i, b := range bills {
		if b.Kind == kind && b.Identity() == identity {
			bills = append(bills[:i], bills[i+1:]...)
			return writeDoc(s.billsPath(), bills)
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadAudits(_ context.Context) ([]core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var audits []core.AuditEntry
	if err := readDoc(s.auditsPath(), &audits); err != nil {
		return nil, err
	}
	return audits, nil
}

func (s *Store) UpsertAudit(_ context.Context, e core.AuditEntry) (core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var audits []core.AuditEntry
	if err := readDoc(s.auditsPath(), &audits); err != nil {
		return core.AuditEntry{}, err
	}
	replaced := false
	for i, existing := range audits {
		if existing.PAN == e.PAN {
			audits[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		audits = append(audits, e)
	}
	if err := writeDoc(s.auditsPath(), audits); err != nil {
		return core.AuditEntry{}, err
	}
	return e, nil
}

func (s *Store) DeleteAudit(_ context.Context, pan string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var audits []core.AuditEntry
	if err := readDoc(s.auditsPath(), &audits); err != nil {
		return err
	}
	for i, e := range audits {
		if e.PAN == pan {
			audits = append(audits[:i], audits[i+1:]...)
			return writeDoc(s.auditsPath(), audits)
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadStatements(_ context.Context, collection string) ([]core.BankStatementRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []core.BankStatementRow
	if err := readDoc(s.statementsPath(collection), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) UpsertStatementRow(_ context.Context, collection string, row core.BankStatementRow) (core.BankStatementRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.statementsPath(collection)
	var rows []core.BankStatementRow
	if err := readDoc(path, &rows); err != nil {
		return core.BankStatementRow{}, err
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
		rows = append(rows, row)
	} else {
		replaced := false
		for i, r := range rows {
			if r.ID == row.ID {
				rows[i] = row
				replaced = true
				break
			}
		}
		if !replaced {
			rows = append(rows, row)
		}
	}
	if err := writeDoc(path, rows); err != nil {
		return core.BankStatementRow{}, err
	}
	return row, nil
}

func (s *Store) SoftDeleteRow(_ context.Context, collection, id string) error {
	return s.setDeleted(collection, id, true)
}

func (s *Store) RestoreRow(_ context.Context, collection, id string) error {
	return s.setDeleted(collection, id, false)
}

func (s *Store) setDeleted(collection, id string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.statementsPath(collection)
	var rows []core.BankStatementRow
	if err := readDoc(path, &rows); err != nil {
		return err
	}
	for i, r := range rows {
		if r.ID == id {
			rows[i].Deleted = deleted
			return writeDoc(path, rows)
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadFeeEntries(_ context.Context) ([]core.CurrentFeeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fees []core.CurrentFeeEntry
	if err := readDoc(s.feesPath(), &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

func (s *Store) UpsertFeeEntry(_ context.Context, e core.CurrentFeeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fees []core.CurrentFeeEntry
	if err := readDoc(s.feesPath(), &fees); err != nil {
		return err
	}
	key := core.NormalizeName(e.Name)
	replaced := false
	for i, existing := range fees {
		if core.NormalizeName(existing.Name) == key {
			fees[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		fees = append(fees, e)
		sort.Slice(fees, func(i, j int) bool { return fees[i].Name < fees[j].Name })
	}
	return writeDoc(s.feesPath(), fees)
}
