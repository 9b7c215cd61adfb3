// Package memory is the in-memory store backend, used by tests and as a
// fallback when no data directory is configured.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"billtracker/internal/core"
	"billtracker/internal/store"
)

type Store struct {
	mu         sync.Mutex
	bills      []core.Bill
	audits     map[string]core.AuditEntry
	fees       map[string]core.CurrentFeeEntry
	statements map[string][]core.BankStatementRow
}

func New() *Store {
	return &Store{
		audits:     make(map[string]core.AuditEntry),
		fees:       make(map[string]core.CurrentFeeEntry),
		statements: make(map[string][]core.BankStatementRow),
	}
}

func (s *Store) LoadBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Bill, len(s.bills))
	copy(out, s.bills)
	for i := range out {
		out[i] = out[i].Normalize()
	}
	return out, nil
}

func (s *Store) UpsertBill(_ context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.bills {
		if existing.Kind == b.Kind && existing.Identity() == b.Identity() {
			s.bills[i] = b
			return nil
		}
	}
	s.bills = append(s.bills, b)
	return nil
}

func (s *Store) DeleteBill(_ context.Context, kind core.BillKind, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bills {
		if b.Kind == kind && b.Identity() == identity {
			s.bills = append(s.bills[:i], s.bills[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadAudits(_ context.Context) ([]core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.AuditEntry, 0, len(s.audits))
	for _, e := range s.audits {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) UpsertAudit(_ context.Context, e core.AuditEntry) (core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits[e.PAN] = e
	return e, nil
}

func (s *Store) DeleteAudit(_ context.Context, pan string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[pan]; !ok {
		return store.ErrNotFound
	}
	delete(s.audits, pan)
	return nil
}

func (s *Store) LoadStatements(_ context.Context, collection string) ([]core.BankStatementRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.statements[collection]
	out := make([]core.BankStatementRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *Store) UpsertStatementRow(_ context.Context, collection string, row core.BankStatementRow) (core.BankStatementRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == "" {
		row.ID = uuid.NewString()
		s.statements[collection] = append(s.statements[collection], row)
		return row, nil
	}
	rows := s.statements[collection]
	for i, r := range rows {
		if r.ID == row.ID {
			rows[i] = row
			return row, nil
		}
	}
	s.statements[collection] = append(rows, row)
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
	rows := s.statements[collection]
	for i, r := range rows {
		if r.ID == id {
			rows[i].Deleted = deleted
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadFeeEntries(_ context.Context) ([]core.CurrentFeeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CurrentFeeEntry, 0, len(s.fees))
	for _, e := range s.fees {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) UpsertFeeEntry(_ context.Context, e core.CurrentFeeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fees[core.NormalizeName(e.Name)] = e
	return nil
}
