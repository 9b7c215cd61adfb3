package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"billtracker/internal/core"
	"billtracker/internal/debounce"
	"billtracker/internal/store"
)

// AuditService manages audit entries. Per-cell edits and full-form submits
// both funnel fee values through core.CarryForwardFee so the two paths
// cannot drift apart.
type AuditService struct {
	store  store.AuditStore
	deb    *debounce.Debouncer
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]core.AuditEntry
	loaded  bool
}

func NewAuditService(st store.AuditStore, deb *debounce.Debouncer, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: st, deb: deb, logger: logger, entries: make(map[string]core.AuditEntry)}
}

func (s *AuditService) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	audits, err := s.store.LoadAudits(ctx)
	if err != nil {
		return fmt.Errorf("load audits: %w", err)
	}
	for _, e := range audits {
		s.entries[e.PAN] = e
	}
	s.loaded = true
	return nil
}

// List returns all audit entries.
func (s *AuditService) List(ctx context.Context) ([]core.AuditEntry, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.AuditEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

// EditField applies one cell edit for (pan, year). Field "fee" carries
// forward into the next year's lastYearFee.
func (s *AuditService) EditField(ctx context.Context, pan string, year int, field, value string) (core.AuditEntry, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return core.AuditEntry{}, err
	}
	s.mu.Lock()
	entry, ok := s.entries[pan]
	if !ok {
		s.mu.Unlock()
		return core.AuditEntry{}, store.ErrNotFound
	}
	entry = cloneEntry(entry)
	data := entry.Accounts[year]
	switch field {
	case "fee":
		data.Fee = value
	case "sentToCA":
		data.SentToCA = value
	case "sentOn":
		data.SentOn = value
	case "receivedOn":
		data.ReceivedOn = value
	case "dateOfUpload":
		data.DateOfUpload = value
	case "itrFiledOn":
		data.ITRFiledOn = value
	case "accountant":
		data.Accountant = value
	default:
		s.mu.Unlock()
		return core.AuditEntry{}, fmt.Errorf("unknown audit field %q", field)
	}
	entry.Accounts[year] = data
	if field == "fee" {
		entry = core.CarryForwardFee(entry, year)
	}
	s.entries[pan] = entry
	s.mu.Unlock()

	s.schedulePersist(pan)
	return entry, nil
}

// Submit stores a whole entry, as edited in the form, carrying the active
// year's fee forward when one is present. Form submits persist immediately.
func (s *AuditService) Submit(ctx context.Context, entry core.AuditEntry, activeYear int) (core.AuditEntry, error) {
	if entry.PAN == "" {
		return core.AuditEntry{}, fmt.Errorf("audit entry needs a pan")
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return core.AuditEntry{}, err
	}
	entry = core.CarryForwardFee(entry, activeYear)

	s.mu.Lock()
	s.entries[entry.PAN] = entry
	s.mu.Unlock()

	saved, err := s.store.UpsertAudit(ctx, entry)
	if err != nil {
		return core.AuditEntry{}, fmt.Errorf("persist audit: %w", err)
	}
	return saved, nil
}

// Delete removes an entry and persists immediately.
func (s *AuditService) Delete(ctx context.Context, pan string) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	_, ok := s.entries[pan]
	delete(s.entries, pan)
	s.mu.Unlock()
	if !ok {
		return store.ErrNotFound
	}
	return s.store.DeleteAudit(ctx, pan)
}

func (s *AuditService) schedulePersist(pan string) {
	s.deb.Trigger("audit:"+pan, func() error {
		s.mu.RLock()
		entry, ok := s.entries[pan]
		s.mu.RUnlock()
		if !ok {
			return nil
		}
		_, err := s.store.UpsertAudit(context.Background(), entry)
		return err
	})
}

func cloneEntry(e core.AuditEntry) core.AuditEntry {
	out := e
	out.Accounts = make(map[int]core.YearlyAuditData, len(e.Accounts)+1)
	for y, d := range e.Accounts {
		out.Accounts[y] = d
	}
	return out
}
