// Package services orchestrates the core engines over the store ports:
// optimistic in-memory state, debounced persistence, derived-view caching.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"billtracker/internal/core"
	"billtracker/internal/debounce"
	"billtracker/internal/store"
)

// BillService owns the in-memory mirror of the bill collection. Edits apply
// the merge engine to the mirror immediately and schedule a debounced write
// of the affected bill; there is exactly one writer, so the mirror is the
// truth between flushes.
type BillService struct {
	store  store.BillStore
	deb    *debounce.Debouncer
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	bills  []core.Bill
	loaded bool
}

func NewBillService(st store.BillStore, deb *debounce.Debouncer, logger *slog.Logger) *BillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillService{store: st, deb: deb, logger: logger, now: time.Now}
}

func (s *BillService) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	bills, err := s.store.LoadBills(ctx)
	if err != nil {
		return fmt.Errorf("load bills: %w", err)
	}
	s.bills = bills
	s.loaded = true
	return nil
}

// List returns the current bills.
func (s *BillService) List(ctx context.Context) ([]core.Bill, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Bill, len(s.bills))
	copy(out, s.bills)
	return out, nil
}

// Create adds a new bill, rejecting duplicate identities within the kind.
// Creation persists immediately; only cell edits are debounced.
func (s *BillService) Create(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	for _, existing := range s.bills {
		if existing.Kind == b.Kind && existing.Identity() == b.Identity() {
			s.mu.Unlock()
			return store.ErrDuplicateIdentity
		}
	}
	s.bills = append(s.bills, b)
	s.mu.Unlock()

	if err := s.store.UpsertBill(ctx, b); err != nil {
		return fmt.Errorf("persist bill: %w", err)
	}
	s.logger.InfoContext(ctx, "Bill created", "kind", b.Kind, "identity", b.Identity())
	return nil
}

// Delete removes a bill and persists immediately.
func (s *BillService) Delete(ctx context.Context, kind core.BillKind, identity string) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	found := false
	for i, b := range s.bills {
		if b.Kind == kind && b.Identity() == identity {
			s.bills = append(s.bills[:i], s.bills[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return store.ErrNotFound
	}
	if err := s.store.DeleteBill(ctx, kind, identity); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

// EditAmount applies an amount edit for the selected financial year and
// sub-period and returns the updated bill.
func (s *BillService) EditAmount(ctx context.Context, kind core.BillKind, identity, year, sub, value string) (core.Bill, error) {
	return s.edit(ctx, kind, identity, func(b core.Bill) core.Bill {
		return b.ApplyAmount(year, sub, value, s.now())
	})
}

// EditDate applies a date edit.
func (s *BillService) EditDate(ctx context.Context, kind core.BillKind, identity, year, sub, date string) (core.Bill, error) {
	return s.edit(ctx, kind, identity, func(b core.Bill) core.Bill {
		return b.ApplyDate(year, sub, date)
	})
}

// EditRemarks applies a remarks edit.
func (s *BillService) EditRemarks(ctx context.Context, kind core.BillKind, identity, year, sub, remarks string) (core.Bill, error) {
	return s.edit(ctx, kind, identity, func(b core.Bill) core.Bill {
		return b.ApplyRemarks(year, sub, remarks)
	})
}

func (s *BillService) edit(ctx context.Context, kind core.BillKind, identity string, apply func(core.Bill) core.Bill) (core.Bill, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Bill{}, err
	}
	s.mu.Lock()
	idx := -1
	for i, b := range s.bills {
		if b.Kind == kind && b.Identity() == identity {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.Bill{}, store.ErrNotFound
	}
	before := s.bills[idx]
	after := apply(before)
	changed := !reflect.DeepEqual(before, after)
	if changed {
		s.bills[idx] = after
	}
	s.mu.Unlock()

	if changed {
		s.schedulePersist(kind, identity)
	}
	return after, nil
}

// schedulePersist debounces the write per bill; the closure reads the
// mirror at fire time so the flush always writes the latest state.
func (s *BillService) schedulePersist(kind core.BillKind, identity string) {
	key := fmt.Sprintf("bill:%s:%s", kind, identity)
	s.deb.Trigger(key, func() error {
		s.mu.RLock()
		var bill core.Bill
		found := false
		for _, b := range s.bills {
			if b.Kind == kind && b.Identity() == identity {
				bill = b
				found = true
				break
			}
		}
		s.mu.RUnlock()
		if !found {
			// Deleted while the timer was pending; nothing to write.
			return nil
		}
		return s.store.UpsertBill(context.Background(), bill)
	})
}
