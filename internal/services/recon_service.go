package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"billtracker/internal/cache"
	"billtracker/internal/core"
	"billtracker/internal/debounce"
	"billtracker/internal/metrics"
	"billtracker/internal/store"
)

// ReconRow is one payer's due/paid position for a financial year.
type ReconRow struct {
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
	Received float64 `json:"received"`
	Due      float64 `json:"due"`
	Paid     bool    `json:"paid"`
}

// ReconService derives reconciliation and summary views over statement
// rows and the fee ledger. Summaries are cached per (collection, fy) and
// the cache is purged on any row write.
type ReconService struct {
	statements store.StatementStore
	fees       store.FeeStore
	deb        *debounce.Debouncer
	logger     *slog.Logger
	summaries  *cache.LRU[[]core.SummaryRow]
}

func NewReconService(statements store.StatementStore, fees store.FeeStore, deb *debounce.Debouncer, cacheTTL time.Duration, logger *slog.Logger) *ReconService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReconService{
		statements: statements,
		fees:       fees,
		deb:        deb,
		logger:     logger,
		summaries:  cache.NewLRU[[]core.SummaryRow](64, cacheTTL),
	}
}

// Reconciliation computes due/paid rows for every fee ledger entry against
// one statement collection, marker and financial year.
func (s *ReconService) Reconciliation(ctx context.Context, collection, marker string, fyStart int) ([]ReconRow, error) {
	fees, err := s.fees.LoadFeeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fee entries: %w", err)
	}
	rows, err := s.statements.LoadStatements(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load statements: %w", err)
	}

	label := core.FYLabel(fyStart)
	out := make([]ReconRow, 0, len(fees))
	for _, entry := range fees {
		name := core.NormalizeName(entry.Name)
		received := core.ReceivedForName(rows, name, marker, fyStart)
		total := entry.TotalFee()
		out = append(out, ReconRow{
			Name:     entry.Name,
			Total:    total,
			Received: received,
			Due:      core.Due(total, received),
			Paid:     entry.Paid(label),
		})
	}
	return out, nil
}

// Summary returns the per-payer credit/debit report for one collection and
// financial year, memoized until the next row write.
func (s *ReconService) Summary(ctx context.Context, collection string, fyStart int) ([]core.SummaryRow, error) {
	key := fmt.Sprintf("%s|%d", collection, fyStart)
	cached, ok := s.summaries.Get(key)
	metrics.CountCacheLookup("summary", ok)
	if ok {
		return cached, nil
	}
	rows, err := s.statements.LoadStatements(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load statements: %w", err)
	}
	summary := core.Summarize(rows, fyStart)
	s.summaries.Set(key, summary)
	return summary, nil
}

// Rows returns a collection's rows, optionally scoped to a financial year.
// FY scoping drops soft-deleted rows and rows with unparseable dates.
func (s *ReconService) Rows(ctx context.Context, collection string, fyStart *int) ([]core.BankStatementRow, error) {
	rows, err := s.statements.LoadStatements(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load statements: %w", err)
	}
	if fyStart == nil {
		return rows, nil
	}
	out := make([]core.BankStatementRow, 0, len(rows))
	for _, r := range rows {
		if r.Deleted || !core.InRange(*fyStart, r.Date) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// SaveRow persists a statement row. New rows (no id yet) write through
// immediately so the caller gets the store-assigned id; edits to existing
// rows are debounced per row.
func (s *ReconService) SaveRow(ctx context.Context, collection string, row core.BankStatementRow) (core.BankStatementRow, error) {
	defer s.summaries.Purge()
	if row.ID == "" {
		saved, err := s.statements.UpsertStatementRow(ctx, collection, row)
		if err != nil {
			return core.BankStatementRow{}, fmt.Errorf("save statement row: %w", err)
		}
		return saved, nil
	}
	s.deb.Trigger("row:"+collection+":"+row.ID, func() error {
		if _, err := s.statements.UpsertStatementRow(context.Background(), collection, row); err != nil {
			return err
		}
		// Purge again at flush time: a summary computed during the quiet
		// window was built from the pre-edit store and must not outlive
		// the write.
		s.summaries.Purge()
		return nil
	})
	return row, nil
}

// DeleteRow soft-deletes a row; it disappears from derived views but stays
// restorable.
func (s *ReconService) DeleteRow(ctx context.Context, collection, id string) error {
	if err := s.statements.SoftDeleteRow(ctx, collection, id); err != nil {
		return err
	}
	s.summaries.Purge()
	return nil
}

// RestoreRow undoes a soft delete.
func (s *ReconService) RestoreRow(ctx context.Context, collection, id string) error {
	if err := s.statements.RestoreRow(ctx, collection, id); err != nil {
		return err
	}
	s.summaries.Purge()
	return nil
}

// FeeEntries returns the fee ledger.
func (s *ReconService) FeeEntries(ctx context.Context) ([]core.CurrentFeeEntry, error) {
	fees, err := s.fees.LoadFeeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fee entries: %w", err)
	}
	return fees, nil
}

// SaveFeeEntry upserts one fee ledger entry, debounced per payer.
func (s *ReconService) SaveFeeEntry(_ context.Context, entry core.CurrentFeeEntry) error {
	if entry.Name == "" {
		return fmt.Errorf("fee entry needs a name")
	}
	s.deb.Trigger("fee:"+core.NormalizeName(entry.Name), func() error {
		return s.fees.UpsertFeeEntry(context.Background(), entry)
	})
	return nil
}

// SetPaid flips the explicit paid flag for one payer and financial year.
// The flag is authoritative and independent of the due amount, so it
// persists immediately rather than riding a debounce timer.
func (s *ReconService) SetPaid(ctx context.Context, name, fyLabel string, paid bool) (core.CurrentFeeEntry, error) {
	fees, err := s.fees.LoadFeeEntries(ctx)
	if err != nil {
		return core.CurrentFeeEntry{}, fmt.Errorf("load fee entries: %w", err)
	}
	key := core.NormalizeName(name)
	for _, entry := range fees {
		if core.NormalizeName(entry.Name) == key {
			updated := entry.WithPaid(fyLabel, paid)
			if err := s.fees.UpsertFeeEntry(ctx, updated); err != nil {
				return core.CurrentFeeEntry{}, fmt.Errorf("persist fee entry: %w", err)
			}
			return updated, nil
		}
	}
	return core.CurrentFeeEntry{}, store.ErrNotFound
}
