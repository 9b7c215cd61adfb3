package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"billtracker/internal/core"
	"billtracker/internal/debounce"
	"billtracker/internal/store"
	"billtracker/internal/store/memory"
)

const feesMarker = "646904"

func newReconFixture(t *testing.T) (*ReconService, *memory.Store, *debounce.Debouncer) {
	t.Helper()
	mem := memory.New()
	deb := debounce.New(10*time.Millisecond, nil)
	t.Cleanup(deb.Stop)
	return NewReconService(mem, mem, deb, time.Minute, nil), mem, deb
}

func seedReconData(t *testing.T, mem *memory.Store) {
	t.Helper()
	ctx := context.Background()
	rows := []core.BankStatementRow{
		{Date: "10/06/24", Narration: "NEFT-646904", Name: "john  doe", Deposit: "500"},
		{Date: "12/06/24", Narration: "NEFT-646904", Name: "JOHN DOE", Withdrawal: "200"},
		{Date: "12/06/24", Narration: "ATM", Name: "JOHN DOE", Deposit: "900"},
	}
	for _, r := range rows {
		if _, err := mem.UpsertStatementRow(ctx, "hdfc", r); err != nil {
			t.Fatal(err)
		}
	}
	err := mem.UpsertFeeEntry(ctx, core.CurrentFeeEntry{
		Name: "John Doe", GSTFee: "600", ITFee: "400",
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReconciliation(t *testing.T) {
	svc, mem, _ := newReconFixture(t)
	seedReconData(t, mem)

	rows, err := svc.Reconciliation(context.Background(), "hdfc", feesMarker, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	got := rows[0]
	if got.Received != 300 {
		t.Errorf("received = %v, want 300 (marker rows only, name normalized)", got.Received)
	}
	if got.Total != 1000 || got.Due != 700 {
		t.Errorf("total/due = %v/%v, want 1000/700", got.Total, got.Due)
	}
	if got.Paid {
		t.Error("paid flag should default false")
	}
}

func TestSetPaidIsExplicitAndSticky(t *testing.T) {
	svc, mem, _ := newReconFixture(t)
	seedReconData(t, mem)
	ctx := context.Background()

	if _, err := svc.SetPaid(ctx, "john doe", "2024-25", true); err != nil {
		t.Fatal(err)
	}
	rows, _ := svc.Reconciliation(ctx, "hdfc", feesMarker, 2024)
	if !rows[0].Paid {
		t.Error("paid flag not set")
	}
	// Another year stays unpaid and the flag is never derived from due.
	rows, _ = svc.Reconciliation(ctx, "hdfc", feesMarker, 2023)
	if rows[0].Paid {
		t.Error("paid flag leaked across financial years")
	}

	if _, err := svc.SetPaid(ctx, "nobody", "2024-25", true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSummaryCachedUntilRowWrite(t *testing.T) {
	svc, mem, _ := newReconFixture(t)
	seedReconData(t, mem)
	ctx := context.Background()

	first, err := svc.Summary(ctx, "hdfc", 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 { // raw names "john  doe" and "JOHN DOE" stay separate groups
		t.Fatalf("summary = %+v", first)
	}

	// A new row invalidates the memoized view.
	if _, err := svc.SaveRow(ctx, "hdfc", core.BankStatementRow{Date: "13/06/24", Name: "Beta", Deposit: "50"}); err != nil {
		t.Fatal(err)
	}
	second, err := svc.Summary(ctx, "hdfc", 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 3 {
		t.Errorf("summary not refreshed after row write: %+v", second)
	}
}

func TestRowSoftDeleteAndRestore(t *testing.T) {
	svc, _, _ := newReconFixture(t)
	ctx := context.Background()
	saved, err := svc.SaveRow(ctx, "hdfc", core.BankStatementRow{Date: "10/06/24", Narration: "NEFT-646904", Name: "A", Deposit: "500"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("new row did not get an id")
	}

	if err := svc.DeleteRow(ctx, "hdfc", saved.ID); err != nil {
		t.Fatal(err)
	}
	if got := mustRecon(t, svc, ctx); got != 0 {
		t.Errorf("deleted row still counted: %v", got)
	}
	fy := 2024
	rows, _ := svc.Rows(ctx, "hdfc", &fy)
	if len(rows) != 0 {
		t.Error("deleted row still in FY view")
	}
	// Unscoped view keeps it for the restore screen.
	rows, _ = svc.Rows(ctx, "hdfc", nil)
	if len(rows) != 1 || !rows[0].Deleted {
		t.Errorf("unscoped view = %+v", rows)
	}

	if err := svc.RestoreRow(ctx, "hdfc", saved.ID); err != nil {
		t.Fatal(err)
	}
	if got := mustRecon(t, svc, ctx); got != 500 {
		t.Errorf("restored row not counted: %v", got)
	}
}

func TestSummaryRefreshesAfterDebouncedEdit(t *testing.T) {
	svc, mem, _ := newReconFixture(t)
	ctx := context.Background()
	saved, err := svc.SaveRow(ctx, "hdfc", core.BankStatementRow{Date: "10/06/24", Name: "A", Deposit: "500"})
	if err != nil {
		t.Fatal(err)
	}

	saved.Deposit = "750"
	if _, err := svc.SaveRow(ctx, "hdfc", saved); err != nil {
		t.Fatal(err)
	}
	// A summary read inside the quiet window sees and caches the pre-edit
	// store. The flush must evict it.
	if sum, err := svc.Summary(ctx, "hdfc", 2024); err != nil || len(sum) != 1 {
		t.Fatalf("summary = %+v, err = %v", sum, err)
	}

	waitFor(t, func() bool {
		sum, err := svc.Summary(ctx, "hdfc", 2024)
		return err == nil && len(sum) == 1 && sum[0].TotalDeposit == 750
	})
	rows, err := mem.LoadStatements(ctx, "hdfc")
	if err != nil || len(rows) != 1 || rows[0].Deposit != "750" {
		t.Fatalf("store rows = %+v, err = %v", rows, err)
	}
}

func TestRowEditDebounced(t *testing.T) {
	svc, mem, _ := newReconFixture(t)
	ctx := context.Background()
	saved, err := svc.SaveRow(ctx, "hdfc", core.BankStatementRow{Date: "10/06/24", Name: "A", Deposit: "500"})
	if err != nil {
		t.Fatal(err)
	}

	saved.Deposit = "750"
	if _, err := svc.SaveRow(ctx, "hdfc", saved); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		rows, _ := mem.LoadStatements(ctx, "hdfc")
		return len(rows) == 1 && rows[0].Deposit == "750"
	})
}

func mustRecon(t *testing.T, svc *ReconService, ctx context.Context) float64 {
	t.Helper()
	if err := svc.SaveFeeEntry(ctx, core.CurrentFeeEntry{Name: "A", GSTFee: "100"}); err != nil {
		t.Fatal(err)
	}
	var received float64
	waitFor(t, func() bool {
		rows, err := svc.Reconciliation(ctx, "hdfc", "646904", 2024)
		if err != nil || len(rows) == 0 {
			return false
		}
		received = rows[0].Received
		return true
	})
	return received
}
