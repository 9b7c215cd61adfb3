package core

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)

func monthlyBill() Bill {
	return Bill{
		Kind:        KindGST,
		GSTNo:       "27AAAPL1234C1ZV",
		Name:        "Laxmi Traders",
		Periodicity: Monthly,
		Periods: []PeriodRecord{
			{
				Year: "2024-25",
				Amount: PeriodAmount{
					Tag: Monthly,
					Slots: []Amount{
						{Month: "April", Value: "100", Date: "2024-04-12"},
						{Month: "May", Value: "250", Date: "2024-05-03", Remarks: "late"},
					},
				},
			},
		},
	}
}

func yearlyBill() Bill {
	return Bill{
		Kind:        KindIT,
		PAN:         "AAAPL1234C",
		Name:        "Laxmi Traders",
		Periodicity: Yearly,
		Periods: []PeriodRecord{
			{Year: "2023-24", Amount: PeriodAmount{Tag: Yearly, Single: Amount{Value: "5000", Date: "2024-07-01"}}},
		},
	}
}

func TestApplyAmountAddsNewSlotKeepingSiblings(t *testing.T) {
	b := monthlyBill()
	got := b.ApplyAmount("2024-25", "June", "300", testNow)

	// Original untouched.
	if len(b.Periods[0].Amount.Slots) != 2 {
		t.Fatalf("input bill mutated: %d slots", len(b.Periods[0].Amount.Slots))
	}

	slot, ok := got.Period("2024-25")
	if !ok {
		t.Fatal("period 2024-25 missing")
	}
	if len(slot.Amount.Slots) != 3 {
		t.Fatalf("want 3 slots, got %d", len(slot.Amount.Slots))
	}
	april, _ := slot.Amount.Slot("April")
	if !reflect.DeepEqual(april, Amount{Month: "April", Value: "100", Date: "2024-04-12"}) {
		t.Errorf("April slot changed: %+v", april)
	}
	may, _ := slot.Amount.Slot("May")
	if may.Remarks != "late" || may.Value != "250" {
		t.Errorf("May slot changed: %+v", may)
	}
	june, _ := slot.Amount.Slot("June")
	if june.Value != "300" || june.Date != testNow.Format("2006-01-02") {
		t.Errorf("June slot = %+v", june)
	}
}

func TestApplyAmountMergeIsolationAcrossYears(t *testing.T) {
	b := monthlyBill()
	before, _ := b.Period("2024-25")

	got := b.ApplyAmount("2025-26", "April", "900", testNow)
	after, ok := got.Period("2024-25")
	if !ok {
		t.Fatal("existing year dropped")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("untouched year changed: %+v != %+v", before, after)
	}
	if _, ok := got.Period("2025-26"); !ok {
		t.Error("new year not created")
	}
	// Periods stay ordered by year label.
	for i := 1; i < len(got.Periods); i++ {
		if got.Periods[i-1].Year > got.Periods[i].Year {
			t.Errorf("periods out of order: %s before %s", got.Periods[i-1].Year, got.Periods[i].Year)
		}
	}
}

func TestApplyAmountDateStampIdempotent(t *testing.T) {
	b := yearlyBill()
	first := b.ApplyAmount("2024-25", "", "1200", testNow)
	slot, _ := first.Period("2024-25")
	stamped := slot.Amount.Single.Date
	if stamped != testNow.Format("2006-01-02") {
		t.Fatalf("first write stamped %q", stamped)
	}

	later := testNow.AddDate(0, 0, 7)
	second := first.ApplyAmount("2024-25", "", "1200", later)
	slot, _ = second.Period("2024-25")
	if slot.Amount.Single.Date != stamped {
		t.Errorf("date re-stamped: %q -> %q", stamped, slot.Amount.Single.Date)
	}
}

func TestApplyAmountBlankValueNoStamp(t *testing.T) {
	b := yearlyBill()
	got := b.ApplyAmount("2025-26", "", "", testNow)
	slot, _ := got.Period("2025-26")
	if slot.Amount.Single.Date != "" {
		t.Errorf("blank value stamped a date: %q", slot.Amount.Single.Date)
	}

	// Clearing a value keeps the existing date.
	cleared := b.ApplyAmount("2023-24", "", "", testNow)
	slot, _ = cleared.Period("2023-24")
	if slot.Amount.Single.Date != "2024-07-01" {
		t.Errorf("clearing value lost the date: %q", slot.Amount.Single.Date)
	}
}

func TestApplyDate(t *testing.T) {
	b := monthlyBill()
	got := b.ApplyDate("2024-25", "April", "2024-04-20")
	april, _ := mustPeriod(t, got, "2024-25").Amount.Slot("April")
	if april.Date != "2024-04-20" {
		t.Errorf("date = %q", april.Date)
	}
	if april.Value != "100" {
		t.Errorf("value touched: %q", april.Value)
	}

	// Invalid input coerces to blank, not an error.
	got = b.ApplyDate("2024-25", "April", "20/04/2024")
	april, _ = mustPeriod(t, got, "2024-25").Amount.Slot("April")
	if april.Date != "" {
		t.Errorf("invalid date kept: %q", april.Date)
	}
}

func TestApplyRemarksIndependent(t *testing.T) {
	b := monthlyBill()
	withRemarks := b.ApplyRemarks("2024-25", "April", "paid by cheque")
	after := withRemarks.ApplyAmount("2024-25", "April", "500", testNow)

	april, _ := mustPeriod(t, after, "2024-25").Amount.Slot("April")
	if april.Remarks != "paid by cheque" {
		t.Errorf("remarks lost on amount edit: %q", april.Remarks)
	}
	if april.Value != "500" {
		t.Errorf("value = %q", april.Value)
	}

	// Blank remarks stored absent.
	cleared := after.ApplyRemarks("2024-25", "April", "  ")
	april, _ = mustPeriod(t, cleared, "2024-25").Amount.Slot("April")
	if april.Remarks != "" {
		t.Errorf("blank remarks kept: %q", april.Remarks)
	}
}

func TestEditWithoutSubPeriodIsNoOp(t *testing.T) {
	b := monthlyBill()
	for _, sub := range []string{"", SubAll} {
		got := b.ApplyAmount("2024-25", sub, "999", testNow)
		if !reflect.DeepEqual(got, b) {
			t.Errorf("sub %q: expected no-op", sub)
		}
		got = b.ApplyDate("2024-25", sub, "2024-04-01")
		if !reflect.DeepEqual(got, b) {
			t.Errorf("sub %q: date edit expected no-op", sub)
		}
		got = b.ApplyRemarks("2024-25", sub, "x")
		if !reflect.DeepEqual(got, b) {
			t.Errorf("sub %q: remarks edit expected no-op", sub)
		}
	}
}

func TestBillValidate(t *testing.T) {
	cases := []struct {
		name string
		bill Bill
		want error
	}{
		{"valid gst monthly", monthlyBill(), nil},
		{"valid it yearly", yearlyBill(), nil},
		{"missing identity", Bill{Kind: KindGST, Periodicity: Monthly}, ErrMissingIdentity},
		{"both identities", Bill{Kind: KindGST, GSTNo: "X", PAN: "Y", Periodicity: Monthly}, ErrMissingIdentity},
		{"wrong identity for kind", Bill{Kind: KindIT, GSTNo: "X", Periodicity: Yearly}, ErrMissingIdentity},
		{"bad kind", Bill{Kind: "vat", GSTNo: "X", Periodicity: Monthly}, ErrBadKind},
		{"it monthly not allowed", Bill{Kind: KindIT, PAN: "AAAPL1234C", Periodicity: Monthly}, ErrBadPeriodicity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.bill.Validate(); err != tc.want {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func mustPeriod(t *testing.T, b Bill, year string) PeriodRecord {
	t.Helper()
	p, ok := b.Period(year)
	if !ok {
		t.Fatalf("period %s missing", year)
	}
	return p
}
