package core

import "testing"

func TestResolveFinancialYear(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"31/03/25", 2024, true},  // last day of FY 2024
		{"01/04/25", 2025, true},  // first day of FY 2025
		{"31/04/25", 0, false},    // April has no 31st; never rolled over
		{"29/02/24", 2023, true},  // leap day
		{"29/02/25", 0, false},    // not a leap year
		{"15/07/2024", 2024, true},
		{"15-07-2024", 2024, true},
		{"15-07-24", 2024, true},
		{"2024-07-15", 2024, true}, // generic fallback layout
		{"1/1/25", 2024, true},
		{"", 0, false},
		{"not a date", 0, false},
		{"00/01/25", 0, false},
		{"15/13/24", 0, false},
	}
	for _, tc := range cases {
		got, ok := ResolveFinancialYear(tc.raw)
		if ok != tc.ok {
			t.Errorf("ResolveFinancialYear(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ResolveFinancialYear(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestTwoDigitYearExpansion(t *testing.T) {
	// Two-digit years always expand by adding 2000, even ones Go's own
	// parser would map into the 1900s.
	got, ok := ResolveFinancialYear("01/06/99")
	if !ok || got != 2099 {
		t.Fatalf("ResolveFinancialYear(01/06/99) = %d, %v, want 2099, true", got, ok)
	}
}

func TestInRange(t *testing.T) {
	cases := []struct {
		fy   int
		date string
		want bool
	}{
		{2024, "01/04/24", true},  // lower boundary inclusive
		{2024, "31/03/25", true},  // upper boundary inclusive
		{2024, "31/03/24", false}, // day before
		{2024, "01/04/25", false}, // day after
		{2024, "garbage", false},
	}
	for _, tc := range cases {
		if got := InRange(tc.fy, tc.date); got != tc.want {
			t.Errorf("InRange(%d, %q) = %v, want %v", tc.fy, tc.date, got, tc.want)
		}
	}
}

func TestFYLabel(t *testing.T) {
	cases := []struct {
		start int
		want  string
	}{
		{2024, "2024-25"},
		{1999, "1999-00"},
		{2009, "2009-10"},
	}
	for _, tc := range cases {
		if got := FYLabel(tc.start); got != tc.want {
			t.Errorf("FYLabel(%d) = %q, want %q", tc.start, got, tc.want)
		}
	}
}

func TestParseFYLabel(t *testing.T) {
	cases := []struct {
		label string
		want  int
		ok    bool
	}{
		{"2024-25", 2024, true},
		{"2024/25", 2024, true},
		{"2024", 2024, true},
		{" 2025-26 ", 2025, true},
		{"", 0, false},
		{"abcd-ef", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseFYLabel(tc.label)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseFYLabel(%q) = %d, %v, want %d, %v", tc.label, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseAssessmentYear(t *testing.T) {
	got, ok := ParseAssessmentYear("2025-26")
	if !ok || got != 2025 {
		t.Fatalf("ParseAssessmentYear(2025-26) = %d, %v, want 2025, true", got, ok)
	}
}
