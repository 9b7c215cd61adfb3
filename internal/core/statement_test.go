package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"500", 500},
		{"1,23,456.75", 123456.75}, // Indian digit grouping
		{" 250.50 ", 250.5},
		{"", 0},
		{"-", 0},
		{"N/A", 0},
		{"-1200", -1200},
	}
	for _, tc := range cases {
		if got := ParseMoney(tc.in); got != tc.want {
			t.Errorf("ParseMoney(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john  doe", "JOHN DOE"},
		{"  JOHN DOE ", "JOHN DOE"},
		{"John\tDoe", "JOHN DOE"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRowNet(t *testing.T) {
	r := BankStatementRow{Deposit: "1,500", Withdrawal: "200"}
	if got := r.Net(); got != 1300 {
		t.Errorf("Net() = %v, want 1300", got)
	}
	r = BankStatementRow{Deposit: "", Withdrawal: "bad"}
	if got := r.Net(); got != 0 {
		t.Errorf("Net() = %v, want 0", got)
	}
}
