package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Indian financial years run April 1 through March 31 and are identified by
// the calendar year they start in: FY 2024 is 01/04/2024 - 31/03/2025.

// fyStartMonth is the first month of a financial year.
const fyStartMonth = time.April

// dateLayouts are the fallback layouts tried after the day-first forms.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2 Jan 2006",
	"2 January 2006",
}

// ParseStatementDate parses a bank-statement date string. It accepts
// DD/MM/YY, DD/MM/YYYY, DD-MM-YY and DD-MM-YYYY, expanding two-digit years
// by adding 2000, plus a handful of generic layouts as a fallback. Invalid
// calendar dates (31/04/25) are rejected, never rolled over.
func ParseStatementDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseDayFirst(s); ok {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDayFirst(s string) (time.Time, bool) {
	sep := ""
	switch {
	case strings.Count(s, "/") == 2:
		sep = "/"
	case strings.Count(s, "-") == 2:
		sep = "-"
	default:
		return time.Time{}, false
	}
	parts := strings.Split(s, sep)
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	yearStr := strings.TrimSpace(parts[2])
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	if len(yearStr) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components, so require a round-trip.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ResolveFinancialYear maps a raw date string to the start year of the
// financial year containing it. ok is false when the date cannot be parsed;
// callers must exclude such rows rather than defaulting them into a year.
func ResolveFinancialYear(raw string) (fyStart int, ok bool) {
	t, ok := ParseStatementDate(raw)
	if !ok {
		return 0, false
	}
	if t.Month() >= fyStartMonth {
		return t.Year(), true
	}
	return t.Year() - 1, true
}

// InRange reports whether rowDate falls inside the financial year starting
// at fyStart, both boundary dates inclusive. Unparseable dates are out of
// every range.
func InRange(fyStart int, rowDate string) bool {
	got, ok := ResolveFinancialYear(rowDate)
	return ok && got == fyStart
}

// FYLabel renders a start year as the 2024-25 form used to key periods.
func FYLabel(fyStart int) string {
	return fmt.Sprintf("%d-%02d", fyStart, (fyStart+1)%100)
}

// ParseFYLabel is the inverse of FYLabel. It also tolerates a bare year.
func ParseFYLabel(label string) (int, bool) {
	s := strings.TrimSpace(label)
	if i := strings.IndexAny(s, "-/"); i >= 0 {
		s = s[:i]
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 9999 {
		return 0, false
	}
	return year, true
}

// ParseAssessmentYear maps an assessment-year string such as "2025-26" to
// its start year.
func ParseAssessmentYear(ay string) (int, bool) {
	return ParseFYLabel(ay)
}
