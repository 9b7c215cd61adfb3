package core

import "strings"

// ReceivedForName nets the bank-statement rows attributable to one payer in
// one financial year: rows that are not soft-deleted, whose narration
// contains marker (exact, case-sensitive substring), whose normalized name
// equals name, and whose date resolves into fyStart. The result is the sum
// of deposit minus withdrawal over those rows.
func ReceivedForName(rows []BankStatementRow, name, marker string, fyStart int) float64 {
	var received float64
	for _, r := range rows {
		if r.Deleted {
			continue
		}
		if marker != "" && !strings.Contains(r.Narration, marker) {
			continue
		}
		if NormalizeName(r.Name) != name {
			continue
		}
		if !InRange(fyStart, r.Date) {
			continue
		}
		received += r.Net()
	}
	return received
}

// Due is the fee total minus the amount received. The sign is preserved: a
// negative due is an overpayment and must stay visible as such, never
// clamped to zero.
func Due(total, received float64) float64 {
	return total - received
}
