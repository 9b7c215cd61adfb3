package core

import "sort"

// UnnamedKey buckets statement rows without a payer name in the summary.
const UnnamedKey = "(Unnamed)"

// SummaryRow aggregates one payer's statement activity within a financial
// year.
type SummaryRow struct {
	Name            string  `json:"name"`
	Credits         int     `json:"credits"`
	Debits          int     `json:"debits"`
	TotalDeposit    float64 `json:"totalDeposit"`
	TotalWithdrawal float64 `json:"totalWithdrawal"`
	SumTotal        float64 `json:"sumtotal"`
}

// Summarize groups statement rows by raw name within the financial year
// starting at fyStart. Soft-deleted rows and rows whose date fails the
// strict parse are dropped; this is a best-effort report, not an error
// surface. Output is ordered by name for stable rendering.
func Summarize(rows []BankStatementRow, fyStart int) []SummaryRow {
	groups := make(map[string]*SummaryRow)
	for _, r := range rows {
		if r.Deleted || !InRange(fyStart, r.Date) {
			continue
		}
		name := r.Name
		if name == "" {
			name = UnnamedKey
		}
		g, ok := groups[name]
		if !ok {
			g = &SummaryRow{Name: name}
			groups[name] = g
		}
		deposit := ParseMoney(r.Deposit)
		withdrawal := ParseMoney(r.Withdrawal)
		if deposit > 0 {
			g.Credits++
		}
		if withdrawal > 0 {
			g.Debits++
		}
		g.TotalDeposit += deposit
		g.TotalWithdrawal += withdrawal
	}

	out := make([]SummaryRow, 0, len(groups))
	for _, g := range groups {
		g.SumTotal = g.TotalDeposit - g.TotalWithdrawal
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
