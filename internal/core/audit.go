package core

type (
	// AuditEntry tracks the audit workflow for one PAN across years.
	AuditEntry struct {
		PAN      string                  `json:"pan"`
		Name     string                  `json:"name,omitempty"`
		Accounts map[int]YearlyAuditData `json:"accounts"`
	}

	// YearlyAuditData holds one year's fee and workflow timestamps. Fee is
	// kept as entered; LastYearFee is the numeric carry-forward written by
	// CarryForwardFee into the following year.
	YearlyAuditData struct {
		Fee          string  `json:"fee,omitempty"`
		LastYearFee  float64 `json:"lastYearFee,omitempty"`
		SentToCA     string  `json:"sentToCA,omitempty"`
		SentOn       string  `json:"sentOn,omitempty"`
		ReceivedOn   string  `json:"receivedOn,omitempty"`
		DateOfUpload string  `json:"dateOfUpload,omitempty"`
		ITRFiledOn   string  `json:"itrFiledOn,omitempty"`
		Accountant   string  `json:"accountant,omitempty"`
	}
)

// CarryForwardFee propagates the fee recorded for year into year+1's
// lastYearFee, merging into whatever already exists there. A blank fee for
// year leaves the entry unchanged; a non-numeric one carries forward as 0.
// Every path that records a fee (per-cell edit or full-form submit) must go
// through here so the two cannot diverge.
func CarryForwardFee(entry AuditEntry, year int) AuditEntry {
	data, ok := entry.Accounts[year]
	if !ok || data.Fee == "" {
		return entry
	}

	out := entry
	out.Accounts = make(map[int]YearlyAuditData, len(entry.Accounts)+1)
	for y, d := range entry.Accounts {
		out.Accounts[y] = d
	}
	next := out.Accounts[year+1]
	next.LastYearFee = ParseMoney(data.Fee)
	out.Accounts[year+1] = next
	return out
}
