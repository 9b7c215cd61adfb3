package core

// CurrentFeeEntry is one named fee ledger row, keyed by normalized payer
// name. The four fee columns stay as entered. PaidByFY is the authoritative
// paid flag per financial-year label; it is toggled explicitly and never
// derived from amounts.
type CurrentFeeEntry struct {
	Name     string          `json:"name"`
	GSTFee   string          `json:"gstFee,omitempty"`
	ITFee    string          `json:"itFee,omitempty"`
	TDSFee   string          `json:"tdsFee,omitempty"`
	AuditFee string          `json:"auditFee,omitempty"`
	PaidByFY map[string]bool `json:"paidByFY,omitempty"`
}

// TotalFee sums the four fee columns, treating non-numeric text as 0.
func (e CurrentFeeEntry) TotalFee() float64 {
	return ParseMoney(e.GSTFee) + ParseMoney(e.ITFee) + ParseMoney(e.TDSFee) + ParseMoney(e.AuditFee)
}

// Paid reports the explicit paid flag for a financial-year label.
func (e CurrentFeeEntry) Paid(fyLabel string) bool {
	return e.PaidByFY[fyLabel]
}

// WithPaid returns a copy with the paid flag for one financial year set.
func (e CurrentFeeEntry) WithPaid(fyLabel string, paid bool) CurrentFeeEntry {
	out := e
	out.PaidByFY = make(map[string]bool, len(e.PaidByFY)+1)
	for k, v := range e.PaidByFY {
		out.PaidByFY[k] = v
	}
	out.PaidByFY[fyLabel] = paid
	return out
}
