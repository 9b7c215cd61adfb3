package core

import (
	"strconv"
	"strings"
)

// BankStatementRow is one imported bank transaction. Monetary columns stay
// as imported text and are coerced with ParseMoney at aggregation time.
// Deleted rows are hidden from every reconciliation view but kept so they
// can be restored.
type BankStatementRow struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Narration  string `json:"narration"`
	ChqNo      string `json:"chqNo,omitempty"`
	ValueDt    string `json:"valueDt,omitempty"`
	Withdrawal string `json:"withdrawal"`
	Deposit    string `json:"deposit"`
	Closing    string `json:"closing,omitempty"`
	Name       string `json:"name,omitempty"`
	TxnType    string `json:"txnType,omitempty"`
	Deleted    bool   `json:"deleted,omitempty"`
}

// Net is the row's deposit minus withdrawal.
func (r BankStatementRow) Net() float64 {
	return ParseMoney(r.Deposit) - ParseMoney(r.Withdrawal)
}

// ParseMoney coerces imported monetary text to a number. Thousands
// separators and surrounding whitespace are stripped; anything that still
// fails to parse is 0, never an error.
func ParseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeName canonicalizes a payer name for matching: trim, collapse
// internal whitespace runs, uppercase.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
