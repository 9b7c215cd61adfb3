package http

import (
	"net/http"
	"strconv"

	"billtracker/internal/core"
)

func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	entries, err := s.audits.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, entries)
}

// auditSubmission carries a whole audit form plus the financial year the
// form was filled for, which drives the fee carry-forward.
type auditSubmission struct {
	Entry      core.AuditEntry `json:"entry"`
	ActiveYear int             `json:"activeYear"`
}

func (s *Server) handleSubmitAudit(w http.ResponseWriter, r *http.Request) {
	var sub auditSubmission
	if err := decodeBody(r, &sub); err != nil {
		writeBadRequest(w, "invalid audit payload: "+err.Error())
		return
	}
	if sub.Entry.PAN == "" {
		writeBadRequest(w, "audit entry needs a pan")
		return
	}
	saved, err := s.audits.Submit(r.Context(), sub.Entry, sub.ActiveYear)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, saved)
}

type cellEdit struct {
	Value string `json:"value"`
}

// auditFields are the editable per-year workflow cells.
var auditFields = map[string]bool{
	"fee":          true,
	"sentToCA":     true,
	"sentOn":       true,
	"receivedOn":   true,
	"dateOfUpload": true,
	"itrFiledOn":   true,
	"accountant":   true,
}

func (s *Server) handleEditAuditCell(w http.ResponseWriter, r *http.Request) {
	// Audit accounts are keyed by assessment year; accept the label form
	// ("2025-26") as well as the bare start year.
	year, ok := core.ParseAssessmentYear(r.PathValue("year"))
	if !ok {
		writeBadRequest(w, `year must be a start year or label, e.g. "2025" or "2025-26"`)
		return
	}
	field := r.PathValue("field")
	if !auditFields[field] {
		writeBadRequest(w, "unknown audit field "+strconv.Quote(field))
		return
	}
	var edit cellEdit
	if err := decodeBody(r, &edit); err != nil {
		writeBadRequest(w, "invalid edit payload: "+err.Error())
		return
	}
	entry, err := s.audits.EditField(r.Context(), r.PathValue("pan"), year, field, edit.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteAudit(w http.ResponseWriter, r *http.Request) {
	if err := s.audits.Delete(r.Context(), r.PathValue("pan")); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, nil)
}
