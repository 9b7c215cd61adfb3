package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"billtracker/internal/core"
)

func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	var fy *int
	if v := strings.TrimSpace(r.URL.Query().Get("fy")); v != "" {
		start, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "fy must be the starting calendar year, e.g. 2024")
			return
		}
		fy = &start
	}
	rows, err := s.recon.Rows(r.Context(), collection, fy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, rows)
}

func (s *Server) handleSaveRow(w http.ResponseWriter, r *http.Request) {
	var row core.BankStatementRow
	if err := decodeBody(r, &row); err != nil {
		writeBadRequest(w, "invalid statement row: "+err.Error())
		return
	}
	saved, err := s.recon.SaveRow(r.Context(), r.PathValue("collection"), row)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if row.ID == "" {
		status = http.StatusCreated
	}
	writeResult(w, status, saved)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	if err := s.recon.DeleteRow(r.Context(), r.PathValue("collection"), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, nil)
}

func (s *Server) handleRestoreRow(w http.ResponseWriter, r *http.Request) {
	if err := s.recon.RestoreRow(r.Context(), r.PathValue("collection"), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, nil)
}

// currentFYStart is the default financial year for the report views: the
// year containing today, counted from April.
func currentFYStart(now time.Time) int {
	if now.Month() >= time.April {
		return now.Year()
	}
	return now.Year() - 1
}

// parseFYParam reads fy from the query, falling back to the financial year
// containing the server's current time.
func (s *Server) parseFYParam(r *http.Request) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("fy"))
	if v == "" {
		return currentFYStart(s.now()), true
	}
	start, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return start, true
}

func (s *Server) handleReconciliation(w http.ResponseWriter, r *http.Request) {
	collection := strings.TrimSpace(r.URL.Query().Get("collection"))
	if collection == "" {
		writeBadRequest(w, "collection is required")
		return
	}
	fy, ok := s.parseFYParam(r)
	if !ok {
		writeBadRequest(w, "fy must be the starting calendar year, e.g. 2024")
		return
	}
	marker := r.URL.Query().Get("marker")
	if marker == "" {
		marker = s.defaultMarker
	}
	rows, err := s.recon.Reconciliation(r.Context(), collection, marker, fy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, rows)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	collection := strings.TrimSpace(r.URL.Query().Get("collection"))
	if collection == "" {
		writeBadRequest(w, "collection is required")
		return
	}
	fy, ok := s.parseFYParam(r)
	if !ok {
		writeBadRequest(w, "fy must be the starting calendar year, e.g. 2024")
		return
	}
	rows, err := s.recon.Summary(r.Context(), collection, fy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, rows)
}
