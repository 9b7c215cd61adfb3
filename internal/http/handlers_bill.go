package http

import (
	"net/http"

	"billtracker/internal/core"
)

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.bills.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, bills)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var b core.Bill
	if err := decodeBody(r, &b); err != nil {
		writeBadRequest(w, "invalid bill payload: "+err.Error())
		return
	}
	if err := s.bills.Create(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusCreated, b.Normalize())
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r.PathValue("kind"))
	if !ok {
		writeBadRequest(w, "unknown bill kind")
		return
	}
	if err := s.bills.Delete(r.Context(), kind, r.PathValue("identity")); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, nil)
}

// periodEdit is one cell edit in the year grid. Field selects which of the
// three slot attributes the value lands in.
type periodEdit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleEditPeriod(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r.PathValue("kind"))
	if !ok {
		writeBadRequest(w, "unknown bill kind")
		return
	}
	identity := r.PathValue("identity")
	year := r.PathValue("year")
	sub := r.PathValue("sub")

	var edit periodEdit
	if err := decodeBody(r, &edit); err != nil {
		writeBadRequest(w, "invalid edit payload: "+err.Error())
		return
	}

	var (
		bill core.Bill
		err  error
	)
	switch edit.Field {
	case "amount":
		bill, err = s.bills.EditAmount(r.Context(), kind, identity, year, sub, edit.Value)
	case "date":
		bill, err = s.bills.EditDate(r.Context(), kind, identity, year, sub, edit.Value)
	case "remarks":
		bill, err = s.bills.EditRemarks(r.Context(), kind, identity, year, sub, edit.Value)
	default:
		writeBadRequest(w, "field must be amount, date or remarks")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, bill)
}

func parseKind(v string) (core.BillKind, bool) {
	switch core.BillKind(v) {
	case core.KindGST:
		return core.KindGST, true
	case core.KindIT:
		return core.KindIT, true
	}
	return "", false
}
