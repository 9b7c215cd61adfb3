package http

import (
	"net/http"

	"billtracker/internal/core"
)

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	fees, err := s.recon.FeeEntries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, fees)
}

func (s *Server) handleSaveFee(w http.ResponseWriter, r *http.Request) {
	var entry core.CurrentFeeEntry
	if err := decodeBody(r, &entry); err != nil {
		writeBadRequest(w, "invalid fee entry: "+err.Error())
		return
	}
	if entry.Name == "" {
		writeBadRequest(w, "fee entry needs a name")
		return
	}
	if err := s.recon.SaveFeeEntry(r.Context(), entry); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, entry)
}

type paidToggle struct {
	FY   string `json:"fy"`
	Paid bool   `json:"paid"`
}

func (s *Server) handleSetPaid(w http.ResponseWriter, r *http.Request) {
	var toggle paidToggle
	if err := decodeBody(r, &toggle); err != nil {
		writeBadRequest(w, "invalid paid toggle: "+err.Error())
		return
	}
	if toggle.FY == "" {
		writeBadRequest(w, `fy label is required, e.g. "2024-25"`)
		return
	}
	entry, err := s.recon.SetPaid(r.Context(), r.PathValue("name"), toggle.FY, toggle.Paid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, entry)
}
