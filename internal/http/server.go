// Package http exposes the tracker over a JSON API. Every response uses the
// success/error envelope, and mutating routes map onto the service layer's
// debounced write path.
package http

import (
	"net/http"
	"time"

	"billtracker/internal/metrics"
	"billtracker/internal/middleware/trace"
	"billtracker/internal/services"
)

type Server struct {
	http.Server

	bills  *services.BillService
	audits *services.AuditService
	recon  *services.ReconService

	// defaultMarker is the narration filter applied when the
	// reconciliation view is called without one.
	defaultMarker string

	// now supplies the clock the report views default their financial
	// year from.
	now func() time.Time
}

// NewServer configures the routes and returns a ready-to-run server.
func NewServer(addr string, bills *services.BillService, audits *services.AuditService, recon *services.ReconService, defaultMarker string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		bills:         bills,
		audits:        audits,
		recon:         recon,
		defaultMarker: defaultMarker,
		now:           time.Now,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           trace.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/bills", s.handleListBills)
	mux.HandleFunc("POST /api/bills", s.handleCreateBill)
	mux.HandleFunc("DELETE /api/bills/{kind}/{identity}", s.handleDeleteBill)
	mux.HandleFunc("PUT /api/bills/{kind}/{identity}/periods/{year}/{sub}", s.handleEditPeriod)

	mux.HandleFunc("GET /api/audits", s.handleListAudits)
	mux.HandleFunc("POST /api/audits", s.handleSubmitAudit)
	mux.HandleFunc("PUT /api/audits/{pan}/{year}/{field}", s.handleEditAuditCell)
	mux.HandleFunc("DELETE /api/audits/{pan}", s.handleDeleteAudit)

	mux.HandleFunc("GET /api/statements/{collection}/rows", s.handleListRows)
	mux.HandleFunc("POST /api/statements/{collection}/rows", s.handleSaveRow)
	mux.HandleFunc("DELETE /api/statements/{collection}/rows/{id}", s.handleDeleteRow)
	mux.HandleFunc("POST /api/statements/{collection}/rows/{id}/restore", s.handleRestoreRow)

	mux.HandleFunc("GET /api/fees", s.handleListFees)
	mux.HandleFunc("PUT /api/fees", s.handleSaveFee)
	mux.HandleFunc("POST /api/fees/{name}/paid", s.handleSetPaid)

	mux.HandleFunc("GET /api/reconciliation", s.handleReconciliation)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
