package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"billtracker/internal/core"
	"billtracker/internal/store"
)

// writeResult writes the success envelope with the given payload.
func writeResult(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(store.OK(data)); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses and writes the failure
// envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateIdentity):
		status = http.StatusConflict
	case errors.Is(err, core.ErrMissingIdentity),
		errors.Is(err, core.ErrBadKind),
		errors.Is(err, core.ErrBadPeriodicity):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(store.Fail(err))
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(store.Result{Success: false, Error: msg})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
