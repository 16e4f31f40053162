package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leadops/leadwash/internal/core"
	"github.com/leadops/leadwash/internal/lead"
	"github.com/leadops/leadwash/internal/logging"
	"github.com/leadops/leadwash/internal/tabular"
)

// errorResponse is the JSON body for all error responses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors onto HTTP statuses. Unknown
// errors become 500s with a generic body so internal details never
// reach the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *lead.MissingColumnsError

	switch {
	case errors.Is(err, core.ErrRunNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrTooManyRuns):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, core.ErrSlotOutOfRange),
		errors.Is(err, core.ErrSlotNotCleansable),
		errors.Is(err, core.ErrUnknownRefKind),
		errors.Is(err, core.ErrNoPhoneColumn),
		errors.Is(err, tabular.ErrUnsupportedFormat),
		errors.As(err, &missing):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrSlotNotLoaded),
		errors.Is(err, core.ErrSlotNotCleansed):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
