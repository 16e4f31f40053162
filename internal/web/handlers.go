package web

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/leadops/leadwash/internal/core"
	"github.com/leadops/leadwash/internal/logging"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateRun starts a new cleansing run and returns its ID.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.CreateRun(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, status)
}

// handleRunStatus returns the current state of a run: which slots are
// loaded, which references are present, and per-slot removal summaries.
func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	status, err := s.service.Status(runID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleDeleteRun discards a run and all of its in-memory state.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteRun(r.Context(), runID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadSlot accepts a lead file for one of the run's slots.
// Slot 1 is the newest file; slots 2-5 are older files used by the
// cross-file cascade.
func (s *Server) handleUploadSlot(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}
	filename, data, ok := readUpload(w, r, s.cfg.Upload.MaxFileSize)
	if !ok {
		return
	}

	status, err := s.service.LoadLeadFile(r.Context(), runID, slot, filename, data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleUploadReference accepts a suppression reference file. The kind
// path segment selects the parser: dnc, tcpa-phones, tcpa-zips, master.
func (s *Server) handleUploadReference(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	kind := core.ReferenceKind(chi.URLParam(r, "kind"))

	filename, data, ok := readUpload(w, r, s.cfg.Upload.MaxFileSize)
	if !ok {
		return
	}

	status, err := s.service.LoadReference(r.Context(), runID, kind, filename, data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleCleanse runs the full filter sequence against slot 1. Other
// slots hold pre-cleaned files and are rejected by the service.
func (s *Server) handleCleanse(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}

	status, err := s.service.Cleanse(r.Context(), runID, slot)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleCascade removes phones already present in earlier slots from
// every later slot. Slot 1 must be cleansed first.
func (s *Server) handleCascade(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	statuses, err := s.service.Cascade(r.Context(), runID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, statuses)
}

// handleExportCleaned streams the surviving rows of a slot as CSV.
func (s *Server) handleExportCleaned(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}

	data, filename, err := s.service.ExportCleaned(runID, slot)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveFile(w, r, filename, "text/csv", data)
}

// handleExportRemovedCSV streams every removed row of a slot, with a
// leading Reason column, as CSV.
func (s *Server) handleExportRemovedCSV(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}

	data, err := s.service.ExportRemovedCSV(runID, slot)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveFile(w, r, "removed.csv", "text/csv", data)
}

// handleExportRemovedWorkbook streams the removed rows as a styled
// workbook with the implicated cells highlighted.
func (s *Server) handleExportRemovedWorkbook(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}

	data, err := s.service.ExportRemovedWorkbook(runID, slot)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveFile(w, r, "removed.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseRunID extracts and validates the runID path parameter. On
// failure it writes the error response and returns ok=false.
func parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid run ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseSlot extracts the slot path parameter. Range checking is left
// to the service so out-of-range slots report the same error everywhere.
func parseSlot(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid slot number")
		return 0, false
	}
	return n, true
}

// readUpload reads the "file" part of a multipart upload, enforcing the
// configured size limit. On failure it writes the error response and
// returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request, maxSize int64) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		logging.FromContext(r.Context()).Warn("upload rejected", "error", err)
		writeError(w, r, http.StatusBadRequest, "missing or oversized file upload")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read uploaded file")
		return "", nil, false
	}
	return header.Filename, data, true
}

// serveFile writes a download response with the given filename.
func serveFile(w http.ResponseWriter, r *http.Request, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.FromContext(r.Context()).Error("failed to write download", "error", err)
	}
}
