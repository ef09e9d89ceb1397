package http

import (
	"io"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/importer"
)

// maxSkippedShown caps how many rejected row numbers the response
// lists; the full count is always reported.
const maxSkippedShown = 10

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request, user core.User) {
	// Parse bounded by the payload ceiling plus form overhead.
	if err := r.ParseMultipartForm(importer.MaxPayloadBytes + 64*1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, importer.ErrNotCSV)
		return
	}
	defer file.Close()
	createMissing := r.FormValue("create_missing_categories") == "on"

	raw, err := io.ReadAll(io.LimitReader(file, importer.MaxPayloadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	outcome, err := s.pipeline.Import(r.Context(), header.Filename, raw, user.ID, createMissing)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.events.ImportCompleted(r.Context(), user.ID, outcome.Accepted, len(outcome.FailedRows))

	body := map[string]any{"imported": outcome.Accepted}
	if len(outcome.FailedRows) > 0 {
		shown := outcome.FailedRows
		if len(shown) > maxSkippedShown {
			shown = shown[:maxSkippedShown]
		}
		body["skipped_rows"] = shown
		body["skipped_count"] = len(outcome.FailedRows)
		// Multi-Status: the batch partially succeeded.
		writeJSON(w, http.StatusMultiStatus, body)
		return
	}
	writeJSON(w, http.StatusCreated, body)
}
