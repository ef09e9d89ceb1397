package http

import (
	"bytes"
	"fmt"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/export"
	applog "fintrack/internal/log"
)

// Exports reuse the list filters: what the caller sees filtered in the
// ledger view is exactly what lands in the file.

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, user core.User) {
	records, err := s.filter.All(r.Context(), user.ID, criteriaFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		applog.FromContext(r.Context()).Error("CSV export failed",
			applog.FieldError, err, applog.FieldOwnerID, user.ID)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="records_%s.csv"`, user.Username))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request, user core.User) {
	records, err := s.filter.All(r.Context(), user.ID, criteriaFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}

	doc, err := export.BuildPDF(records, user.Username)
	if err != nil {
		applog.FromContext(r.Context()).Error("PDF export failed",
			applog.FieldError, err, applog.FieldOwnerID, user.ID)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="records_%s.pdf"`, user.Username))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
