package api

import (
	"net/http"
	"strings"

	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
)

// handleReports serves GET (list) and POST (create) /api/reports.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		reports, err := s.deps.ListReports(r.Context(), id, r.URL.Query().Get("player_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
	case http.MethodPost:
		var rep model.ScoutingReport
		if err := decodeJSON(r, &rep); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err)
			return
		}
		created, err := s.deps.CreateReport(r.Context(), id, &rep)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

// handleReport serves GET /api/reports/{id} and GET /api/reports/{id}/pdf.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	id, _ := auth.IdentityFrom(r.Context())

	if reportID, ok := strings.CutSuffix(rest, "/pdf"); ok {
		out, err := s.deps.ExportPDF(r.Context(), id, reportID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report-`+reportID+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	rep, err := s.deps.GetReport(r.Context(), id, rest)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
